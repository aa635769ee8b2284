package scan

import (
	"strconv"
	"strings"

	"github.com/rselbach/Ports/pkg/model"
)

// ParseFields parses lsof -F pcn output: one field per line, the first
// character naming it. A 'p' line starts a new process block, a 'c' line
// names its command, and each 'n' line carries an address:port pair.
func ParseFields(out string) []model.ListeningPort {
	var (
		records []model.ListeningPort
		seen    = make(map[uint16]bool)
		pid     int32
		havePID bool
		command string
	)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		switch line[0] {
		case 'p':
			command = ""
			n, err := strconv.ParseInt(line[1:], 10, 32)
			if err != nil {
				havePID = false
				continue
			}
			pid = int32(n)
			havePID = true
		case 'c':
			command = line[1:]
		case 'n':
			if !havePID {
				continue
			}
			addr, port, ok := splitHostPort(line[1:])
			if !ok || seen[port] {
				continue
			}
			seen[port] = true
			records = append(records, model.ListeningPort{
				Port:    port,
				PID:     pid,
				Process: command,
				Address: addr,
			})
		}
	}

	return records
}

// ParseTable parses the columnar lsof -i -P -n form: one line per socket,
// the NAME column holding address:port followed by the state.
func ParseTable(out string) []model.ListeningPort {
	var records []model.ListeningPort
	seen := make(map[uint16]bool)

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 9 || fields[0] == "COMMAND" {
			continue
		}
		if !strings.Contains(line, "(LISTEN)") {
			continue
		}

		pid, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			continue
		}

		addr, port, ok := splitHostPort(fields[8])
		if !ok || seen[port] {
			continue
		}
		seen[port] = true
		records = append(records, model.ListeningPort{
			Port:    port,
			PID:     int32(pid),
			Process: fields[0],
			Address: addr,
		})
	}

	return records
}

// splitHostPort splits "address:port" on the last colon so that IPv6
// addresses like [::1]:9090 keep their embedded colons.
func splitHostPort(s string) (string, uint16, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), " (LISTEN)")

	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", 0, false
	}

	port, err := strconv.ParseUint(s[i+1:], 10, 16)
	if err != nil {
		return "", 0, false
	}
	return s[:i], uint16(port), true
}
