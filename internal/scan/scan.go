// Package scan enumerates TCP listening sockets by running the system's
// lsof and caching the parsed result for a short TTL.
package scan

import (
	"bytes"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rselbach/Ports/pkg/model"
)

const DefaultTTL = 2 * time.Second

// Scanner wraps the enumeration command with a time-bounded cache. Safe
// for concurrent use; the command itself blocks, so callers on
// latency-sensitive paths should invoke it from their own goroutine.
type Scanner struct {
	mu       sync.Mutex
	ttl      time.Duration
	records  []model.ListeningPort
	captured time.Time

	run func() (stdout, stderr string, err error)
	now func() time.Time
}

func New(ttl time.Duration) *Scanner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Scanner{
		ttl: ttl,
		run: runLsof,
		now: time.Now,
	}
}

// Ports returns the cached records if they are younger than the TTL,
// capturing fresh ones otherwise.
func (s *Scanner) Ports() []model.ListeningPort {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.captured.IsZero() && s.now().Sub(s.captured) < s.ttl {
		return append([]model.ListeningPort(nil), s.records...)
	}
	return s.capture()
}

// Refresh always captures fresh records, replacing the cache.
func (s *Scanner) Refresh() []model.ListeningPort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture()
}

// capture runs the enumeration command and overwrites the cache. Called
// with s.mu held.
func (s *Scanner) capture() []model.ListeningPort {
	stdout, stderr, err := s.run()
	if err != nil && stdout == "" {
		log.Printf("scan: %v (stderr: %s)", err, firstLine(stderr))
		s.records = nil
		s.captured = s.now()
		return nil
	}
	if err != nil {
		// lsof exits non-zero when it cannot inspect every process, but
		// whatever it did print is still usable.
		log.Printf("scan: warning: %v (stderr: %s)", err, firstLine(stderr))
	}

	records := ParseFields(stdout)
	if len(records) == 0 && strings.TrimSpace(stdout) != "" {
		// Some lsof builds ignore -F; fall back to the columnar form.
		records = ParseTable(stdout)
	}
	s.records = records
	s.captured = s.now()
	return append([]model.ListeningPort(nil), s.records...)
}

func runLsof() (string, string, error) {
	cmd := exec.Command("lsof", "-iTCP", "-sTCP:LISTEN", "-P", "-n", "-F", "pcn")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return strings.TrimSpace(s)
}
