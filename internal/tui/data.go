package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rselbach/Ports/pkg/model"
)

type (
	portsMsg   []model.ListeningPort
	serversMsg []model.SavedServer
	statusMsg  string
	tickMsg    time.Time
)

func waitTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshPorts goes through the scanner's TTL cache, so a tick that
// fires inside the window is free.
func (m MainModel) refreshPorts() tea.Cmd {
	return func() tea.Msg {
		return portsMsg(m.scanner.Ports())
	}
}

func (m MainModel) refreshServers() tea.Cmd {
	return func() tea.Msg {
		return serversMsg(m.mgr.SavedServers())
	}
}

func (m MainModel) startServer(dir, portField string, lan bool) tea.Cmd {
	return func() tea.Msg {
		var port uint16
		if s := strings.TrimSpace(portField); s != "" {
			n, err := strconv.ParseUint(s, 10, 16)
			if err != nil {
				return statusMsg(fmt.Sprintf("error: %q is not a port", s))
			}
			port = uint16(n)
		}

		srv, err := m.mgr.StartServer(port, dir, lan)
		if err != nil {
			return statusMsg("error: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("serving %s on port %d", srv.Root(), srv.Port()))
	}
}

func (m MainModel) stopServer() tea.Cmd {
	row := m.serverTable.SelectedRow()
	if row == nil {
		return nil
	}
	port, err := strconv.ParseUint(row[0], 10, 16)
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		if !m.mgr.StopServer(uint16(port)) {
			return statusMsg(fmt.Sprintf("error: no server on port %d", port))
		}
		return statusMsg(fmt.Sprintf("stopped server on port %d", port))
	}
}

func portRows(records []model.ListeningPort) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(int(r.Port)),
			strconv.Itoa(int(r.PID)),
			r.Process,
			r.Address,
		})
	}
	return rows
}

func serverRows(servers []model.SavedServer) []table.Row {
	rows := make([]table.Row, 0, len(servers))
	for _, s := range servers {
		scope := "localhost"
		if s.ExposeToLAN {
			scope = "lan"
		}
		rows = append(rows, table.Row{strconv.Itoa(int(s.Port)), s.Directory, scope})
	}
	return rows
}
