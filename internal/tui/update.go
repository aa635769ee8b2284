package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 8
		if h < 5 {
			h = 5
		}
		m.portTable.SetHeight(h)
		m.serverTable.SetHeight(h)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshPorts(), m.refreshServers(), waitTick())

	case portsMsg:
		m.portTable.SetRows(portRows(msg))
		return m, nil

	case serversMsg:
		m.serverTable.SetRows(serverRows(msg))
		return m, nil

	case statusMsg:
		m.statusMsg = string(msg)
		return m, m.refreshServers()

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m MainModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.activeTab == tabPorts {
			m.activeTab = tabServers
			m.portTable.Blur()
			m.serverTable.Focus()
		} else {
			m.activeTab = tabPorts
			m.serverTable.Blur()
			m.portTable.Focus()
		}
		return m, nil

	case "r":
		return m, tea.Batch(m.refreshPorts(), m.refreshServers())

	case "s":
		if m.activeTab == tabServers {
			m.prompt = promptDir
			m.pendingLAN = false
			m.input.Placeholder = "directory to serve"
			m.input.SetValue("")
			m.input.Focus()
			return m, nil
		}

	case "x":
		if m.activeTab == tabServers {
			return m, m.stopServer()
		}
	}

	var cmd tea.Cmd
	if m.activeTab == tabPorts {
		m.portTable, cmd = m.portTable.Update(msg)
	} else {
		m.serverTable, cmd = m.serverTable.Update(msg)
	}
	return m, cmd
}

func (m MainModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case "ctrl+l":
		// Toggle LAN exposure while either prompt is open.
		m.pendingLAN = !m.pendingLAN
		return m, nil

	case "enter":
		switch m.prompt {
		case promptDir:
			dir := m.input.Value()
			if dir == "" {
				return m, nil
			}
			m.pendingDir = dir
			m.prompt = promptPort
			m.input.Placeholder = "port (empty picks one)"
			m.input.SetValue("")
			return m, nil

		case promptPort:
			port := m.input.Value()
			m.prompt = promptNone
			m.input.Blur()
			return m, m.startServer(m.pendingDir, port, m.pendingLAN)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
