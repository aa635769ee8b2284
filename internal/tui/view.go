package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

func (m MainModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("ports " + m.version)
	portsTab := inactiveTabStyle.Render("Ports")
	serversTab := inactiveTabStyle.Render("Servers")
	if m.activeTab == tabPorts {
		portsTab = activeTabStyle.Render("Ports")
	} else {
		serversTab = activeTabStyle.Render("Servers")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, " ", portsTab, " ", serversTab))
	b.WriteString("\n\n")

	if m.activeTab == tabPorts {
		b.WriteString(baseStyle.Render(m.portTable.View()))
	} else {
		b.WriteString(baseStyle.Render(m.serverTable.View()))
	}
	b.WriteString("\n")

	if m.prompt != promptNone {
		label := "Directory to serve"
		if m.prompt == promptPort {
			label = "Port for " + m.pendingDir
		}
		scope := "localhost"
		if m.pendingLAN {
			scope = "LAN"
		}
		b.WriteString(promptStyle.Render(label+" ("+scope+", ctrl+l toggles)") + "\n")
		b.WriteString(m.input.View() + "\n")
	}

	if m.statusMsg != "" {
		style := statusStyle
		if strings.HasPrefix(m.statusMsg, "error:") {
			style = errorStyle
		}
		b.WriteString(style.Render(m.statusMsg) + "\n")
	}

	help := "tab: switch • r: refresh • q: quit"
	if m.activeTab == tabServers {
		help = "tab: switch • s: start server • x: stop server • r: refresh • q: quit"
	}
	if m.prompt != promptNone {
		help = "enter: confirm • esc: cancel • ctrl+l: toggle LAN"
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	b.WriteString(footerStyle.Render(wrap.String(help, width)))

	return b.String()
}
