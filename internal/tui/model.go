package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rselbach/Ports/internal/manager"
	"github.com/rselbach/Ports/internal/scan"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#005f87")). // Deep Blue
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f87d7")). // Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")).
				Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f87d7")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")) // Dimmed Gray

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#22aa22")). // Green
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")).
				Background(lipgloss.Color("#767676")).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffdf87")) // Amber

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f")). // Soft red
			Bold(true)
)

type tab int

const (
	tabPorts tab = iota
	tabServers
)

type prompt int

const (
	promptNone prompt = iota
	promptDir
	promptPort
)

const refreshEvery = 2 * time.Second

type MainModel struct {
	mgr     *manager.Manager
	scanner *scan.Scanner

	activeTab   tab
	portTable   table.Model
	serverTable table.Model

	// Start-server prompt flow: directory first, then port.
	prompt     prompt
	input      textinput.Model
	pendingDir string
	pendingLAN bool

	statusMsg string
	errMsg    string
	width     int
	height    int
	version   string
	quitting  bool
}

func InitialModel(version string, mgr *manager.Manager, scanner *scan.Scanner) MainModel {
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#005faf")). // Blue
		Bold(false)

	pt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Port", Width: 6},
			{Title: "PID", Width: 8},
			{Title: "Process", Width: 24},
			{Title: "Address", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	pt.SetStyles(s)

	st := table.New(
		table.WithColumns([]table.Column{
			{Title: "Port", Width: 6},
			{Title: "Directory", Width: 50},
			{Title: "Scope", Width: 10},
		}),
		table.WithFocused(false),
		table.WithHeight(20),
	)
	st.SetStyles(s)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Blur()

	return MainModel{
		mgr:         mgr,
		scanner:     scanner,
		activeTab:   tabPorts,
		portTable:   pt,
		serverTable: st,
		input:       ti,
		version:     version,
	}
}

func Start(version string, mgr *manager.Manager, scanner *scan.Scanner) error {
	if os.Getenv("COLORTERM") == "" {
		os.Setenv("COLORTERM", "truecolor") //nolint:errcheck
	}

	p := tea.NewProgram(InitialModel(version, mgr, scanner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running tui: %w", err)
	}
	return nil
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.refreshPorts(),
		m.refreshServers(),
		waitTick(),
	)
}
