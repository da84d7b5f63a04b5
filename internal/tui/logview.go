package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	logErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	logOkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
)

// logModel is a scrollable read-only view over the automation log file.
type logModel struct {
	vp      viewport.Model
	content string
	ready   bool
	name    string
}

func newLogModel(content, name string) logModel {
	return logModel{content: colorizeLog(content), name: name}
}

// colorizeLog paints ERROR and SUCCESS lines; everything else stays dim.
func colorizeLog(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "ERROR:"):
			lines[i] = logErrStyle.Render(l)
		case strings.HasPrefix(l, "SUCCESS:"):
			lines[i] = logOkStyle.Render(l)
		default:
			lines[i] = dimStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func (m logModel) Init() tea.Cmd { return nil }

func (m logModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-3)
			m.vp.SetContent(m.content)
			m.vp.GotoBottom()
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 3
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m logModel) View() string {
	if !m.ready {
		return "carregando..."
	}
	header := titleStyle.Render("log — " + m.name)
	hint := hintStyle.Render("↑/↓ rolar · q sair")
	return header + "\n" + m.vp.View() + "\n" + hint
}

// RunLogView opens the scrollable log viewer over content, labelled name.
func RunLogView(content, name string) error {
	p := tea.NewProgram(newLogModel(content, name), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
