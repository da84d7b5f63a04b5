package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vcampelo/zaporder/internal/config"
)

// ErrSetupCanceled reports that the operator left the wizard without saving.
var ErrSetupCanceled = errors.New("setup canceled")

// setupModel is the standalone settings wizard used by first runs and the
// setup command. It reuses the panel's settings form.
type setupModel struct {
	form     settingsForm
	saved    bool
	canceled bool
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "ctrl+c":
		m.canceled = true
		return m, tea.Quit
	case "ctrl+s", "enter":
		if key.String() == "enter" && m.form.focus == 1 {
			break // enter inserts a newline inside the message body
		}
		m.saved = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(key)
	return m, cmd
}

func (m setupModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("zaporder — configuração"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab campos · espaço alterna · enter/ctrl+s salvar · esc cancelar"))
	return b.String()
}

// RunSetup walks the operator through the settings form, starting from
// existing values. The edited settings are returned; the caller persists
// them. Returns ErrSetupCanceled when the operator bails out.
func RunSetup(existing config.Settings) (config.Settings, error) {
	m := setupModel{form: newSettingsForm(existing)}
	m.form.focusFirst()

	p := tea.NewProgram(m)
	out, err := p.Run()
	if err != nil {
		return existing, err
	}
	final := out.(setupModel)
	if !final.saved {
		return existing, ErrSetupCanceled
	}
	return final.form.settings(), nil
}
