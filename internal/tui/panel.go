// Package tui provides the Bubble Tea control panel: an ON/OFF status
// indicator for the automation, a settings form, and a live notice feed.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/runner"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusOffStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 4)

	statusOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("84")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 4)

	statusErrStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 4)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	focusedFieldStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))
)

// maxNotices caps the notice feed shown on the panel.
const maxNotices = 6

// Control is what the panel drives. Start spawns a run with the settings
// currently on disk; Stop tears it down. Both may block and are therefore
// only called from command goroutines, never from Update.
type Control interface {
	Start() error
	Stop()
	Running() bool
}

// ── Messages ────────────

// EventMsg wraps a runner status event for the Bubble Tea loop.
type EventMsg runner.Event

// SettingsChangedMsg signals that settings.json changed on disk while the
// panel is open.
type SettingsChangedMsg struct{}

type toggleDoneMsg struct{ err error }

type tabID int

const (
	tabPanel tabID = iota
	tabSettings
)

// Model is the root control panel model.
type Model struct {
	ctl          Control
	events       <-chan runner.Event
	watch        <-chan struct{}
	settingsPath string

	status    runner.Status
	busy      bool // a toggle is in flight
	notices   []string
	pending   bool // settings edited; restart required
	activeTab tabID
	form      settingsForm
	width     int
	height    int
}

// New builds the panel. events carries runner status transitions; watch
// fires when settings.json changes on disk (either may be nil).
func New(ctl Control, settings config.Settings, settingsPath string, events <-chan runner.Event, watch <-chan struct{}) Model {
	return Model{
		ctl:          ctl,
		events:       events,
		watch:        watch,
		settingsPath: settingsPath,
		status:       runner.StatusOff,
		form:         newSettingsForm(settings),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenEvents(m.events), listenWatch(m.watch), textinput.Blink)
}

func listenEvents(ch <-chan runner.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg(ev)
	}
}

func listenWatch(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SettingsChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case EventMsg:
		m.status = msg.Status
		if msg.Message != "" {
			m.pushNotice(msg.Message)
		}
		return m, listenEvents(m.events)

	case SettingsChangedMsg:
		m.pending = true
		m.pushNotice("settings.json alterado - clique OFF e depois ON para aplicar")
		return m, listenWatch(m.watch)

	case toggleDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.pushNotice(msg.err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		if m.activeTab == tabSettings {
			return m.updateSettings(msg)
		}
		return m.updatePanel(msg)
	}
	return m, nil
}

func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.ctl.Running() {
			m.ctl.Stop()
		}
		return m, tea.Quit
	case "enter", " ":
		if m.busy {
			return m, nil
		}
		m.busy = true
		ctl := m.ctl
		if ctl.Running() {
			return m, func() tea.Msg {
				ctl.Stop()
				return toggleDoneMsg{}
			}
		}
		m.pending = false
		return m, func() tea.Msg {
			return toggleDoneMsg{err: ctl.Start()}
		}
	case "s", "tab":
		m.activeTab = tabSettings
		m.form.focusFirst()
		return m, nil
	}
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.activeTab = tabPanel
		m.form.blur()
		return m, nil
	case "ctrl+c":
		if m.ctl.Running() {
			m.ctl.Stop()
		}
		return m, tea.Quit
	case "ctrl+s":
		if err := config.Save(m.settingsPath, m.form.settings()); err != nil {
			m.pushNotice("erro salvando configurações: " + err.Error())
		} else {
			m.pending = true
			m.pushNotice("configurações salvas - clique OFF e depois ON para aplicar")
		}
		m.activeTab = tabPanel
		m.form.blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m *Model) pushNotice(s string) {
	m.notices = append(m.notices, s)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("zaporder — confirmação automática de pedidos"))
	b.WriteString("\n\n")

	if m.activeTab == tabSettings {
		b.WriteString(m.form.view())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("tab/shift+tab campos · espaço alterna · ctrl+s salvar · esc voltar"))
		return b.String()
	}

	b.WriteString("  " + m.statusBadge())
	b.WriteString("\n\n")

	if m.pending {
		b.WriteString("  " + warnStyle.Render("configurações pendentes: reinicie a automação"))
		b.WriteString("\n\n")
	}

	if len(m.notices) > 0 {
		b.WriteString(labelStyle.Render("  Avisos"))
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString(noticeStyle.Render("  · " + n))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("  enter/espaço liga-desliga · s configurações · q sair"))
	return b.String()
}

func (m Model) statusBadge() string {
	label := m.status.String()
	if m.busy {
		label = "..."
	}
	switch m.status {
	case runner.StatusOn:
		return statusOnStyle.Render(label)
	case runner.StatusError:
		return statusErrStyle.Render(label)
	case runner.StatusStarting:
		return statusOnStyle.Render(label)
	default:
		return statusOffStyle.Render(label)
	}
}

// ── Settings form ────────────

type settingsForm struct {
	title    textinput.Model
	body     textarea.Model
	waitTime textinput.Model

	forceVisible  bool
	logOn         bool
	checkMessages bool

	focus int // 0 title, 1 body, 2 wait, 3..5 checkboxes
}

const formFields = 6

func newSettingsForm(s config.Settings) settingsForm {
	title := textinput.New()
	title.Placeholder = "título da mensagem"
	title.SetValue(s.MsgTitle)
	title.CharLimit = 120

	body := textarea.New()
	body.Placeholder = "mensagem automática, uma linha por mensagem"
	body.SetValue(s.AutomaticMsg)
	body.SetHeight(5)

	wait := textinput.New()
	wait.Placeholder = "10"
	wait.SetValue(s.WaitTime)
	wait.CharLimit = 4

	return settingsForm{
		title:         title,
		body:          body,
		waitTime:      wait,
		forceVisible:  s.ForceVisible,
		logOn:         s.LogOn,
		checkMessages: s.CheckMessages,
	}
}

func (f *settingsForm) focusFirst() {
	f.focus = 0
	f.applyFocus()
}

func (f *settingsForm) blur() {
	f.title.Blur()
	f.body.Blur()
	f.waitTime.Blur()
}

func (f *settingsForm) applyFocus() {
	f.blur()
	switch f.focus {
	case 0:
		f.title.Focus()
	case 1:
		f.body.Focus()
	case 2:
		f.waitTime.Focus()
	}
}

func (f settingsForm) update(msg tea.KeyMsg) (settingsForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		if f.focus == 1 && msg.String() == "down" {
			break // let the textarea consume vertical movement
		}
		f.focus = (f.focus + 1) % formFields
		f.applyFocus()
		return f, nil
	case "shift+tab", "up":
		if f.focus == 1 && msg.String() == "up" {
			break
		}
		f.focus = (f.focus - 1 + formFields) % formFields
		f.applyFocus()
		return f, nil
	case " ":
		switch f.focus {
		case 3:
			f.forceVisible = !f.forceVisible
			return f, nil
		case 4:
			f.logOn = !f.logOn
			return f, nil
		case 5:
			f.checkMessages = !f.checkMessages
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.title, cmd = f.title.Update(msg)
	case 1:
		f.body, cmd = f.body.Update(msg)
	case 2:
		f.waitTime, cmd = f.waitTime.Update(msg)
	}
	return f, cmd
}

func (f settingsForm) settings() config.Settings {
	s := config.Settings{
		MsgTitle:      f.title.Value(),
		AutomaticMsg:  f.body.Value(),
		WaitTime:      strings.TrimSpace(f.waitTime.Value()),
		ForceVisible:  f.forceVisible,
		LogOn:         f.logOn,
		CheckMessages: f.checkMessages,
	}
	if s.WaitTime == "" {
		s.WaitTime = config.Defaults().WaitTime
	}
	return s
}

func (f settingsForm) view() string {
	var b strings.Builder
	field := func(i int, label, body string) {
		style := dimStyle
		marker := "  "
		if f.focus == i {
			style = focusedFieldStyle
			marker = "> "
		}
		b.WriteString(style.Render(marker+label) + "\n" + body + "\n\n")
	}

	field(0, "Título (msg_title)", f.title.View())
	field(1, "Mensagem automática", f.body.View())
	field(2, "Espera antes de enviar, segundos (wait_time)", f.waitTime.View())

	check := func(i int, label string, on bool) {
		mark := "[ ]"
		if on {
			mark = "[x]"
		}
		style := dimStyle
		if f.focus == i {
			style = focusedFieldStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s %s", mark, label)) + "\n")
	}
	check(3, "navegador visível (force_visible)", f.forceVisible)
	check(4, "gravar log (log_on)", f.logOn)
	check(5, "checar mensagens já enviadas (check_messages)", f.checkMessages)

	return b.String()
}
