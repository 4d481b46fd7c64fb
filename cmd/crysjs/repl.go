package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type replTheme struct {
	accent lipgloss.Style
	header lipgloss.Style
	result lipgloss.Style
	failed lipgloss.Style
	muted  lipgloss.Style
	js     lipgloss.Style
	hotkey lipgloss.Style
	panel  lipgloss.Style
}

func newReplTheme() replTheme {
	ruby := lipgloss.Color("#CC342D")
	yellow := lipgloss.Color("#F7DF1E")
	grey := lipgloss.Color("#6B7280")
	style := lipgloss.NewStyle
	return replTheme{
		accent: style().Foreground(ruby).Bold(true),
		header: style().Foreground(ruby).Bold(true).Padding(0, 1),
		result: style().Foreground(lipgloss.Color("#10B981")),
		failed: style().Foreground(lipgloss.Color("#EF4444")),
		muted:  style().Foreground(grey),
		js:     style().Foreground(yellow),
		hotkey: style().Foreground(yellow),
		panel:  style().Border(lipgloss.RoundedBorder()).BorderForeground(ruby).Padding(0, 1),
	}
}

var theme = newReplTheme()

type transcriptEntry struct {
	input  string
	output string
	js     string
	failed bool
}

type replBindings struct {
	quit, clear, vars, help, js, older, newer, complete, submit key.Binding
}

var bindings = replBindings{
	quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	js:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "js")),
	older:    key.NewBinding(key.WithKeys("up")),
	newer:    key.NewBinding(key.WithKeys("down")),
	complete: key.NewBinding(key.WithKeys("tab")),
	submit:   key.NewBinding(key.WithKeys("enter")),
}

// replModel is the full-screen REPL. Inputs are recalled from entered,
// where cursor == len(entered) means a fresh line.
type replModel struct {
	input      textinput.Model
	session    *replSession
	transcript []transcriptEntry
	entered    []string
	cursor     int
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	ready      bool
}

func newREPLModel(session *replSession) replModel {
	in := textinput.New()
	in.Prompt = "crys> "
	in.PromptStyle = theme.accent
	in.Placeholder = "expression, def, class or :help"
	in.CharLimit = 1000
	in.Width = 72
	in.Focus()
	return replModel{input: in, session: session}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		if next, cmd, done := m.handleKey(msg); done {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey reports done=false for keys the text input should see.
func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, bindings.quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, bindings.clear):
		m.transcript = nil
	case key.Matches(msg, bindings.vars):
		m.showVars = !m.showVars
	case key.Matches(msg, bindings.help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, bindings.js):
		m.session.showJS = !m.session.showJS
	case key.Matches(msg, bindings.older):
		m.recall(-1)
	case key.Matches(msg, bindings.newer):
		m.recall(1)
	case key.Matches(msg, bindings.complete):
		m.complete()
	case key.Matches(msg, bindings.submit):
		return m.submit()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *replModel) recall(step int) {
	if len(m.entered) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+step, 0), len(m.entered))
	if m.cursor == len(m.entered) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.entered[m.cursor])
	}
	m.input.CursorEnd()
}

func (m replModel) submit() (replModel, tea.Cmd, bool) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil, true
	}
	m.input.SetValue("")

	if strings.HasPrefix(line, ":") {
		var cmd tea.Cmd
		m, cmd = m.runCommand(line)
		m.cursor = len(m.entered)
		return m, cmd, true
	}

	result, printed, js, failed := m.session.evaluate(line)
	if printed != "" {
		result = printed + "\n" + result
	}
	m.transcript = append(m.transcript, transcriptEntry{input: line, output: result, js: js, failed: failed})
	m.entered = append(m.entered, line)
	m.cursor = len(m.entered)
	return m, nil, true
}

func (m replModel) runCommand(line string) (replModel, tea.Cmd) {
	name := strings.Fields(line)[0]
	switch name {
	case ":help", ":h":
		m.showHelp = !m.showHelp
		return m, nil
	case ":clear", ":c":
		m.transcript = nil
		return m, nil
	case ":vars", ":v":
		m.showVars = !m.showVars
		return m, nil
	}

	message, quit, handled := m.session.command(name)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	m.transcript = append(m.transcript, transcriptEntry{input: line, output: message, failed: !handled})
	return m, nil
}

func (m *replModel) complete() {
	value := m.input.Value()
	words := strings.Fields(value)
	if len(words) == 0 || strings.HasSuffix(value, " ") {
		return
	}
	word := words[len(words)-1]
	matches := completeWord(word, m.session.interp.Root().Names())
	switch len(matches) {
	case 0:
	case 1:
		m.input.SetValue(strings.TrimSuffix(value, word) + matches[0])
		m.input.CursorEnd()
	default:
		m.transcript = append(m.transcript, transcriptEntry{output: strings.Join(matches, "  ")})
	}
}

func (m replModel) View() string {
	switch {
	case m.quitting:
		return theme.muted.Render("bye\n")
	case !m.ready:
		return "starting..."
	}

	var b strings.Builder
	title := theme.header.Render("crys") + theme.muted.Render(version)
	if m.session.showJS {
		title += " " + theme.js.Render("[js]")
	}
	b.WriteString(title + "\n")
	b.WriteString(theme.muted.Render(strings.Repeat("─", max(min(m.width-2, 72), 0))) + "\n\n")

	var panels []string
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.session.variables()))
	}
	if m.showHelp {
		panels = append(panels, renderHelpPanel())
	}
	used := 7
	for _, p := range panels {
		used += lipgloss.Height(p) + 1
	}

	// Each entry takes its output lines plus the input and a spacer.
	room := m.height - used
	start := len(m.transcript)
	for start > 0 {
		cost := entryHeight(m.transcript[start-1])
		if cost > room {
			break
		}
		room -= cost
		start--
	}
	for _, entry := range m.transcript[start:] {
		b.WriteString(renderEntry(entry))
	}

	for _, p := range panels {
		b.WriteString(p + "\n")
	}
	b.WriteString(m.input.View() + "\n\n")

	hints := []key.Binding{bindings.help, bindings.vars, bindings.js, bindings.clear, bindings.quit}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.hotkey.Render(h.Help().Key) + " " + theme.muted.Render(h.Help().Desc)
	}
	b.WriteString(strings.Join(parts, "  "))
	return b.String()
}

func entryHeight(e transcriptEntry) int {
	h := strings.Count(e.output, "\n") + 2
	if e.input != "" {
		h++
	}
	if e.js != "" {
		h++
	}
	return h
}

func renderEntry(e transcriptEntry) string {
	var b strings.Builder
	if e.input != "" {
		b.WriteString(theme.muted.Render("  › ") + e.input + "\n")
	}
	if e.js != "" {
		b.WriteString("  " + theme.js.Render("js "+e.js) + "\n")
	}
	if e.failed {
		b.WriteString("  " + theme.failed.Render("✗ "+e.output) + "\n\n")
	} else {
		b.WriteString("  " + theme.result.Render("→ "+e.output) + "\n\n")
	}
	return b.String()
}

func renderVarsPanel(vars []string) string {
	if len(vars) == 0 {
		return theme.panel.Render(theme.muted.Render("nothing bound yet"))
	}
	lines := append([]string{theme.accent.Render("Bindings")}, vars...)
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	lines := []string{theme.accent.Render("Help")}
	for _, h := range replHelp {
		lines = append(lines, fmt.Sprintf("%s %s", theme.hotkey.Render(fmt.Sprintf("%-7s", h.key)), theme.muted.Render(h.desc)))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}
