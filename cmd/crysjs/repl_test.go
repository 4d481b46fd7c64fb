package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crysjs/crysjs/crys"
)

func newTestSession() *replSession {
	return newREPLSession(nil, crys.DefaultRequirePath, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func enter(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := enter(t, newREPLModel(newTestSession()), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.input.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := enter(t, newREPLModel(newTestSession()), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.input.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateUnknownCommandIsAnError(t *testing.T) {
	rm, _ := enter(t, newREPLModel(newTestSession()), ":frob")
	last := rm.transcript[len(rm.transcript)-1]
	if !last.failed || last.output != "Unknown command: :frob" {
		t.Fatalf("unexpected history entry %+v", last)
	}
}

func TestUpdateEvaluatesAndKeepsState(t *testing.T) {
	m := newREPLModel(newTestSession())
	m, _ = enter(t, m, "score = 40")
	m, _ = enter(t, m, `puts "hi"`)
	m, _ = enter(t, m, "score + 2")

	if len(m.transcript) != 3 || len(m.entered) != 3 {
		t.Fatalf("expected three entries, got %d/%d", len(m.transcript), len(m.entered))
	}
	if got := m.transcript[1].output; got != "hi\nnil" {
		t.Fatalf("printed output should precede the result, got %q", got)
	}
	if got := m.transcript[2].output; got != "42" {
		t.Fatalf("unexpected result %q", got)
	}

	score, ok := m.session.interp.Root().Get("score")
	if !ok || score.Kind() != crys.KindInt || score.Int() != 40 {
		t.Fatalf("unexpected score value: %#v", score)
	}
	last, ok := m.session.interp.Root().Get("_")
	if !ok || last.Int() != 42 {
		t.Fatalf("_ should hold the last result, got %#v", last)
	}
}

func TestEvaluateEqualityDoesNotOverwriteVariable(t *testing.T) {
	s := newTestSession()
	s.evaluate("a = 5")

	output, _, _, isErr := s.evaluate("a == 5")
	if isErr || output != "true" {
		t.Fatalf("unexpected eval result: %s", output)
	}
	a, _ := s.interp.Root().Get("a")
	if a.Kind() != crys.KindInt || a.Int() != 5 {
		t.Fatalf("variable a was clobbered by equality expression: %#v", a)
	}
}

func TestJSToggleShowsCompiledCode(t *testing.T) {
	m := newREPLModel(newTestSession())
	m, _ = enter(t, m, ":js")
	m, _ = enter(t, m, "x = 1 + 2")
	m, _ = enter(t, m, "@y = 1")

	entry := m.transcript[1]
	if entry.js != "var x; x = 1 + 2;" {
		t.Fatalf("unexpected js %q", entry.js)
	}
	if entry.output != "3" {
		t.Fatalf("interpreter result should still be shown, got %q", entry.output)
	}
	if js := m.transcript[2].js; !strings.HasPrefix(js, "// instance variable @y does not support") {
		t.Fatalf("compile errors should be shown as a comment, got %q", js)
	}

	m, _ = enter(t, m, ":js")
	m, _ = enter(t, m, "x")
	if js := m.transcript[len(m.transcript)-1].js; js != "" {
		t.Fatalf("js should be off, got %q", js)
	}
}

func TestResetCommandClearsDefinitions(t *testing.T) {
	s := newTestSession()
	s.evaluate("def twice(x)\n  x * 2\nend")
	if vars := s.variables(); len(vars) != 1 || vars[0] != "twice = <function twice>" {
		t.Fatalf("unexpected vars %v", vars)
	}

	msg, quit, handled := s.command(":reset")
	if quit || !handled || msg != "Environment reset" {
		t.Fatalf("unexpected reset result %q %v %v", msg, quit, handled)
	}
	if vars := s.variables(); len(vars) != 0 {
		t.Fatalf("reset should clear vars, got %v", vars)
	}
	if _, _, _, isErr := s.evaluate("twice(2)"); !isErr {
		t.Fatalf("twice should be gone after reset")
	}
}

func TestCompleteWord(t *testing.T) {
	got := completeWord("un", []string{"until_done", "total"})
	want := []string{"unless", "until", "until_done"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestPlainLoop(t *testing.T) {
	reader := &scriptedReader{lines: []string{
		"def twice(x)",
		"  x * 2",
		"end",
		"twice 4",
		`puts "out"`,
		"nope",
		":vars",
		":quit",
		"never reached",
	}}
	var out bytes.Buffer

	if err := plainLoop(newTestSession(), reader, &out); err != nil {
		t.Fatalf("plain loop failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"=> 8\n",
		"out\n=> nil\n",
		"error: undefined name nope",
		"  twice = <function twice>\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in output:\n%s", want, text)
		}
	}
	if strings.Join(reader.prompts[:3], "|") != "crys> |....> |....> " {
		t.Fatalf("multi-line input should use the continuation prompt, got %v", reader.prompts[:3])
	}
	if reader.history[0] != "def twice(x)\n  x * 2\nend" {
		t.Fatalf("unexpected history %q", reader.history[0])
	}
	if len(reader.lines) != 1 {
		t.Fatalf(":quit should stop reading")
	}
}

func TestPlainLoopEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	if err := plainLoop(newTestSession(), &scriptedReader{}, &out); err != nil {
		t.Fatalf("plain loop failed: %v", err)
	}
	if out.String() != "\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHistoryRecall(t *testing.T) {
	m := newREPLModel(newTestSession())
	m, _ = enter(t, m, "a = 1")
	m, _ = enter(t, m, "b = 2")

	press := func(k tea.KeyType) {
		t.Helper()
		model, _ := m.Update(tea.KeyMsg{Type: k})
		m = model.(replModel)
	}

	press(tea.KeyUp)
	if got := m.input.Value(); got != "b = 2" {
		t.Fatalf("first up should recall the latest input, got %q", got)
	}
	press(tea.KeyUp)
	press(tea.KeyUp)
	if got := m.input.Value(); got != "a = 1" {
		t.Fatalf("up should stop at the oldest input, got %q", got)
	}
	press(tea.KeyDown)
	press(tea.KeyDown)
	if got := m.input.Value(); got != "" {
		t.Fatalf("walking past the newest input should clear the line, got %q", got)
	}
}

func TestViewRendersTranscript(t *testing.T) {
	m := newREPLModel(newTestSession())
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = model.(replModel)
	m, _ = enter(t, m, "1 + 1")
	m, _ = enter(t, m, ":vars")

	view := m.View()
	for _, want := range []string{"→ 2", "nothing bound yet", "ctrl+o"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view is missing %q:\n%s", want, view)
		}
	}
}
