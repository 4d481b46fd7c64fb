package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/crysjs/crysjs/crys"
)

var replKeywords = []string{
	"def", "class", "module", "end", "if", "unless", "elsif", "else", "then",
	"while", "until", "do", "self", "true", "false", "nil", "and", "or", "not",
}

var replHelp = []struct {
	key  string
	desc string
}{
	{"↑/↓", "Walk through earlier inputs"},
	{"Tab", "Complete keywords and names"},
	{"Enter", "Evaluate the input"},
	{":help", "Show or hide this panel"},
	{":vars", "Show or hide bound names"},
	{":js", "Show compiled JavaScript for each input"},
	{":clear", "Clear the transcript"},
	{":reset", "Forget every definition"},
	{":quit", "Leave the REPL"},
}

// replSession is the evaluation state shared by both REPL front ends.
type replSession struct {
	interp   *crys.Interpreter
	compiler *crys.Compiler
	out      *bytes.Buffer
	showJS   bool
}

func newREPLSession(project *crys.Project, requirePath string, logger *slog.Logger) *replSession {
	lib := project.Library(crys.DefaultLibrary())
	out := &bytes.Buffer{}
	return &replSession{
		interp: crys.NewInterpreter(crys.Config{
			Library: lib,
			Out:     out,
			Logger:  logger,
		}),
		compiler: crys.NewCompiler(crys.CompileOptions{
			RequirePath: requirePath,
			Library:     lib,
			Logger:      logger,
		}),
		out: out,
	}
}

// evaluate runs input in the persistent root context. printed is whatever
// the input wrote through puts and friends; js is the compiled form when
// the :js toggle is on.
func (s *replSession) evaluate(input string) (result, printed, js string, isErr bool) {
	defer s.out.Reset()

	if s.showJS {
		if code, err := s.compiler.Compile(input); err == nil {
			js = code
		} else {
			js = "// " + err.Error()
		}
	}

	val, err := s.interp.Run(context.Background(), input)
	printed = strings.TrimSuffix(s.out.String(), "\n")
	if err != nil {
		return err.Error(), printed, js, true
	}
	s.interp.Root().SetLocal("_", val)
	return val.Inspect(), printed, js, false
}

// variables lists script-defined bindings of the root context, leaving out
// library functions, the Object class and the last result.
func (s *replSession) variables() []string {
	var lines []string
	root := s.interp.Root()
	for _, name := range root.Names() {
		val, _ := root.Get(name)
		if val.Kind() == crys.KindBuiltin || name == "Object" || name == "_" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", name, val.Inspect()))
	}
	return lines
}

func (s *replSession) reset() {
	s.interp.Reset()
	s.out.Reset()
}

// command handles the `:` commands both front ends share. It reports the
// message to show, whether to quit, and false for unknown commands.
func (s *replSession) command(name string) (message string, quit, handled bool) {
	switch name {
	case ":js", ":j":
		s.showJS = !s.showJS
		if s.showJS {
			return "JavaScript output on", false, true
		}
		return "JavaScript output off", false, true
	case ":reset", ":r":
		s.reset()
		return "Environment reset", false, true
	case ":quit", ":q":
		return "", true, true
	}
	return fmt.Sprintf("Unknown command: %s", name), false, false
}

// completeWord matches prefix against keywords and bound names, sorted and
// without duplicates.
func completeWord(prefix string, names []string) []string {
	seen := make(map[string]bool)
	var completions []string
	for _, candidates := range [][]string{replKeywords, names} {
		for _, c := range candidates {
			if strings.HasPrefix(c, prefix) && !seen[c] {
				seen[c] = true
				completions = append(completions, c)
			}
		}
	}
	sort.Strings(completions)
	return completions
}

func replCommand(opts *options, logger *slog.Logger) error {
	project, err := loadProject(opts.config, "")
	if err != nil {
		return err
	}
	session := newREPLSession(project, resolveRequirePath(opts.requirePath, project), logger)
	if err := runPrelude(context.Background(), session.interp, project, logger); err != nil {
		return err
	}
	session.out.Reset()

	if opts.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlainREPL(session, os.Stdout)
	}
	_, err = tea.NewProgram(newREPLModel(session), tea.WithAltScreen()).Run()
	return err
}
