package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/crysjs/crysjs/crys"
)

const (
	plainPrompt         = "crys> "
	plainContinuePrompt = "....> "
)

type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// runPlainREPL is the line-based REPL for terminals the full-screen one
// cannot drive, and for piped input.
func runPlainREPL(session *replSession, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetWordCompleter(func(input string, pos int) (string, []string, string) {
		runes := []rune(input)
		head, tail := string(runes[:pos]), string(runes[pos:])
		start := strings.LastIndexAny(head, " \t(,.") + 1
		return head[:start], completeWord(head[start:], session.interp.Root().Names()), tail
	})

	return plainLoop(session, line, out)
}

func plainLoop(session *replSession, r lineReader, out io.Writer) error {
	var pending strings.Builder
	for {
		prompt := plainPrompt
		if pending.Len() > 0 {
			prompt = plainContinuePrompt
		}
		input, err := r.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			pending.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return err
		}

		if pending.Len() == 0 {
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			if strings.HasPrefix(input, ":") {
				r.AppendHistory(input)
				if plainCommand(session, input, out) {
					return nil
				}
				continue
			}
		}

		pending.WriteString(input)
		pending.WriteString("\n")
		source := pending.String()
		if incomplete(source) {
			continue
		}
		pending.Reset()
		r.AppendHistory(strings.TrimSpace(source))

		result, printed, js, isErr := session.evaluate(source)
		if js != "" {
			fmt.Fprintln(out, "js "+js)
		}
		if printed != "" {
			fmt.Fprintln(out, printed)
		}
		if isErr {
			fmt.Fprintln(out, "error: "+result)
		} else {
			fmt.Fprintln(out, "=> "+result)
		}
	}
}

// plainCommand runs a `:` command and reports whether the REPL should exit.
func plainCommand(session *replSession, input string, out io.Writer) bool {
	name := strings.Fields(input)[0]
	switch name {
	case ":help", ":h":
		for _, h := range replHelp {
			fmt.Fprintf(out, "  %-8s  %s\n", h.key, h.desc)
		}
		return false
	case ":vars", ":v":
		vars := session.variables()
		if len(vars) == 0 {
			fmt.Fprintln(out, "No variables defined")
		}
		for _, v := range vars {
			fmt.Fprintln(out, "  "+v)
		}
		return false
	case ":clear", ":c":
		return false
	}

	message, quit, _ := session.command(name)
	if quit {
		return true
	}
	fmt.Fprintln(out, message)
	return false
}

// incomplete reports source that only fails to parse because it stops early,
// such as an open def or an unterminated string.
func incomplete(source string) bool {
	_, err := crys.ParseProgram(source)
	var parseErr *crys.ParseError
	if !errors.As(err, &parseErr) {
		return false
	}
	return strings.HasSuffix(parseErr.Message, "end of input") ||
		strings.HasSuffix(parseErr.Message, "unterminated string")
}
