package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crysjs/crysjs/crys"
)

var scriptExtensions = map[string]bool{".rb": true, ".crys": true}

func fmtCommand(opts *options) error {
	if len(opts.paths) == 0 {
		return errors.New("crysjs fmt: path required")
	}

	files, err := collectScripts(opts.paths)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatSource(original)
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case opts.write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case opts.check && changed:
			fmt.Println(path)
		case !opts.write && !opts.check:
			fmt.Print(formatted)
		}
	}

	if opts.check && changedCount > 0 {
		return fmt.Errorf("crysjs fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectScripts(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if !scriptExtensions[filepath.Ext(path)] {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatSource normalizes line endings, expands leading tabs to two spaces,
// strips trailing whitespace, collapses runs of blank lines and ends the
// file with a single newline. Sources that do not parse are refused with the
// parse error.
func formatSource(source string) (string, error) {
	if _, err := crys.ParseProgram(source); err != nil {
		return "", err
	}

	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(expandIndent(line), " \t")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	joined := strings.TrimRight(strings.Join(out, "\n"), "\n")
	if joined == "" {
		return "", nil
	}
	return joined + "\n", nil
}

func expandIndent(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if !strings.Contains(indent, "\t") {
		return line
	}
	return strings.ReplaceAll(indent, "\t", "  ") + trimmed
}
