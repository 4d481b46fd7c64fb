package crys

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the source line at pos with a caret under the
// column. Tabs before the column are kept in the caret padding so the caret
// lines up in a terminal.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := splitSourceLines(source)
	if pos.Line > len(lines) {
		return ""
	}

	lineRunes := []rune(lines[pos.Line-1])
	column := min(max(pos.Column, 1), len(lineRunes)+1)

	var caretPad strings.Builder
	for _, r := range lineRunes[:column-1] {
		if r == '\t' {
			caretPad.WriteRune('\t')
		} else {
			caretPad.WriteRune(' ')
		}
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		string(lineRunes),
		gutterPad,
		caretPad.String(),
	)
}

// splitSourceLines splits on the same line breaks the lexer counts: \n, \r
// and \r\n.
func splitSourceLines(source string) []string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
