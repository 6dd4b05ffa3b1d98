package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Markdown renders markdown content for terminal display using a pooled renderer.
// Message text is passed through PlainText first so that escape sequences in
// the answer cannot reach the terminal.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	out, err := renderer.Render(PlainText(content))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// PlainText returns s with terminal escape sequences and control characters
// removed. Newlines and tabs are kept.
func PlainText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Message renders a message body either as markdown or as plain text.
// Markdown failures fall back to plain text.
func Message(content string, markdown bool, opts Options) string {
	if !markdown {
		return PlainText(content)
	}
	out, err := Markdown(content, opts)
	if err != nil {
		return PlainText(content)
	}
	return out
}
