package render

import (
	"strings"
	"testing"

	"github.com/diogo/askchat/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestFromConfig(t *testing.T) {
	md := config.MarkdownConfig{Style: "", EnableEmoji: false}
	opts := FromConfig(md, 60)

	if opts.Width != 60 {
		t.Errorf("Width = %d, want 60", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("empty style should fall back to dark, got %q", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}
}

func TestOptionsBuilders(t *testing.T) {
	opts := DefaultOptions().WithWidth(100).WithStyle("light")
	if opts.Width != 100 || opts.Style != "light" {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Hello", "Hello"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
		{"strips color codes", "\x1b[31mred\x1b[0m", "red"},
		{"strips OSC title", "\x1b]0;pwned\x07text", "text"},
		{"strips bell and backspace", "a\x07b\x08c", "abc"},
		{"markup is literal", "<b>bold</b>", "<b>bold</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Title\n\nSome **bold** text", DefaultOptions().WithStyle("notty"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("rendered output missing content: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newlines should be trimmed")
	}
}

func TestMessage(t *testing.T) {
	if got := Message("**4**", false, DefaultOptions()); got != "**4**" {
		t.Errorf("plain message = %q, want literal text", got)
	}

	got := Message("**4**", true, DefaultOptions().WithStyle("notty"))
	if !strings.Contains(got, "4") {
		t.Errorf("markdown message = %q", got)
	}
}

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	if len(names) != 3 {
		t.Fatalf("expected 3 themes, got %v", names)
	}
	if names[0] != "catppuccin" {
		t.Errorf("names should be sorted, got %v", names)
	}

	if _, ok := GetTUIThemeByName("nord"); !ok {
		t.Error("nord theme missing")
	}
	if _, ok := GetTUIThemeByName("nope"); ok {
		t.Error("unknown theme reported as found")
	}
	if ResolveTUITheme("nope").Name != DefaultTUITheme {
		t.Error("unknown theme should resolve to the default")
	}
}
