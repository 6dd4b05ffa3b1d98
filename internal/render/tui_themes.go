package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat interface
type TUITheme struct {
	Name        string
	Description string

	Border    lipgloss.Color
	Primary   lipgloss.Color // bot messages
	Secondary lipgloss.Color // user messages
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// DefaultTUITheme is used when the configured theme is unknown
const DefaultTUITheme = "tokyonight"

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Border:      lipgloss.Color("#414868"),
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Border:      lipgloss.Color("#45475a"),
		Primary:     lipgloss.Color("#89b4fa"),
		Secondary:   lipgloss.Color("#a6e3a1"),
		Accent:      lipgloss.Color("#cba6f7"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
		TextMute:    lipgloss.Color("#45475a"),
	},
	"nord": {
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",
		Border:      lipgloss.Color("#4c566a"),
		Primary:     lipgloss.Color("#88c0d0"),
		Secondary:   lipgloss.Color("#a3be8c"),
		Accent:      lipgloss.Color("#b48ead"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
		TextMute:    lipgloss.Color("#4c566a"),
	},
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// ResolveTUITheme returns the named theme or the default one
func ResolveTUITheme(name string) TUITheme {
	if theme, ok := tuiThemes[name]; ok {
		return theme
	}
	return tuiThemes[DefaultTUITheme]
}

// TUIThemeNames returns the theme names in sorted order
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
