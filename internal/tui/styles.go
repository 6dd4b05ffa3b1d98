// Package tui provides the terminal chat interface for askchat.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/askchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
	colorTextMute  lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style

	userBubbleStyle lipgloss.Style
	userLabelStyle  lipgloss.Style
	botBubbleStyle  lipgloss.Style
	botLabelStyle   lipgloss.Style
	failBubbleStyle lipgloss.Style
	contextStyle    lipgloss.Style

	dotOnStyle  lipgloss.Style
	dotOffStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	welcomeTitleStyle lipgloss.Style
	welcomeStyle      lipgloss.Style
)

func init() {
	applyTheme(render.ResolveTUITheme(render.DefaultTUITheme))
}

// applyTheme refreshes all styles from the given theme
func applyTheme(theme render.TUITheme) {
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// User bubbles sit to the right, bot bubbles to the left
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	botBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	failBubbleStyle = botBubbleStyle.
		BorderForeground(colorError).
		Foreground(colorError)

	contextStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorTextDim).
		BorderLeft(true).
		Foreground(colorTextDim).
		PaddingLeft(1).
		MarginLeft(1).
		Italic(true)

	dotOnStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dotOffStyle = lipgloss.NewStyle().Foreground(colorTextMute)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)
}
