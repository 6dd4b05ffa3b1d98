package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/askchat/internal/config"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	contextStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorTextDim).
			BorderLeft(true).
			Foreground(colorTextDim).
			PaddingLeft(1).
			MarginLeft(1).
			Italic(true)
)

var (
	writeClipboard = clipboard.WriteAll

	// stdoutIsTTY decides between decorated and raw output
	stdoutIsTTY = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// runQuery sends one question and prints the answer. Output is decorated on
// a terminal and raw (answer text only) when piped or with --raw.
func runQuery(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	raw := rawFlag || !stdoutIsTTY()

	if a.cfg.Verbose && !raw {
		fmt.Fprintf(errOut, "[verbose] Endpoint: %s\n", a.cfg.AskURL())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var spin *spinner
	if !raw {
		spin = newSpinner(errOut, "Waiting for an answer")
		spin.start()
	}

	startTime := time.Now()
	answer, err := a.client.Ask(ctx, question)
	elapsed := time.Since(startTime)

	if err != nil {
		a.logger.Error().Err(err).Str("question", question).Dur("elapsed", elapsed).Msg("ask failed")
		if raw {
			fmt.Fprintln(errOut, apierrors.UserMessage(err))
		} else {
			spin.stopWithError()
			fmt.Fprintln(errOut, formatErrorMessage(err, apierrors.UserMessage(err)))
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	a.logger.Info().Int("status", answer.StatusCode).Dur("elapsed", elapsed).Msg("answer received")

	if raw {
		return writeRaw(out, answer.Text)
	}

	spin.stopWithSuccess("Answered")
	if a.cfg.Verbose {
		fmt.Fprintf(errOut, "[verbose] Request took %s (HTTP %d)\n", elapsed.Round(time.Millisecond), answer.StatusCode)
	}
	fmt.Fprintln(errOut)

	if a.cfg.CopyToClipboard {
		if err := writeClipboard(answer.Text); err != nil {
			a.logger.Warn().Err(err).Msg("clipboard write failed")
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(answer.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Answer saved to %s", outputFlag),
		))
		return nil
	}

	fmt.Fprintln(out, renderAnswer(answer, a.cfg, getTerminalWidth()))
	return nil
}

// writeRaw prints the answer text only, or saves it with -o
func writeRaw(out io.Writer, text string) error {
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Fprintln(out, render.PlainText(text))
	return nil
}

// renderAnswer draws the answer as a bot bubble like the chat window does
func renderAnswer(answer *models.Answer, cfg config.Config, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	var sb strings.Builder
	sb.WriteString(botLabelStyle.Render("✦ Bot"))
	sb.WriteString("\n")

	body := render.Message(answer.Text, cfg.Markdown.Enabled, render.FromConfig(cfg.Markdown, contentWidth))
	sb.WriteString(botBubbleStyle.Width(bubbleWidth).Render(body))

	if cfg.ShowContext && answer.HasContext() {
		sb.WriteString("\n")
		sb.WriteString(contextStyle.Width(contentWidth).Render("📚 " + truncate(render.PlainText(answer.Context), 600)))
	}
	return sb.String()
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render("✗ " + context))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Cause: %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if msg := apierrors.GetServerMessage(err); msg != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Server said: %s", msg)))
	}

	switch {
	case apierrors.IsMalformedResponse(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The server answered without an \"answer\" field. Check its logs"))
	case apierrors.IsDeliveryError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the server is running and --server points at it"))
	}

	return sb.String()
}

// truncate shortens s to max runes, appending "..." when cut
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
