package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/render"
	"github.com/diogo/askchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat window against the question-answering server.

Each question is sent on its own; the server keeps no conversation state.
Press Esc to cancel a pending question, Esc or Ctrl+C to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info().Str("endpoint", a.cfg.AskURL()).Msg("chat session started")
	defer a.logger.Info().Msg("chat session ended")

	return deps.TUI.RunChat(a.client, tui.Options{
		ServerURL:   a.cfg.AskURL(),
		Markdown:    a.cfg.Markdown.Enabled,
		RenderOpts:  render.FromConfig(a.cfg.Markdown, 80),
		ShowContext: a.cfg.ShowContext,
		Theme:       a.cfg.TUITheme,
		Logger:      a.logger,
	})
}
