package commands

import (
	"github.com/rs/zerolog"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/tui"
)

// AskCloser is an ask client that owns releasable connections
type AskCloser interface {
	api.Asker
	Close()
}

// ChatRunner starts the interactive chat window.
type ChatRunner interface {
	RunChat(client api.Asker, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the ask client from the effective configuration.
	NewClient func(cfg config.Config, logger zerolog.Logger) (AskCloser, error)

	// TUI is the terminal user interface.
	TUI ChatRunner
}

// DefaultTUI is the production implementation of ChatRunner.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.Asker, opts tui.Options) error {
	return tui.RunChat(client, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newAskClient,
		TUI:       &DefaultTUI{},
	}
}

func newAskClient(cfg config.Config, logger zerolog.Logger) (AskCloser, error) {
	return api.NewClient(
		api.WithBaseURL(cfg.ServerURL),
		api.WithAskPath(cfg.AskPath),
		api.WithTimeout(timeout(cfg)),
		api.WithLogger(logger),
	)
}
