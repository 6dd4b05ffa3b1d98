package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
)

// newLogger opens the diagnostics log file. The terminal belongs to the
// chat window and the one-shot output, so logs never go to stdout/stderr.
func newLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Str("version", Version).Logger()
	return logger, f, nil
}

// app bundles what every command needs for one run
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	client  AskCloser
	logFile io.Closer
}

// setup loads settings, opens the log and builds the ask client
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		// Diagnostics are best effort; the command still runs
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().
		Str("command", cmd.Name()).
		Str("endpoint", cfg.AskURL()).
		Int("timeout_seconds", cfg.TimeoutSeconds).
		Msg("starting")

	return &app{cfg: cfg, logger: logger, client: client, logFile: logFile}, nil
}

// Close releases the client and the log file
func (a *app) Close() {
	a.client.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
}
