// Package commands provides CLI commands for askchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
)

var (
	// Global flags
	serverFlag      string
	timeoutFlag     int
	markdownFlag    bool
	showContextFlag bool
	logFileFlag     string
	verboseFlag     bool

	// One-shot flags
	outputFlag string
	fileFlag   string
	rawFlag    bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"

	deps = NewDependencies()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "askchat [question]",
	Short: "Terminal chat client for a question-answering server",
	Long: `askchat sends questions to a question-answering server (POST /ask)
and shows the answers, either once from the command line or in an
interactive chat window.

Examples:
  askchat chat                          Start interactive chat
  askchat "What is RAG?"                Ask a single question
  askchat -f question.md                Read the question from a file
  cat question.md | askchat             Read the question from stdin
  askchat "Hello" -o answer.md          Save the answer to a file
  askchat -s http://host:5001 chat      Use another server`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "askchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(cmd, string(data))
		}

		if stdinHasData() {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(cmd, string(data))
		}

		if len(args) > 0 {
			return runQuery(cmd, args[0])
		}

		return cmd.Help()
	},
}

// stdinHasData reports whether stdin is a pipe or file rather than a terminal
var stdinHasData = func() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Server base URL (default from config, "+config.DefaultConfig().ServerURL+")")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Request timeout in seconds (0 waits indefinitely)")
	rootCmd.PersistentFlags().BoolVar(&markdownFlag, "markdown", false, "Render answers as markdown")
	rootCmd.PersistentFlags().BoolVar(&showContextFlag, "show-context", false, "Show the retrieved context under answers")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write diagnostics to this file")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Verbose output and debug logging")

	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the answer text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings loads the configuration and applies explicitly set flags on top
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = serverFlag
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeoutFlag
	}
	if flags.Changed("markdown") {
		cfg.Markdown.Enabled = markdownFlag
	}
	if flags.Changed("show-context") {
		cfg.ShowContext = showContextFlag
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFileFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// timeout converts the configured seconds into a duration
func timeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}
