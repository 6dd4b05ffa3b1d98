package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/tui"
)

var askchatEnvVars = []string{
	"ASKCHAT_SERVER_URL",
	"ASKCHAT_ASK_PATH",
	"ASKCHAT_TIMEOUT_SECONDS",
	"ASKCHAT_VERBOSE",
	"ASKCHAT_COPY_TO_CLIPBOARD",
	"ASKCHAT_SHOW_CONTEXT",
	"ASKCHAT_TUI_THEME",
	"ASKCHAT_LOG_FILE",
	"ASKCHAT_MARKDOWN",
	"ASKCHAT_MARKDOWN_STYLE",
}

// fakeClient wraps the mock ask client with a recorded Close
type fakeClient struct {
	*api.MockAskClient
	closed bool
}

func (f *fakeClient) Close() {
	f.closed = true
}

type fakeTUI struct {
	calls  int
	client api.Asker
	opts   tui.Options
	err    error
}

func (f *fakeTUI) RunChat(client api.Asker, opts tui.Options) error {
	f.calls++
	f.client = client
	f.opts = opts
	return f.err
}

// testEnv is an isolated command environment
type testEnv struct {
	home   string
	client *fakeClient
	tui    *fakeTUI
	cfg    config.Config
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestEnv isolates config, flags and dependencies for one test
func newTestEnv(t *testing.T, mock *api.MockAskClient) *testEnv {
	t.Helper()

	env := &testEnv{
		home:   t.TempDir(),
		client: &fakeClient{MockAskClient: mock},
		tui:    &fakeTUI{},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}

	t.Setenv(config.HomeEnvVar, env.home)
	for _, k := range askchatEnvVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	oldDotEnv := config.DotEnvPath
	config.DotEnvPath = ""
	oldDeps := deps
	deps = &Dependencies{
		NewClient: func(cfg config.Config, logger zerolog.Logger) (AskCloser, error) {
			env.cfg = cfg
			return env.client, nil
		},
		TUI: env.tui,
	}
	oldTTY := stdoutIsTTY
	stdoutIsTTY = func() bool { return false }
	oldStdin := stdinHasData
	stdinHasData = func() bool { return false }

	resetFlags(rootCmd)
	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.errOut)
	rootCmd.SetIn(strings.NewReader(""))

	t.Cleanup(func() {
		config.DotEnvPath = oldDotEnv
		deps = oldDeps
		stdoutIsTTY = oldTTY
		stdinHasData = oldStdin
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	return env
}

// run executes the root command with args
func (e *testEnv) run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// resetFlags restores every flag of cmd and its subcommands to its default
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
