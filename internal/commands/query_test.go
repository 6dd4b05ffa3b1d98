package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

func TestRunQuery_Raw(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "4"}})

	if err := env.run("2+2?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.out.String(); got != "4\n" {
		t.Errorf("output = %q, want %q", got, "4\n")
	}
	qs := env.client.Questions()
	if len(qs) != 1 || qs[0] != "2+2?" {
		t.Errorf("questions = %v", qs)
	}
	if !env.client.closed {
		t.Error("client should be closed")
	}
}

func TestRunQuery_Inputs(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, env *testEnv) []string
		want  string
	}{
		{
			name: "positional argument is trimmed",
			setup: func(t *testing.T, env *testEnv) []string {
				return []string{"  What is RAG?  "}
			},
			want: "What is RAG?",
		},
		{
			name: "file flag",
			setup: func(t *testing.T, env *testEnv) []string {
				path := filepath.Join(t.TempDir(), "q.md")
				if err := os.WriteFile(path, []byte("from file\n"), 0o644); err != nil {
					t.Fatal(err)
				}
				return []string{"-f", path}
			},
			want: "from file",
		},
		{
			name: "stdin",
			setup: func(t *testing.T, env *testEnv) []string {
				stdinHasData = func() bool { return true }
				rootCmd.SetIn(strings.NewReader("from stdin\n"))
				return nil
			},
			want: "from stdin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "ok"}})
			args := tt.setup(t, env)
			rootCmd.SetArgs(args)
			if args == nil {
				rootCmd.SetArgs([]string{})
			}

			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			qs := env.client.Questions()
			if len(qs) != 1 || qs[0] != tt.want {
				t.Errorf("questions = %v, want [%s]", qs, tt.want)
			}
		})
	}
}

func TestRunQuery_EmptyQuestion(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{})

	err := env.run("   ")
	if !errors.Is(err, apierrors.ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
	if env.client.Calls() != 0 {
		t.Error("empty question must not be sent")
	}
}

func TestRunQuery_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "delivery failure",
			err:     apierrors.NewDeliveryError("send request", "http://localhost:5001/ask", errors.New("connection refused")),
			wantMsg: apierrors.DeliveryFailureText,
		},
		{
			name:    "missing answer",
			err:     apierrors.NewMalformedResponseError(400, "http://localhost:5001/ask", "Question not provided", `{"error":"Question not provided"}`),
			wantMsg: apierrors.MissingAnswerText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockAskClient{Err: tt.err})

			err := env.run("hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error should wrap the ask failure, got %v", err)
			}
			if !strings.Contains(env.errOut.String(), tt.wantMsg) {
				t.Errorf("stderr = %q, want %q", env.errOut.String(), tt.wantMsg)
			}
			if env.out.Len() != 0 {
				t.Errorf("nothing should go to stdout, got %q", env.out.String())
			}
			if env.client.Calls() != 1 {
				t.Errorf("failures must not be retried, got %d calls", env.client.Calls())
			}
		})
	}
}

func TestRunQuery_OutputFile(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "saved answer"}})
	path := filepath.Join(t.TempDir(), "answer.md")

	if err := env.run("q", "-o", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "saved answer" {
		t.Errorf("file content = %q", string(data))
	}
	if env.out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", env.out.String())
	}
}

func TestRunQuery_Decorated(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "four", Context: "arithmetic notes"}})
	stdoutIsTTY = func() bool { return true }

	var copied string
	oldClip := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = oldClip }()
	t.Setenv("ASKCHAT_COPY_TO_CLIPBOARD", "true")

	if err := env.run("--show-context", "2+2?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := env.out.String()
	for _, want := range []string{"✦ Bot", "four", "arithmetic notes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(env.errOut.String(), "Answered") {
		t.Errorf("stderr should report success, got %q", env.errOut.String())
	}
	if copied != "four" {
		t.Errorf("clipboard = %q, want \"four\"", copied)
	}
}

func TestRunQuery_RawFlagOnTTY(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "plain"}})
	stdoutIsTTY = func() bool { return true }

	if err := env.run("--raw", "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.out.String() != "plain\n" {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestRunQuery_Logs(t *testing.T) {
	env := newTestEnv(t, &api.MockAskClient{Answer: &models.Answer{Text: "ok", StatusCode: 200}})

	if err := env.run("q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(env.home, "askchat.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "answer received") {
		t.Errorf("log = %s", data)
	}
}

func TestRenderAnswer(t *testing.T) {
	answer := &models.Answer{Text: "\x1b[2Jhello", Context: "ctx"}
	cfg := config.DefaultConfig()

	out := renderAnswer(answer, cfg, 80)
	if strings.Contains(out, "\x1b[2J") {
		t.Error("escape sequences in the answer must be stripped")
	}
	if !strings.Contains(out, "hello") {
		t.Error("answer text missing")
	}
	if strings.Contains(out, "ctx") {
		t.Error("context hidden unless enabled")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged, got %s", got)
	}

	if got := truncate("abcdefghijklmnopqrstuvwxyz", 5); got != "abcde..." {
		t.Fatalf("expected truncated with ellipsis, got %s", got)
	}
}
