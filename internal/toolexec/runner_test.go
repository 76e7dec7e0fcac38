package toolexec_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProcessRunnerForwardsOutput(t *testing.T) {
	script := writeScript(t, `echo "out $1"; echo "err $2" 1>&2; exit 0`)
	var lines []string
	runner := toolexec.NewProcessRunner(logging.NewNop(), toolexec.WithOutput(func(line string) {
		lines = append(lines, line)
	}))

	if err := runner.Run(context.Background(), toolexec.Command{Binary: script, Args: []string{"a", "b"}}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "out a") || !strings.Contains(joined, "err b") {
		t.Fatalf("expected both streams forwarded, got %q", joined)
	}
}

func TestProcessRunnerReportsNonZeroExit(t *testing.T) {
	script := writeScript(t, "exit 3")
	runner := toolexec.NewProcessRunner(logging.NewNop())

	err := runner.Run(context.Background(), toolexec.Command{Binary: script})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestProcessRunnerMissingBinary(t *testing.T) {
	runner := toolexec.NewProcessRunner(logging.NewNop())
	err := runner.Run(context.Background(), toolexec.Command{Binary: filepath.Join(t.TempDir(), "absent")})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker for missing binary, got %v", err)
	}
	if err := runner.Run(context.Background(), toolexec.Command{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker for empty binary, got %v", err)
	}
}

func TestProcessRunnerTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5")
	runner := toolexec.NewProcessRunner(logging.NewNop(), toolexec.WithTimeout(100*time.Millisecond))

	start := time.Now()
	err := runner.Run(context.Background(), toolexec.Command{Binary: script})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout message, got %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatal("expected the child to be killed at the deadline")
	}
}

func TestInvokeSwallowsToolFailure(t *testing.T) {
	calls := 0
	runner := toolexec.RunnerFunc(func(ctx context.Context, cmd toolexec.Command) error {
		calls++
		return services.Wrap(services.ErrExternalTool, "", "wait", cmd.Binary, errors.New("exit status 1"))
	})

	if toolexec.Invoke(context.Background(), runner, logging.NewNop(), toolexec.Command{Binary: "ffmpeg"}) {
		t.Fatal("expected failure to be reported as false")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestInvokeSurfacesToolStderrAtInfo(t *testing.T) {
	script := writeScript(t, `echo "stream info" ; echo "bad header in 12.wem" 1>&2; exit 3`)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	runner := toolexec.NewProcessRunner(logger)

	if toolexec.Invoke(context.Background(), runner, logger, toolexec.Command{Binary: script}) {
		t.Fatal("expected failure")
	}

	var sawLine, sawWarn bool
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("decode log line %q: %v", raw, err)
		}
		switch rec["msg"] {
		case "tool output":
			if rec["line"] == "stream info" {
				t.Fatal("stdout should stay at debug level")
			}
			if rec["level"] == "INFO" && rec["line"] == "bad header in 12.wem" {
				sawLine = true
			}
		case "external tool failed":
			if msg, _ := rec["error"].(string); strings.Contains(msg, "stderr: bad header in 12.wem") {
				sawWarn = true
			}
		}
	}
	if !sawLine {
		t.Fatalf("expected the tool's stderr line at info level, got:\n%s", buf.String())
	}
	if !sawWarn {
		t.Fatalf("expected the failure warning to carry the stderr tail, got:\n%s", buf.String())
	}
}

func TestInvokeSuccess(t *testing.T) {
	runner := toolexec.RunnerFunc(func(context.Context, toolexec.Command) error { return nil })
	if !toolexec.Invoke(context.Background(), runner, nil, toolexec.Command{Binary: "quickbms"}) {
		t.Fatal("expected success")
	}
}

func TestCommandString(t *testing.T) {
	cmd := toolexec.Command{Binary: "Tools/ffmpeg.exe", Args: []string{"-i", "wav/a b.wav", ""}}
	want := `Tools/ffmpeg.exe -i "wav/a b.wav" ""`
	if got := cmd.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
