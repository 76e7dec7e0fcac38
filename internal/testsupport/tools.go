package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

// FakeTools is a toolexec.Runner that imitates the three external tools by
// producing the files they would write:
//   - quickbms: reads the archive as a newline-separated list of entry names
//     and creates each entry in the output directory.
//   - vgmstream-cli: writes a short silent WAV to the -o path.
//   - ffmpeg: copies the -i input to the final argument.
//
// The tool is chosen by the binary's base name.
type FakeTools struct {
	mu    sync.Mutex
	calls []toolexec.Command
	fail  map[string]bool
}

// NewFakeTools returns a runner with no configured failures.
func NewFakeTools() *FakeTools {
	return &FakeTools{fail: make(map[string]bool)}
}

// FailOn makes every command whose arguments contain needle exit non-zero
// without producing output.
func (f *FakeTools) FailOn(needle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[needle] = true
}

// Calls returns the commands run so far.
func (f *FakeTools) Calls() []toolexec.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]toolexec.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the commands whose binary base name starts with tool.
func (f *FakeTools) CallsTo(tool string) []toolexec.Command {
	var out []toolexec.Command
	for _, cmd := range f.Calls() {
		if strings.HasPrefix(fileutil.Stem(cmd.Binary), tool) {
			out = append(out, cmd)
		}
	}
	return out
}

// Run implements toolexec.Runner.
func (f *FakeTools) Run(ctx context.Context, cmd toolexec.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	failing := f.shouldFail(cmd)
	f.mu.Unlock()
	if failing {
		return errors.New("exit status 1")
	}

	switch tool := fileutil.Stem(cmd.Binary); {
	case strings.HasPrefix(tool, "quickbms"):
		return fakeExtract(cmd.Args)
	case strings.HasPrefix(tool, "vgmstream"):
		return fakeDecode(cmd.Args)
	case strings.HasPrefix(tool, "ffmpeg"):
		return fakeEncode(cmd.Args)
	default:
		return fmt.Errorf("fake tools: unknown binary %q", cmd.Binary)
	}
}

func (f *FakeTools) shouldFail(cmd toolexec.Command) bool {
	for needle := range f.fail {
		for _, arg := range cmd.Args {
			if strings.Contains(arg, needle) {
				return true
			}
		}
	}
	return false
}

func fakeExtract(args []string) error {
	if len(args) < 2 {
		return errors.New("quickbms: missing archive and output arguments")
	}
	archive, outDir := args[len(args)-2], args[len(args)-1]
	data, err := os.ReadFile(archive)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(name), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func fakeDecode(args []string) error {
	if len(args) != 3 || args[0] != "-o" {
		return fmt.Errorf("vgmstream: unexpected arguments %q", args)
	}
	if _, err := os.Stat(args[2]); err != nil {
		return err
	}
	return EncodeWAV(args[1], 22050, 2205)
}

func fakeEncode(args []string) error {
	input := ""
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-i" {
			input = args[i+1]
		}
	}
	if input == "" || len(args) == 0 {
		return fmt.Errorf("ffmpeg: unexpected arguments %q", args)
	}
	return fileutil.CopyFile(input, args[len(args)-1])
}
