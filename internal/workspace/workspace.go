package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Directory names under the work directory.
const (
	TmpDir  = "tmp"
	BankDir = "bnk"
	WemDir  = "wem"
	WavDir  = "wav"
	DestDir = "dest"
)

// Layout resolves the stage directories for one work directory.
type Layout struct {
	Root string
	Tmp  string
	Bank string
	Wem  string
	Wav  string
	Dest string
}

// New returns the layout rooted at workDir. Nothing is created on disk.
func New(workDir string) Layout {
	return Layout{
		Root: workDir,
		Tmp:  filepath.Join(workDir, TmpDir),
		Bank: filepath.Join(workDir, BankDir),
		Wem:  filepath.Join(workDir, WemDir),
		Wav:  filepath.Join(workDir, WavDir),
		Dest: filepath.Join(workDir, DestDir),
	}
}

// Scratch lists the directories removed by Cleanup.
func (l Layout) Scratch() []string {
	return []string{l.Tmp, l.Bank, l.Wem, l.Wav}
}

// Reset guarantees dir exists and is empty. Anything already at the path,
// file or directory, is removed first. Calling Reset twice is the same as
// calling it once.
func Reset(dir string) error {
	if dir == "" {
		return errors.New("reset: empty directory path")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// EnsureDir creates dir if missing and leaves existing contents alone.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// Cleanup removes every scratch directory. dest/ and the reports are kept.
// All removals are attempted; failures are joined.
func (l Layout) Cleanup() error {
	var errs []error
	for _, dir := range l.Scratch() {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", dir, err))
		}
	}
	return errors.Join(errs...)
}
