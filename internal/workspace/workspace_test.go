package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResetCreatesEmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wav")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Reset(dir); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestResetIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp")
	for i := 0; i < 2; i++ {
		if err := Reset(dir); err != nil {
			t.Fatalf("Reset #%d: %v", i+1, err)
		}
	}
	assertEmptyDir(t, dir)
}

func TestResetReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bnk")
	if err := os.WriteFile(path, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Reset(path); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	assertEmptyDir(t, path)
}

func TestResetRejectsEmptyPath(t *testing.T) {
	if err := Reset(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCleanupKeepsDest(t *testing.T) {
	layout := New(t.TempDir())
	for _, dir := range append(layout.Scratch(), layout.Dest) {
		if err := Reset(dir); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(layout.Dest, "Line.aac")
	if err := os.WriteFile(keep, []byte("aac"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := layout.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	for _, dir := range layout.Scratch() {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err = %v", dir, err)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("dest output removed: %v", err)
	}
	// Nothing left to remove.
	if err := layout.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first.Path() != filepath.Join(dir, LockFileName) {
		t.Fatalf("unexpected lock path %s", first.Path())
	}

	if _, err := Acquire(dir); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat %s: %v", dir, err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty %s, found %d entries", dir, len(entries))
	}
}
