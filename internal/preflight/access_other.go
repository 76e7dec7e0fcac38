//go:build !unix

package preflight

import (
	"errors"
	"io"
	"os"
)

// checkAccess approximates access(2) by listing the directory and, for
// ReadWrite, creating and removing a probe file.
func checkAccess(path string, mode AccessMode) error {
	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	_, err = dir.Readdirnames(1)
	_ = dir.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if mode != ReadWrite {
		return nil
	}
	probe, err := os.CreateTemp(path, ".wotr-audio-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
