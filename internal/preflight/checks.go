package preflight

import (
	"fmt"
	"os"
	"strings"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/fileutil"
)

// AccessMode selects the permissions CheckDirectoryAccess requires.
type AccessMode int

const (
	// ReadOnly requires the directory to be listable.
	ReadOnly AccessMode = iota
	// ReadWrite additionally requires that entries can be created.
	ReadWrite
)

func (m AccessMode) String() string {
	if m == ReadWrite {
		return "read/write"
	}
	return "read"
}

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode AccessMode) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, mode)}
}

// CheckFile verifies that path names a readable regular file.
func CheckFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	_ = f.Close()
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckArchives verifies the archive directory is readable and holds at least
// one archive with the given extension.
func CheckArchives(name, dir, ext string) Result {
	access := CheckDirectoryAccess(name, dir, ReadOnly)
	if !access.Passed {
		return access
	}
	archives, err := fileutil.ListFiles(dir, ext)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	if len(archives) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no %s archives)", dir, ext)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d archives)", dir, len(archives))}
}
