package metadata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
)

// openText opens path for reading as UTF-8. A UTF-8 BOM is stripped and
// UTF-16 input announced by a BOM is transcoded, which covers files saved by
// Windows editors.
func openText(stage, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, stage, "open", path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return textReader{Reader: transform.NewReader(f, decoder), file: f}, nil
}

type textReader struct {
	io.Reader
	file *os.File
}

func (r textReader) Close() error {
	return r.file.Close()
}
