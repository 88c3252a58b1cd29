package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// MaxFileSize bounds the configuration, schema and snapshot files read.
const MaxFileSize = 4 << 20

// ErrFileTooLarge is returned for files over MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileWithLimit reads path unless it exceeds MaxFileSize. A missing
// file yields an error matching os.ErrNotExist.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Size can change between Stat and Read, so the read is bounded too
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, tooLarge(path, info.Size())
	}
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) > MaxFileSize {
		return nil, tooLarge(path, int64(len(data)))
	}
	return data, nil
}

func tooLarge(path string, size int64) error {
	return errors.Wrapf(ErrFileTooLarge, "%s has %d bytes, limit is %d", path, size, MaxFileSize)
}
