package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

// Writer writes build outputs, leaving files with identical content untouched so
// their modification time and watchers stay quiet.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteIfChanged writes data to path unless the file already holds the same bytes.
// It reports whether the file was written.
func (w *Writer) WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := w.ComputeFileHash(path)
	if err == nil && existing == xxhash.Sum64(data) {
		return false, nil
	}
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return false, err
	}

	if err := w.WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile writes data to path, creating parent directories.
func (w *Writer) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}

// ComputeFileHash computes the XXHash of a file's content.
func (w *Writer) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// UpToDate reports whether dst exists and is not older than src.
func (w *Writer) UpToDate(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", src)
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", dst)
	}

	return !srcInfo.ModTime().After(dstInfo.ModTime()), nil
}
