package fs

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cleaner = (*Cleaner)(nil)

// Cleaner removes the staging and build directories.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean deletes cfg.Tmp and cfg.Build including dot files. Missing directories are
// not an error.
func (c *Cleaner) Clean(ctx context.Context, cfg *domain.BuildConfig) error {
	for _, dir := range []string{cfg.Tmp, cfg.Build} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dir == "" {
			continue
		}

		if filepath.Clean(dir) == filepath.Clean(cfg.Root) || filepath.Dir(dir) == dir {
			return zerr.With(domain.ErrCleanFailed, "path", dir)
		}

		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", dir)
		}
	}
	return nil
}
