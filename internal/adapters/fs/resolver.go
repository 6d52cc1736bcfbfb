package fs

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using doublestar globs, so
// patterns may use ** and {a,b} alternatives.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands patterns relative to root and returns the matching files as
// sorted absolute paths. A pattern matching nothing is not an error.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	uniquePaths := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := r.glob(pattern, root)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", pattern)
		}
		for _, match := range matches {
			uniquePaths[match] = struct{}{}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

func (r *Resolver) glob(pattern, root string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return matches, nil
}
