package config

import (
	"os"
	"os/exec"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Preflight verifies that the generator binary can be found and that the source
// directory exists.
func Preflight(cfg *domain.BuildConfig) error {
	if _, err := lookPath(cfg.Generator.Binary); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGeneratorNotFound.Error()), "binary", cfg.Generator.Binary)
	}

	info, err := os.Stat(cfg.Src)
	if err != nil || !info.IsDir() {
		return zerr.With(domain.ErrSourceDirMissing, "path", cfg.Src)
	}

	return nil
}
