package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/app"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         func(root string) []string
		expectedExit int
		check        func(t *testing.T, root string)
	}{
		{
			name:         "Version",
			args:         func(string) []string { return []string{"press", "version"} },
			expectedExit: 0,
		},
		{
			name: "Clean removes staging and output",
			args: func(root string) []string {
				return []string{"press", "--root", root, "clean"}
			},
			expectedExit: 0,
			check: func(t *testing.T, root string) {
				t.Helper()
				assert.NoDirExists(t, filepath.Join(root, ".tmp"))
				assert.NoDirExists(t, filepath.Join(root, "dist"))
				assert.DirExists(t, filepath.Join(root, "src"))
			},
		},
		{
			name:         "Unknown command",
			args:         func(string) []string { return []string{"press", "deploy"} },
			expectedExit: 1,
		},
		{
			name: "Broken pressfile",
			args: func(root string) []string {
				return []string{"press", "--root", filepath.Join(root, "broken"), "clean"}
			},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, dir := range []string{".tmp/css", "dist", "src", "broken"} {
				require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
			}
			require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "press.yaml"), []byte("src: [unterminated"), 0o600))

			os.Args = tt.args(root)
			exitCode := run(func(a *app.App) {
				a.WithMode(detector.ModeCI)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
			if tt.check != nil {
				tt.check(t, root)
			}
		})
	}
}
