package transform_test

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/transform"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	cfg      *domain.BuildConfig
	logger   *mocks.MockLogger
	reloader *mocks.MockReloader

	mu      sync.Mutex
	changed [][]string
}

func newFixture(t *testing.T, env domain.Environment) *fixture {
	t.Helper()

	root := t.TempDir()
	ctrl := gomock.NewController(t)

	f := &fixture{
		root:     root,
		logger:   mocks.NewMockLogger(ctrl),
		reloader: mocks.NewMockReloader(ctrl),
		cfg: &domain.BuildConfig{
			Env:  env,
			Root: root,
			Styles: domain.AssetPaths{
				Src:  []string{"src/css/*.{css,scss,sass}", "src/scss/*.{css,scss,sass}"},
				Dest: filepath.Join(root, "hugo", "static", "css"),
				Tmp:  filepath.Join(root, ".tmp", "css"),
			},
			Scripts: domain.AssetPaths{
				Src:  []string{"src/js/*.{js,jsx}"},
				Dest: filepath.Join(root, "hugo", "static", "js"),
				Tmp:  filepath.Join(root, ".tmp", "js"),
			},
			Images: domain.AssetPaths{
				Src:  []string{"src/img/**/*.{png,jpg,jpeg,gif,svg,webp}"},
				Dest: filepath.Join(root, "hugo", "static", "img"),
			},
			SVG: domain.AssetPaths{
				Src:  []string{"src/img/**/*.svg"},
				Dest: filepath.Join(root, "hugo", "layouts", "partials", "svg"),
			},
			Sprite: domain.SpriteConfig{
				Filename: "sprite.symbol.svg",
				Prefix:   "svg-%s",
				Example:  !env.IsProduction(),
			},
		},
	}

	f.reloader.EXPECT().Changed(gomock.Any()).Do(func(paths ...string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.changed = append(f.changed, slices.Clone(paths))
	}).AnyTimes()

	return f
}

func (f *fixture) write(t *testing.T, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) streamed() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.changed)
}

func (f *fixture) transformer(class domain.AssetClass) ports.Transformer {
	for _, tr := range transform.All(f.logger, f.reloader, fs.NewResolver(), fs.NewWriter()) {
		if tr.Class() == class {
			return tr
		}
	}
	return nil
}
