package transform_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/core/domain"
	"go.uber.org/mock/gomock"
)

func TestScripts_Development(t *testing.T) {
	f := newFixture(t, domain.Development)
	f.write(t, "src/js/app.js", []byte(`import { greet } from "./lib/greet.js";
greet(process.env.NODE_ENV);
`))
	f.write(t, "src/js/lib/greet.js", []byte(`export function greet(who) { console.log("hello " + who); }
`))

	var stats []string
	f.logger.EXPECT().Log(nil, gomock.Any(), "Scripts").Do(func(_ error, msg, _ string) {
		stats = append(stats, msg)
	}).Times(2)

	err := f.transformer(domain.ClassScripts).Transform(context.Background(), f.cfg)
	require.NoError(t, err)

	prod := f.read(t, filepath.Join(f.cfg.Scripts.Dest, "app.min.js"))
	assert.Contains(t, prod, `"production"`)
	assert.Contains(t, prod, "sourceMappingURL=app.min.js.map")
	assert.FileExists(t, filepath.Join(f.cfg.Scripts.Dest, "app.min.js.map"))
	assert.NoFileExists(t, filepath.Join(f.cfg.Scripts.Dest, "greet.min.js"))

	staged := f.read(t, filepath.Join(f.cfg.Scripts.Tmp, "app.min.js"))
	assert.Contains(t, staged, `"development"`)

	require.Len(t, stats, 2)
	assert.Contains(t, stats[0], "hugo/static/js/app.min.js")
	assert.NotContains(t, stats[0], ".map")
	assert.Contains(t, stats[1], ".tmp/js/app.min.js")

	require.Len(t, f.streamed(), 1)
	assert.Equal(t, []string{filepath.Join(f.cfg.Scripts.Tmp, "app.min.js")}, f.streamed()[0])
}

func TestScripts_VendorIsExternal(t *testing.T) {
	f := newFixture(t, domain.Production)
	f.write(t, "src/js/app.js", []byte(`import "vendor/jquery.js";
console.log("ready");
`))
	f.logger.EXPECT().Log(nil, gomock.Any(), "Scripts").Times(1)

	err := f.transformer(domain.ClassScripts).Transform(context.Background(), f.cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.cfg.Scripts.Dest, "app.min.js"))
}

func TestScripts_Error(t *testing.T) {
	f := newFixture(t, domain.Development)
	f.write(t, "src/js/app.js", []byte("const = ;\n"))

	err := f.transformer(domain.ClassScripts).Transform(context.Background(), f.cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTransformFailed.Error())
	assert.ErrorContains(t, err, "app.js")
	assert.Empty(t, f.streamed())
}
