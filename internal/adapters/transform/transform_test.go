package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/transform"
	"go.trai.ch/press/internal/core/domain"
)

func TestAll_OrderAndNames(t *testing.T) {
	f := newFixture(t, domain.Development)

	all := transform.All(f.logger, f.reloader, fs.NewResolver(), fs.NewWriter())

	classes := make([]domain.AssetClass, 0, len(all))
	names := make([]string, 0, len(all))
	for _, tr := range all {
		classes = append(classes, tr.Class())
		names = append(names, tr.Name())
	}

	assert.Equal(t, domain.AssetClasses(), classes)
	assert.Equal(t, []string{"Styles", "Scripts", "Images", "SVG Sprite"}, names)
}
