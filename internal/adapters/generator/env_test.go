package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEnvironment(t *testing.T) {
	got := mergeEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/dev", "HUGO_ENV=stale", "BROKEN"},
		[]string{"HUGO_ENV=development"},
	)

	assert.Equal(t, []string{
		"HOME=/home/dev",
		"HUGO_ENV=development",
		"PATH=/usr/bin",
	}, got)
}
