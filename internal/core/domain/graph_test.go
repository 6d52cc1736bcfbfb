package domain_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

func noop(context.Context) error { return nil }

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()
	task := domain.Task{Name: "task1", Run: noop}

	require.NoError(t, g.AddTask(&task))

	err := g.AddTask(&task)
	require.ErrorContains(t, err, "task already exists")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "task1", zErr.Metadata()["task_name"])
}

func TestGraph_Cycle(t *testing.T) {
	tests := []struct {
		name        string
		tasks       []domain.Task
		wantErr     bool
		errContains string
	}{
		{
			name:        "Simple Cycle A->A",
			tasks:       []domain.Task{{Name: "A", Dependencies: []string{"A"}}},
			wantErr:     true,
			errContains: "cycle detected",
		},
		{
			name: "Three Node Cycle A->B->C->A",
			tasks: []domain.Task{
				{Name: "A", Dependencies: []string{"B"}},
				{Name: "B", Dependencies: []string{"C"}},
				{Name: "C", Dependencies: []string{"A"}},
			},
			wantErr:     true,
			errContains: "cycle detected",
		},
		{
			name:        "Missing Dependency",
			tasks:       []domain.Task{{Name: "A", Dependencies: []string{"ghost"}}},
			wantErr:     true,
			errContains: "missing dependency",
		},
		{
			name: "Diamond",
			tasks: []domain.Task{
				{Name: "top", Dependencies: []string{"left", "right"}},
				{Name: "left", Dependencies: []string{"bottom"}},
				{Name: "right", Dependencies: []string{"bottom"}},
				{Name: "bottom"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for i := range tt.tasks {
				require.NoError(t, g.AddTask(&tt.tasks[i]))
			}

			err := g.Validate()
			if tt.wantErr {
				require.ErrorContains(t, err, tt.errContains)
				assert.False(t, g.Validated())
				return
			}
			require.NoError(t, err)
			assert.True(t, g.Validated())
		})
	}
}

func TestGraph_CycleMetadata(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.Task{Name: "A", Dependencies: []string{"B"}}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "B", Dependencies: []string{"A"}}))

	err := g.Validate()

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestGraph_WalkIsDeterministic(t *testing.T) {
	build := func() []string {
		g := domain.NewGraph()
		for _, task := range []domain.Task{
			{Name: "generate", Dependencies: []string{"styles", "scripts", "images", "svg"}},
			{Name: "styles", Dependencies: []string{"clean"}},
			{Name: "scripts", Dependencies: []string{"clean"}},
			{Name: "images", Dependencies: []string{"clean"}},
			{Name: "svg", Dependencies: []string{"clean"}},
			{Name: "clean"},
		} {
			require.NoError(t, g.AddTask(&task))
		}
		require.NoError(t, g.Validate())

		var order []string
		for task := range g.Walk() {
			order = append(order, task.Name)
		}
		return order
	}

	first := build()
	assert.Equal(t, []string{"clean", "styles", "scripts", "images", "svg", "generate"}, first)
	for range 10 {
		assert.Equal(t, first, build())
	}
}

func TestGraph_Dependents(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.Task{Name: "clean"}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "styles", Dependencies: []string{"clean"}}))
	require.NoError(t, g.AddTask(&domain.Task{Name: "scripts", Dependencies: []string{"clean"}}))
	require.NoError(t, g.Validate())

	deps := g.Dependents("clean")
	slices.Sort(deps)
	assert.Equal(t, []string{"scripts", "styles"}, deps)
	assert.Empty(t, g.Dependents("styles"))
}
