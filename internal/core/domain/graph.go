// Package domain contains the core domain models of the build pipeline.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[string]Task
	dependents     map[string][]string
	executionOrder []string
	validated      bool
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[string]Task),
		dependents: make(map[string][]string),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name)
	}
	g.tasks[t.Name] = *t
	g.validated = false
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name string) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Validate checks for missing dependencies and cycles using a depth-first topological sort.
// Tasks are visited in name order so the resulting execution order is deterministic.
func (g *Graph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.tasks))
	g.dependents = make(map[string][]string, len(g.tasks))
	g.validated = false

	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		task := g.tasks[u]
		for _, dep := range task.Dependencies {
			if _, exists := g.tasks[dep]; !exists {
				return zerr.With(zerr.With(ErrMissingDependency, "dependency", dep), "task", u)
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	for _, name := range names {
		for _, dep := range g.tasks[name].Dependencies {
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}

	g.validated = true
	return nil
}

// Validated reports whether the last call to Validate succeeded and no task was added since.
func (g *Graph) Validated() bool {
	return g.validated
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []string, dep string) error {
	startIdx := slices.Index(path, dep)
	cycle := append(slices.Clone(path[startIdx:]), dep)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Dependents returns the names of the tasks that directly depend on name.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}
