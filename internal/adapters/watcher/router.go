package watcher

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/press/internal/core/domain"
)

type route struct {
	task     string
	patterns []string
}

// Router maps changed files to the pipeline task that rebuilds them. A file may
// match several routes: an SVG below the image directory feeds both the image
// optimizer and the sprite.
type Router struct {
	root     string
	routes   []route
	dest     string
	excluded []string
}

// NewRouter builds the routes of cfg. Source globs are matched against paths
// relative to the project root, so the root itself may contain glob syntax.
// Anything below the generator input that is not an asset destination routes to
// the generator.
func NewRouter(cfg *domain.BuildConfig) *Router {
	r := &Router{
		root: cfg.Root,
		dest: cfg.Dest,
		excluded: []string{
			cfg.Styles.Dest,
			cfg.Scripts.Dest,
			cfg.Images.Dest,
		},
	}

	for _, class := range domain.AssetClasses() {
		paths := cfg.Paths(class)
		patterns := make([]string, 0, len(paths.Src))
		for _, p := range paths.Src {
			if filepath.IsAbs(p) {
				rel, err := filepath.Rel(cfg.Root, p)
				if err != nil || !filepath.IsLocal(rel) {
					continue
				}
				p = rel
			}
			patterns = append(patterns, filepath.ToSlash(p))
		}
		r.routes = append(r.routes, route{task: string(class), patterns: patterns})
	}

	return r
}

// Route returns the tasks to run for paths, without duplicates, in pipeline order.
func (r *Router) Route(paths ...string) []string {
	hit := make(map[string]bool)
	for _, p := range paths {
		for _, task := range r.match(p) {
			hit[task] = true
		}
	}

	tasks := make([]string, 0, len(hit))
	for _, rt := range r.routes {
		if hit[rt.task] {
			tasks = append(tasks, rt.task)
		}
	}
	if hit[domain.TaskGenerate] {
		tasks = append(tasks, domain.TaskGenerate)
	}
	return tasks
}

func (r *Router) match(path string) []string {
	var tasks []string
	if rel, err := filepath.Rel(r.root, path); err == nil && filepath.IsLocal(rel) {
		slashed := filepath.ToSlash(rel)
		for _, rt := range r.routes {
			for _, pattern := range rt.patterns {
				if ok, _ := doublestar.Match(pattern, slashed); ok {
					tasks = append(tasks, rt.task)
					break
				}
			}
		}
	}

	if r.dest != "" && within(r.dest, path) {
		excluded := false
		for _, ex := range r.excluded {
			if ex != "" && within(ex, path) {
				excluded = true
				break
			}
		}
		if !excluded {
			tasks = append(tasks, domain.TaskGenerate)
		}
	}

	return tasks
}

// within reports whether path is dir or below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
