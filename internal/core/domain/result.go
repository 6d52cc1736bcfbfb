package domain

// BuildResult captures the outcome of one generator invocation.
type BuildResult struct {
	ExitCode int
	Lines    []string
	Err      error
}

// Succeeded reports whether the generator ran and exited cleanly.
func (r BuildResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}
