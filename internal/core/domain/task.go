package domain

import "context"

// Task names of the build pipeline.
const (
	TaskClean    = "clean"
	TaskStyles   = "styles"
	TaskScripts  = "scripts"
	TaskImages   = "images"
	TaskSVG      = "svg"
	TaskGenerate = "generate"
	// TaskBuild is an alias target that resolves to TaskGenerate with all prerequisites.
	TaskBuild = "build"
)

// TaskFunc is the unit of work executed by the scheduler.
type TaskFunc func(ctx context.Context) error

// Task represents a unit of work in the build pipeline.
type Task struct {
	Name         string
	Dependencies []string
	Run          TaskFunc
}

// TaskStatus represents the status of a task during a run.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task has finished successfully.
	StatusDone TaskStatus = "Done"
	// StatusFailed indicates the task failed or one of its prerequisites did.
	StatusFailed TaskStatus = "Failed"
)
