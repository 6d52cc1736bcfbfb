package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrGraphNotValidated is returned when a graph is used before Validate succeeded.
	ErrGraphNotValidated = zerr.New("graph has not been validated")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildFailed is returned when at least one task of a run failed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrDependencyFailed is reported for tasks skipped because a prerequisite failed.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrUnknownEnvironment is returned when the environment selector holds an unsupported value.
	ErrUnknownEnvironment = zerr.New("unknown environment, expected 'development' or 'production'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrDotEnvLoadFailed is returned when a .env file exists but cannot be parsed.
	ErrDotEnvLoadFailed = zerr.New("failed to load .env file")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrGeneratorNotFound is returned when the generator binary cannot be located.
	ErrGeneratorNotFound = zerr.New("generator binary not found")

	// ErrSourceDirMissing is returned when the source directory does not exist.
	ErrSourceDirMissing = zerr.New("source directory does not exist")

	// ErrGeneratorSpawnFailed is returned when the generator process cannot be started.
	ErrGeneratorSpawnFailed = zerr.New("failed to start generator")

	// ErrGeneratorExitStatus is returned when the generator exits with a non-zero status.
	ErrGeneratorExitStatus = zerr.New("generator exited with non-zero status")

	// ErrGlobFailed is returned when a source glob cannot be expanded.
	ErrGlobFailed = zerr.New("failed to expand source glob")

	// ErrTransformFailed is returned when an asset transform reports errors.
	ErrTransformFailed = zerr.New("asset transform failed")

	// ErrFileReadFailed is returned when an input file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrCleanFailed is returned when an output directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean output directory")

	// ErrServerStartFailed is returned when the development server cannot listen.
	ErrServerStartFailed = zerr.New("failed to start development server")

	// ErrCertificateFailed is returned when the TLS certificate cannot be loaded or generated.
	ErrCertificateFailed = zerr.New("failed to prepare TLS certificate")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherStopped is returned when the file watcher ends while the server is still running.
	ErrWatcherStopped = zerr.New("file watcher stopped unexpectedly")
)
