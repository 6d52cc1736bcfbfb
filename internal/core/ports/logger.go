// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// Log writes message tagged with component. Multi-line messages are indented under
	// the tag. A non-nil err additionally rings the terminal bell and is forwarded to
	// the notifier before the lines are written.
	Log(err error, message, component string)
}
