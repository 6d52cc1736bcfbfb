package ports

import (
	"context"

	"go.trai.ch/press/internal/core/domain"
)

//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks

// Notifier shows a short message to connected browsers.
type Notifier interface {
	Notify(message string)
}

// Reloader pushes change events to connected browsers.
// Implementations must be safe for concurrent use and behave as a no-op when no
// session is active.
type Reloader interface {
	Notifier
	// Reload asks every client to reload the page.
	Reload()
	// Changed reports written files. Stylesheets may be injected in place,
	// anything else results in a reload.
	Changed(paths ...string)
}

// DevServer is the live-reload development server.
type DevServer interface {
	Reloader
	// Start begins serving in the background and returns the public URL.
	Start(ctx context.Context, cfg *domain.BuildConfig) (string, error)
	// Shutdown closes client connections and stops the listener.
	Shutdown(ctx context.Context) error
}
