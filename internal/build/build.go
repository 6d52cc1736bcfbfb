// Package build holds build-time information.
package build

// Version is the press version.
// It defaults to "dev" and is set with -ldflags "-X go.trai.ch/press/internal/build.Version=…".
var Version = "dev"
