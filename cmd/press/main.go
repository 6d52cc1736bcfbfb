// Package main is the entry point for the press site builder.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/cmd/press/commands"
	"go.trai.ch/press/internal/app"
	"go.trai.ch/press/internal/core/domain"
	_ "go.trai.ch/press/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// The logger is not available yet.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		// Task failures were logged by the tasks themselves.
		if !errors.Is(err, domain.ErrBuildFailed) {
			components.Logger.Error(err)
		}
		return 1
	}
	return 0
}
