// Package commands implements the CLI commands for press.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/app"
	"go.trai.ch/press/internal/build"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

// CLI represents the command line interface for press.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
	environ func() []string
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	c := &CLI{app: a, environ: os.Environ}

	rootCmd := &cobra.Command{
		Use:           "press",
		Short:         "Build the site assets, run Hugo and serve the result with live reload",
		Long:          "Running press without a command starts the development server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE:          c.runServer,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "Project root directory")
	flags.StringP("env", "e", "", "Build environment (development or production), overrides PRESS_ENV and NODE_ENV")
	flags.Bool("json", false, "Write logs as JSON")
	flags.String("output", "auto", "Output mode: auto, interactive or ci")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(
		c.newTaskCmd(domain.TaskClean, "Remove the staging and output directories"),
		c.newTaskCmd(domain.TaskStyles, "Compile and minify stylesheets"),
		c.newTaskCmd(domain.TaskScripts, "Bundle and minify scripts"),
		c.newTaskCmd(domain.TaskImages, "Optimize images"),
		c.newTaskCmd(domain.TaskSVG, "Build the SVG symbol sprite"),
		c.newTaskCmd(domain.TaskGenerate, "Run the site generator", "hugo"),
		c.newTaskCmd(domain.TaskBuild, "Run the whole pipeline: clean, assets, generate"),
		c.newServerCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetEnviron replaces the process environment seen by the configuration. Used for testing.
func (c *CLI) SetEnviron(environ []string) {
	c.environ = func() []string { return environ }
}

// config applies the output flags and resolves the build configuration.
func (c *CLI) config(cmd *cobra.Command) (*domain.BuildConfig, error) {
	flags := cmd.Flags()
	root, _ := flags.GetString("root")
	env, _ := flags.GetString("env")
	jsonLogs, _ := flags.GetBool("json")
	output, _ := flags.GetString("output")

	c.app.SetJSON(jsonLogs)
	if output != "auto" {
		c.app.WithMode(detector.Resolve(detector.Detect(), output))
	}

	return c.app.Config(ports.ConfigRequest{
		Root:    root,
		Env:     env,
		Environ: c.environ(),
	})
}

// SetOut sets the output writer of the root command. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}
