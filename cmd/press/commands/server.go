package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "server",
		Aliases: []string{"serve"},
		Short:   "Build, serve with live reload and rebuild on change",
		Args:    cobra.NoArgs,
		RunE:    c.runServer,
	}
}

func (c *CLI) runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := c.config(cmd)
	if err != nil {
		return err
	}
	return c.app.Serve(cmd.Context(), cfg)
}
