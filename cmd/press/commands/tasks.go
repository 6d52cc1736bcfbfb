package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newTaskCmd(task, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     task,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), cfg, task)
		},
	}
}
