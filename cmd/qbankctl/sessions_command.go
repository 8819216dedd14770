package main

import (
	"github.com/spf13/cobra"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List paper sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			rows, err := ctx.sessions.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd, rows)
		},
	}
}
