package main

import (
	"github.com/spf13/cobra"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "normalize <session>",
		Short: "Rewrite a session's question bodies into canonical math form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			sessionID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			report, err := ctx.content.NormalizeSession(cmd.Context(), sessionID, clean)
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Also strip promotional and metadata text")
	return cmd
}
