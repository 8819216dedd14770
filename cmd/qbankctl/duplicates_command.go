package main

import (
	"github.com/spf13/cobra"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates <session>",
		Short: "Report question numbers that appear more than once in a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			sessionID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			groups, err := ctx.versions.DuplicateReport(cmd.Context(), nil, sessionID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, groups)
		},
	}
}
