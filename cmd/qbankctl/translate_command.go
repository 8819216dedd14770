package main

import (
	"github.com/spf13/cobra"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "translate <session>",
		Short: "Batch-translate a session's question bodies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.translator()
			if err != nil {
				return err
			}
			sessionID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			report, err := svc.TranslateSession(cmd.Context(), sessionID, target)
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Target language code (required)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
