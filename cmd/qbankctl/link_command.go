package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errInteractive = errors.New("re-run with --yes to confirm")

func newLinkCommand(ctx *commandContext) *cobra.Command {
	linkCmd := &cobra.Command{
		Use:   "link",
		Short: "Match question versions across a session pair",
	}
	linkCmd.AddCommand(newLinkRunCommand(ctx))
	linkCmd.AddCommand(newLinkShowCommand(ctx))
	linkCmd.AddCommand(newLinkClearCommand(ctx))
	return linkCmd
}

func newLinkRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <source-session> <target-session>",
		Short: "Run a matching pass and print the report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			sourceID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseSessionID(args[1])
			if err != nil {
				return err
			}
			report, err := ctx.linker.Run(cmd.Context(), sourceID, targetID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
}

func newLinkShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <source-session> <target-session>",
		Short: "Print the pair's active links",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			sourceID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseSessionID(args[1])
			if err != nil {
				return err
			}
			links, err := ctx.linker.ActiveLinks(cmd.Context(), sourceID, targetID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, links)
		},
	}
}

func newLinkClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear <source-session> <target-session>",
		Short: "Hard-delete every link for the pair, history included",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errInteractive
			}
			if err := ctx.ensure(); err != nil {
				return err
			}
			sourceID, err := parseSessionID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseSessionID(args[1])
			if err != nil {
				return err
			}
			removed, err := ctx.linker.Clear(cmd.Context(), sourceID, targetID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]int{"removed": removed})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the irreversible delete")
	return cmd
}
