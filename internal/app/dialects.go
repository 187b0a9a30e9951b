package app

import (
	"github.com/spf13/cobra"
)

func NewDialectsCmd(mgr Manager) *cobra.Command {
	outputVal := formatValue("text")

	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List the supported JSON Schema dialects and their formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mgr.ListDialects(cmd.Context(), string(outputVal))
		},
	}

	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	return cmd
}
