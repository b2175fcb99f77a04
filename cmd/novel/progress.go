package main

import (
	"fmt"

	"novel-reader/internal/config"

	"github.com/spf13/cobra"
)

// NewProgressCmd creates the progress command.
func NewProgressCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how far you have read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				landing := c.Viewer.Landing()
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, c.Config.GetDocumentTitle())
				if landing.Percent == nil {
					fmt.Fprintf(out, "%s\n", landing.ButtonLabel)
					return nil
				}
				fmt.Fprintf(out, "%s: page %d of %d (%d%%)\n",
					landing.ButtonLabel, landing.CurrentPage, landing.TotalPages, *landing.Percent)
				return nil
			})
		},
	}
}
