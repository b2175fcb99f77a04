package main

import (
	"fmt"
	"io"
	"strings"

	"novel-reader/internal/config"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the visitor identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				printVisitor(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

// NewNameCmd creates the name command.
func NewNameCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "name [NAME]",
		Short: "Set the display name, or clear it when NAME is omitted",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				c.Identity.SetVisitorName(strings.Join(args, " "))
				printVisitor(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

// NewAnonymousCmd creates the anonymous command.
func NewAnonymousCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "anonymous on|off",
		Short:     "Post comments anonymously or under your name",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var anonymous bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "yes":
				anonymous = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return withContainer(cmd, open, func(c *config.Container) error {
				c.Identity.SetAnonymous(anonymous)
				printVisitor(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func printVisitor(w io.Writer, c *config.Container) {
	v := c.Identity.Visitor()
	fmt.Fprintf(w, "Visitor:    %s\n", v.ID)
	fmt.Fprintf(w, "Name:       %s\n", v.DisplayName)
	fmt.Fprintf(w, "Posting as: %s\n", c.Panel.PostingAs())
}
