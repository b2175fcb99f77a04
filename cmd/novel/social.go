package main

import (
	"fmt"
	"io"
	"strings"

	"novel-reader/internal/config"
	"novel-reader/internal/social"

	"github.com/spf13/cobra"
)

// NewLikeCmd creates the like command.
func NewLikeCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "like",
		Short: "Like the novel, or take your like back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				if err := c.Panel.Load(cmd.Context()); err != nil {
					return err
				}
				state, err := c.Panel.ToggleLike(cmd.Context())
				if err != nil {
					return fmt.Errorf("could not update like: %w", err)
				}
				mark := "not liked"
				if state.Liked {
					mark = "liked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d likes (%s)\n", state.Count, mark)
				return nil
			})
		},
	}
}

// NewCommentsCmd creates the comments command.
func NewCommentsCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Show what readers are saying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}
			return withContainer(cmd, open, func(c *config.Container) error {
				if err := c.Panel.Load(cmd.Context()); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if all {
					overlay := c.Panel.Overlay()
					fmt.Fprintln(out, overlay.Heading)
					printComments(out, overlay.Comments)
					return nil
				}

				summary := c.Panel.Summary(false)
				fmt.Fprintf(out, "%d likes\n", summary.Likes.Count)
				if summary.TotalComments == 0 {
					fmt.Fprintln(out, "No thoughts shared yet.")
					return nil
				}
				printComments(out, summary.Preview)
				if summary.HasMore {
					fmt.Fprintf(out, "Read all %d comments with --all\n", summary.TotalComments)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Show every comment")
	return cmd
}

// NewCommentCmd creates the comment command group.
func NewCommentCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Post or delete a comment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "post TEXT",
		Short: "Share a thought",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				created, err := c.Panel.PostComment(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("could not post comment: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Posted %s as %s\n", created.ID, created.UserName)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, open, func(c *config.Container) error {
				if err := c.Panel.Load(cmd.Context()); err != nil {
					return err
				}
				if err := c.Panel.DeleteComment(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("could not delete comment: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func printComments(w io.Writer, comments []social.CommentView) {
	for _, c := range comments {
		mine := ""
		if c.CanDelete {
			mine = " [" + c.ID + "]"
		}
		fmt.Fprintf(w, "%s · %s%s\n  %s\n", c.UserName, c.TimeLabel, mine, c.Text)
	}
}
