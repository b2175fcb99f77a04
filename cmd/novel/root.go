// Package main provides the novel command-line client. It reads and writes the
// same local visitor state as the reader server and talks to the same social
// backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"novel-reader/internal/config"
	"novel-reader/pkg/logger"

	"github.com/spf13/cobra"
)

// openFunc builds the dependency container for one command and returns a
// cleanup function.
type openFunc func(ctx context.Context, verbose bool) (*config.Container, func(), error)

func openContainer(ctx context.Context, verbose bool) (*config.Container, func(), error) {
	cfg := config.NewConfig()
	log := logger.NewNop()
	if verbose {
		log = logger.NewLoggerWithWriter("debug", os.Stderr)
	}
	c := config.NewContainerWithConfig(ctx, cfg, log)
	return c, func() { _ = c.Close() }, nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(openContainer)
}

func newRootCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "novel",
		Short: "Read the featured novel and join the conversation",
		Long: `novel is the terminal client for the author's site. It shares the visitor
identity and reading progress kept in the local state database and reads and
writes likes and comments on the configured social backend.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewWhoamiCmd(open))
	cmd.AddCommand(NewNameCmd(open))
	cmd.AddCommand(NewAnonymousCmd(open))
	cmd.AddCommand(NewProgressCmd(open))
	cmd.AddCommand(NewLikeCmd(open))
	cmd.AddCommand(NewCommentsCmd(open))
	cmd.AddCommand(NewCommentCmd(open))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// withContainer opens the container for the duration of fn.
func withContainer(cmd *cobra.Command, open openFunc, fn func(c *config.Container) error) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	c, cleanup, err := open(cmd.Context(), verbose)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(c)
}

// Execute runs the root command. Interrupts cancel in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
