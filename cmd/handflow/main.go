package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(130) // 128 + SIGINT, the usual shell convention
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree and wires the global verbose
// flag. The flag is only readable after parsing, so the level switch
// happens in PersistentPreRunE rather than at construction.
func newRootCommand() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	chained := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if chained != nil {
			return chained(cmd, args)
		}
		return nil
	}
	return root
}
