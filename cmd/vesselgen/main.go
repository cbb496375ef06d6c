package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vesselgen/internal/cli"
	"github.com/matzehuels/vesselgen/pkg/errors"
)

func main() {
	// A .env file is optional; it only seeds VESSELGEN_* settings.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err for the user and returns the process exit status.
func report(w io.Writer, err error) int {
	fmt.Fprintln(w, "Error:", errors.UserMessage(err))
	if errors.IsInvariant(err) {
		fmt.Fprintln(w, "This is a bug in vesselgen; please report it with the command line used.")
	}
	return errors.ExitCode(err)
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeCancelled, err, "interrupted")
	}
	return err
}
