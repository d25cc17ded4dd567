package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vidfriends/webclient/internal/config"
	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/ui"
)

// ErrActionFailed reports that a command ran but the user-facing outcome was
// a failure. The message has already been printed.
var ErrActionFailed = errors.New("action failed")

// Run bootstraps the VidFriends client.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// cli carries per-invocation state shared by the commands.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logger  *slog.Logger
	deps    *dependencies
	cleanup func()
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{in: in, out: out, errOut: errOut}
	defer c.close()

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vidclient",
		Short:         "Client for the VidFriends video sharing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	root.AddCommand(
		c.serveCommand(),
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.uploadCommand(),
		c.feedCommand(),
		c.watchCommand(),
		c.statusCommand(),
	)
	return root
}

// setup loads configuration, installs the logger and wires dependencies.
// Each command invocation is one user action.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	actionID := uuid.NewString()
	c.logger = logging.New(c.errOut, cfg.LogLevel).With(
		slog.String("action_id", actionID),
		slog.String("command", cmd.Name()),
	)
	slog.SetDefault(c.logger)

	ctx := logging.WithLogger(cmd.Context(), c.logger)
	ctx = logging.WithActionID(ctx, actionID)
	cmd.SetContext(ctx)

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	c.deps = deps
	c.cleanup = cleanup
	return nil
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

// report prints an outcome and maps failures onto ErrActionFailed.
func (c *cli) report(out ui.Outcome) error {
	if out.Message != "" {
		fmt.Fprintln(c.out, out.Message)
	}
	if !out.Success {
		return ErrActionFailed
	}
	return nil
}
