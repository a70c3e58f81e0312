package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// RunOptions configures the interactive calculator.
type RunOptions struct {
	SessionID string
	JSON      bool
	Fresh     bool
	// Ephemeral skips persistence entirely.
	Ephemeral bool

	In  io.Reader
	Out io.Writer
}

// Run starts the REPL. A missing session id gets a fresh UUID so the
// session can be resumed later with --session.
func Run(ctx context.Context, app *App, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	interactive := !opts.JSON && IsTerminal(opts.Out)

	if !opts.Ephemeral && opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	if opts.Fresh && opts.SessionID != "" {
		if err := app.Sessions.Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", opts.SessionID, err)
		}
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if interactive {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	if interactive {
		tui.PrintBanner(opts.Out, tally.Version)
		if !opts.Ephemeral {
			fmt.Fprintf(opts.Out, ">>> Session '%s' active.\n", opts.SessionID)
		}
	}

	runOpts := []runner.Option{
		runner.WithEngine(app.Engine),
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	}
	if !opts.Ephemeral {
		runOpts = append(runOpts,
			runner.WithSessions(app.Sessions),
			runner.WithSessionID(opts.SessionID),
		)
	}

	state, err := runner.NewRunner(runOpts...).Run(ctx)
	if err != nil {
		return err
	}
	app.Logger.Info("Session finished", "session_id", opts.SessionID, "output", state.Output())
	return nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
