package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
)

// HelpText is shown for the "help" command.
const HelpText = `# Tally

Type keys separated by spaces and press Enter.

| Key | Action |
| --- | --- |
| ` + "`0`..`9`, `00`" + ` | digits |
| ` + "`.`" + ` | decimal point |
| ` + "`+` `-` `×` `÷`" + ` | operators |
| ` + "`=`" + ` | calculate |
| ` + "`AC`" + ` | clear all (also clears an error) |
| ` + "`CE`" + ` | clear entry |
| ` + "`BS`" + ` | backspace |

Numerals such as ` + "`12.5`" + ` are typed digit by digit.
Commands: ` + "`help`, `state`, `quit`" + `.
`

// Runner drives a calculator from an IOHandler, one line of keys at a time.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Sessions persists the state after every line. If nil, or if
	// SessionID is empty, the calculator is ephemeral.
	Sessions  *session.Manager
	SessionID string

	Input  io.Reader
	Output io.Writer

	engine       ports.KeyApplier
	initialState *domain.State
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, "quit" or cancellation and returns the last state.
// Cancellation is a normal way to stop and is not reported as an error.
func (r *Runner) Run(ctx context.Context) (*domain.State, error) {
	if r.engine == nil {
		return nil, errors.New("runner: no engine configured")
	}
	handler := r.resolveHandler()

	state, err := r.resolveInitialState(ctx)
	if err != nil {
		return nil, err
	}

	if err := handler.Output(ctx, NewView(r.SessionID, state)); err != nil {
		return state, fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return state, nil
			case ctx.Err() != nil:
				r.Logger.Debug("Runner input: Context cancelled", "err", ctx.Err())
				return state, nil
			case errors.Is(err, ErrInputTooLarge), errors.Is(err, ErrInvalidUTF8):
				if err := handler.SystemOutput(ctx, fmt.Sprintf("Error: %v", err)); err != nil {
					return state, err
				}
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return state, nil
		case "help", "?":
			if err := handler.SystemOutput(ctx, HelpText); err != nil {
				return state, err
			}
			continue
		case "state":
			if err := handler.Output(ctx, NewView(r.SessionID, state)); err != nil {
				return state, fmt.Errorf("output error: %w", err)
			}
			continue
		}

		keys, err := domain.ParseKeys(line)
		if err != nil {
			r.Logger.Debug("Runner input: Line rejected", "err", err)
			if err := handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Type help for the keypad.", err)); err != nil {
				return state, err
			}
			continue
		}

		next, err := r.apply(ctx, state, keys)
		if err != nil {
			if ctx.Err() != nil {
				return state, nil
			}
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		state = next

		if err := handler.Output(ctx, NewView(r.SessionID, state)); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) persistent() bool {
	return r.Sessions != nil && r.SessionID != ""
}

func (r *Runner) apply(ctx context.Context, state *domain.State, keys []domain.Key) (*domain.State, error) {
	if !r.persistent() {
		return r.engine.Apply(ctx, state, keys...)
	}

	next, err := r.Sessions.Update(ctx, r.SessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return r.engine.Apply(ctx, current, keys...)
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "phase", next.Phase())
	return next, nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		// Memoized so a second Run reuses the same input pump.
		r.Handler = NewTextHandler(r.Input, r.Output)
	}
	return r.Handler
}

func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, error) {
	if r.initialState != nil {
		return r.initialState.Snapshot(), nil
	}
	if !r.persistent() {
		return domain.NewState(), nil
	}

	state, err := r.Sessions.LoadOrStart(ctx, r.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
	}
	return state, nil
}
