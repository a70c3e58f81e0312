package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
)

// EvalOptions configures a one-shot evaluation.
type EvalOptions struct {
	// SessionID applies the keys to a stored session instead of a fresh one.
	SessionID string
	JSON      bool
	Out       io.Writer
}

// Eval applies tokens and prints the display, or the full view as JSON.
func Eval(ctx context.Context, app *App, tokens []string, opts EvalOptions) (*domain.State, error) {
	clean, err := runner.SanitizeInput(strings.Join(tokens, " "))
	if err != nil {
		return nil, err
	}
	keys, err := domain.ParseKeys(clean)
	if err != nil {
		return nil, err
	}

	var state *domain.State
	if opts.SessionID == "" {
		state, err = app.Engine.Apply(ctx, domain.NewState(), keys...)
	} else {
		state, err = app.Sessions.Update(ctx, opts.SessionID, func(ctx context.Context, s *domain.State) (*domain.State, error) {
			return app.Engine.Apply(ctx, s, keys...)
		})
	}
	if err != nil {
		return nil, err
	}

	if opts.Out != nil {
		if err := printState(opts.Out, opts.SessionID, state, opts.JSON); err != nil {
			return state, err
		}
	}
	return state, nil
}

func printState(w io.Writer, sessionID string, state *domain.State, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(runner.NewView(sessionID, state))
	}
	_, err := fmt.Fprintln(w, state.Output())
	return err
}
