package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/tally/pkg/runner"
)

// ListSessions prints one session id per line.
func ListSessions(ctx context.Context, app *App, w io.Writer) error {
	ids, err := app.Sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

// InspectSession prints the stored state as indented JSON.
func InspectSession(ctx context.Context, app *App, id string, w io.Writer) error {
	state, err := app.Sessions.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", id, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runner.NewView(id, state))
}

// RemoveSession deletes the session. Removing a missing session is not an error.
func RemoveSession(ctx context.Context, app *App, id string, w io.Writer) error {
	if err := app.Sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove session %s: %w", id, err)
	}
	fmt.Fprintf(w, "Session '%s' removed.\n", id)
	return nil
}
