/*
Package runner implements the interactive loop and I/O orchestration for tally.

It acts as the bridge between the calculator (any ports.KeyApplier) and the
outside world. The runner reads lines of keys through a pluggable IOHandler,
applies them, optionally persists the result through a session.Manager and
prints the new display.

# Key Components

  - Runner: reads, applies and prints until EOF, "quit" or cancellation.
  - IOHandler: decouples how lines are read and how the display is shown.
  - TextHandler: an aligned, colored display for terminals.
  - JSONHandler: newline-delimited JSON for scripts and pipes.
  - SanitizeInput: the input policy shared with the HTTP and MCP adapters.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(tally.New()),
		runner.WithSessions(session.NewManager(memory.NewStore())),
		runner.WithSessionID("desk"),
	)

	if _, err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
