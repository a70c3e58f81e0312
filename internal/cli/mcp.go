package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/tally"
	tallymcp "github.com/aretw0/tally/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the calculator as MCP tools.
// On stdio nothing but protocol frames may reach stdout, so the logger
// must already point at stderr.
func ServeMCP(ctx context.Context, app *App, transport, port string) error {
	srv := tallymcp.NewServer(app.Engine, app.Sessions, tally.Version, tallymcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio, "":
		return srv.ServeStdio()
	case TransportSSE:
		addr := ":" + port
		return srv.ServeSSE(ctx, addr, fmt.Sprintf("http://localhost:%s", port))
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", transport, TransportStdio, TransportSSE)
	}
}
