package main

import (
	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive calculator",
	Long: `Reads keys from stdin and prints the display after every line.
Type help for the keypad and quit to leave.

With --json every line of output is a JSON object, and input may be a JSON
string or {"keys": "..."}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		asJSON, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Run(ctx, app, cli.RunOptions{
			SessionID: sessionID,
			JSON:      asJSON,
			Fresh:     fresh,
			Ephemeral: ephemeral,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("session", "s", "", "Session ID to resume (a new one is generated when empty)")
	cmd.Flags().Bool("json", false, "Use NDJSON for input and output")
	cmd.Flags().Bool("fresh", false, "Clear the session before starting")
	cmd.Flags().Bool("ephemeral", false, "Do not persist anything")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}
