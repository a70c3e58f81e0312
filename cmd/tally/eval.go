package main

import (
	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <keys...>",
	Short: "Press keys once and print the display",
	Example: `  tally eval 12 + 30 =
  tally eval --session desk "6 ×"
  tally eval --session desk 7 = --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		_, err = cli.Eval(cmd.Context(), app, args, cli.EvalOptions{
			SessionID: sessionID,
			JSON:      asJSON,
			Out:       cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("session", "s", "", "Apply the keys to a stored session")
	evalCmd.Flags().Bool("json", false, "Print the full state as JSON")
}
