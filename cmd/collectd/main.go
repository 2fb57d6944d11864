// Command collectd serves the debt-collection backend-for-frontend and
// offers a few operational subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "collectd",
	Short: "Debt collection backend-for-frontend",
	Long: `collectd exposes the case, intake and admin flows of the collections
portal over HTTP and forwards them to the selected backend: the embedded
store (Supabase) or the external REST API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, pingCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
