package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3005/api"

// newRootCommand creates the rentledger command tree.
func newRootCommand() *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "rentledger",
		Short: "Rental property ledger: tenants, rent payments and expenses",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURLFromEnv(), "API base URL (env RENTLEDGER_API_URL)")

	client := func() *apiClient { return newAPIClient(apiURL) }

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSummaryCommand(client),
		newMonthsCommand(client),
		newMissingCommand(client),
		newTenantsCommand(client),
	)
	return rootCmd
}

func apiURLFromEnv() string {
	if url := os.Getenv("RENTLEDGER_API_URL"); url != "" {
		return url
	}
	return defaultAPIURL
}
