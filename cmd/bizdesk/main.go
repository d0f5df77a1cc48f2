// Command bizdesk is a command-line client for the bizdesk API.
package main

import (
	"os"

	"bizdesk/internal/apiclient"
	"bizdesk/internal/config"
	"bizdesk/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	var (
		baseURL string
		apiKey  string
		retries uint64
	)
	root := &cobra.Command{
		Use:           "bizdesk",
		Short:         "Browse and manage bizdesk data from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup("cli", cfg.Log.Level)
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", cfg.Client.BaseURL, "API base URL (API_BASE_URL)")
	root.PersistentFlags().StringVar(&apiKey, "api-key", cfg.Client.APIKey, "tenant API key (API_KEY)")
	root.PersistentFlags().Uint64Var(&retries, "retries", 3, "retries for transient failures")

	newClient := func() *apiclient.Client {
		return apiclient.New(baseURL, apiKey, apiclient.WithMaxRetries(retries))
	}
	root.AddCommand(newListCmd(newClient), newCaptureCmd(newClient))
	return root
}

func main() {
	config.LoadDotenv()
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
