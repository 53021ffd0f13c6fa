package cmd

import (
	"fmt"
	"os"

	"github.com/SundayYogurt/store_service/config"
	"github.com/SundayYogurt/store_service/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "store",
	Short: "Store backend: HTTP API, database seeding and email notifications",
	Long: `store runs the e-commerce backend.

  serve   start the HTTP API
  seed    create the first admin and the sample catalog
  notify  consume store events from Kafka and send emails

Settings are read from the environment (and a .env file outside production).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadConfig()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logging.SetDefault("store-"+cmd.Name(), cfg.LogLevel)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
}
