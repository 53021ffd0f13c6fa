package cmd

import (
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/store_service/internal/api"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveFlags.addr != "" {
			cfg.ServerPort = serveFlags.addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return api.StartServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.addr, "listen", "l", "", "override SERVER_PORT (e.g. :8080)")
}
