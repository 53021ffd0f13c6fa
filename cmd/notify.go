package cmd

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/store_service/infra/queue"
	"github.com/SundayYogurt/store_service/internal/api/events"
	"github.com/SundayYogurt/store_service/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consume store events and send notification emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.KafkaBroker == "" {
			return errors.New("KAFKA_BROKER is required")
		}
		if cfg.MailFrom == "" {
			return errors.New("MAIL_FROM is required")
		}

		slog.Info("mail notifier starting",
			"broker", cfg.KafkaBroker,
			"topic", cfg.KafkaTopic,
			"group_id", cfg.KafkaGroupID,
		)

		// ---------- Init Service ----------
		mailService := services.NewMailService(services.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		})

		// ---------- Init Handler ----------
		handler := events.NewMailHandler(mailService)

		// ---------- Init Kafka Consumer ----------
		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
			handler,
		)
		if notifyRate > 0 {
			consumer.Limiter = rate.NewLimiter(rate.Limit(notifyRate), 1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("mail notifier listening for events")
		return consumer.Listen(ctx)
	},
}

var notifyRate float64

func init() {
	notifyCmd.Flags().Float64Var(&notifyRate, "rate", 5, "maximum emails sent per second (0 disables the limit)")
	rootCmd.AddCommand(notifyCmd)
}
