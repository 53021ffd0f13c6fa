package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"time"

	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"golang.org/x/time/rate"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
	// Limiter paces calls to Handler when set.
	Limiter *rate.Limiter
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "store-notifier",
	}
}

// Listen feeds messages to the handler until ctx is cancelled. Handler
// errors are logged and the message is committed anyway.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	log := slog.With("consumer", kc.ServiceName)

	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return kc.Reader.Close()
			}
			log.Error("read message", "error", err)
			select {
			case <-ctx.Done():
				return kc.Reader.Close()
			case <-time.After(time.Second):
			}
			continue
		}

		log.Debug("received message", "key", string(msg.Key), "offset", msg.Offset)

		if kc.Limiter != nil {
			if err := kc.Limiter.Wait(ctx); err != nil {
				return kc.Reader.Close()
			}
		}

		if err := kc.Handler.HandleMessage(msg.Key, msg.Value); err != nil {
			log.Error("handle message", "key", string(msg.Key), "error", err)
		}
	}
}
