package services

import (
	"encoding/json"
	"log/slog"

	"github.com/SundayYogurt/store_service/internal/interfaces"
)

// publish sends a best-effort event; failures are logged and swallowed.
func publish(producer interfaces.ProducerHandler, key string, payload any) {
	if producer == nil {
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event", "key", key, "error", err)
		return
	}
	if err := producer.PublishMessage([]byte(key), value); err != nil {
		slog.Warn("publish event", "key", key, "error", err)
	}
}
