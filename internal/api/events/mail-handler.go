package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SundayYogurt/store_service/internal/dto"
)

// Mailer sends the notification emails for store events.
type Mailer interface {
	SendWelcome(ev dto.UserRegisteredEvent) error
	SendOrderConfirmation(ev dto.OrderCreatedEvent) error
	SendStatusUpdate(ev dto.OrderStatusChangedEvent) error
}

// MailHandler turns store events read from Kafka into emails.
type MailHandler struct {
	Mailer Mailer
}

func NewMailHandler(m Mailer) *MailHandler {
	return &MailHandler{Mailer: m}
}

// HandleMessage dispatches on the event key. Keys without an email are
// skipped.
func (h *MailHandler) HandleMessage(key, value []byte) error {
	switch string(key) {
	case dto.EventUserRegistered:
		var ev dto.UserRegisteredEvent
		if err := decode(key, value, &ev); err != nil {
			return err
		}
		slog.Info("user registered event received", "user_id", ev.UserID)
		return h.Mailer.SendWelcome(ev)

	case dto.EventOrderCreated:
		var ev dto.OrderCreatedEvent
		if err := decode(key, value, &ev); err != nil {
			return err
		}
		slog.Info("order created event received", "order_id", ev.OrderID)
		return h.Mailer.SendOrderConfirmation(ev)

	case dto.EventOrderStatusChanged:
		var ev dto.OrderStatusChangedEvent
		if err := decode(key, value, &ev); err != nil {
			return err
		}
		slog.Info("order status event received", "order_id", ev.OrderID, "status", ev.Status)
		return h.Mailer.SendStatusUpdate(ev)

	default:
		slog.Debug("ignoring event", "key", string(key))
		return nil
	}
}

func decode(key, value []byte, v any) error {
	if err := json.Unmarshal(value, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", key, err)
	}
	return nil
}
