package dto

// Event keys published on the store topic.
const (
	EventUserRegistered     = "user.registered"
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type UserRegisteredEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type OrderEventItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderCreatedEvent struct {
	OrderID string           `json:"orderId"`
	UserID  string           `json:"userId"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Total   float64          `json:"total"`
	Items   []OrderEventItem `json:"items"`
}

type OrderStatusChangedEvent struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Status  string `json:"status"`
}
