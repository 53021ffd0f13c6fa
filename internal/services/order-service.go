package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/google/uuid"
)

type OrderService interface {
	CreateOrder(ctx context.Context, user *domain.User, input dto.CreateOrderRequest) (*domain.Order, error)
	ListMyOrders(ctx context.Context, user *domain.User) ([]domain.Order, error)
	GetOrder(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Order, error)

	// Admin
	UpdateStatus(ctx context.Context, actor *domain.User, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	ListOrders(ctx context.Context, q dto.OrderQuery) (*dto.OrderListResponse, error)
	OrderHistory(ctx context.Context, id uuid.UUID) ([]domain.AuditLog, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	producer interfaces.ProducerHandler
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	producer interfaces.ProducerHandler,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		producer: producer,
	}
}

// CreateOrder prices the requested lines at current catalog prices and
// places the order. Stock is reserved atomically with the insert.
func (s *orderService) CreateOrder(ctx context.Context, user *domain.User, input dto.CreateOrderRequest) (*domain.Order, error) {
	if len(input.Items) == 0 {
		orderRejections.WithLabelValues(rejectNoItems).Inc()
		return nil, apperr.Validation("No order items provided")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, it.Product)
	}
	products, err := s.products.FindActiveProductsByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		p, ok := products[it.Product]
		if !ok {
			orderRejections.WithLabelValues(rejectMissing).Inc()
			return nil, apperr.Validation(fmt.Sprintf("Product %s not found", it.Product))
		}
		if p.Stock < it.Quantity {
			orderRejections.WithLabelValues(rejectInsufficient).Inc()
			return nil, insufficientStock(p.Name, p.Stock)
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Image:     p.Image,
		})
	}

	order := &domain.Order{
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: input.ShippingAddress.ToDomain(),
		PaymentMethod:   input.PaymentMethod,
		Status:          domain.OrderStatusPending,
	}
	ComputeTotals(items).Apply(order)

	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		var stockErr *repository.StockError
		if errors.As(err, &stockErr) {
			if stockErr.Missing {
				orderRejections.WithLabelValues(rejectMissing).Inc()
				return nil, apperr.Validation(fmt.Sprintf("Product %s not found", stockErr.ProductID))
			}
			orderRejections.WithLabelValues(rejectInsufficient).Inc()
			return nil, insufficientStock(stockErr.Name, stockErr.Available)
		}
		return nil, err
	}
	ordersPlaced.Inc()
	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "user_id", user.ID, "total", order.Total)

	publish(s.producer, dto.EventOrderCreated, dto.OrderCreatedEvent{
		OrderID: order.ID.String(),
		UserID:  user.ID.String(),
		Email:   user.Email,
		Name:    user.Name,
		Total:   order.Total,
		Items:   eventItems(order.Items),
	})
	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// GetOrder returns the order to its owner or to an admin.
func (s *orderService) GetOrder(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, apperr.Forbidden("Access denied")
	}
	return order, nil
}

// ADMIN
func (s *orderService) UpdateStatus(ctx context.Context, actor *domain.User, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid order status %q", status))
	}

	actorID := uuid.Nil
	if actor != nil {
		actorID = actor.ID
	}
	order, changed, err := s.orders.UpdateOrderStatus(ctx, id, status, actorID)
	if err != nil {
		var transitionErr *repository.TransitionError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("Order not found")
		case errors.As(err, &transitionErr):
			return nil, apperr.Wrap(apperr.ErrCodeValidation, "Invalid status transition", transitionErr)
		}
		return nil, err
	}

	if changed {
		slog.InfoContext(ctx, "order status changed", "order_id", order.ID, "status", order.Status)
		ev := dto.OrderStatusChangedEvent{
			OrderID: order.ID.String(),
			UserID:  order.UserID.String(),
			Status:  string(order.Status),
		}
		if order.User != nil {
			ev.Email = order.User.Email
			ev.Name = order.User.Name
		}
		publish(s.producer, dto.EventOrderStatusChanged, ev)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, q dto.OrderQuery) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.ListOrders(ctx, domain.OrderStatus(q.Status), (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	return &dto.OrderListResponse{
		Orders:      orders,
		TotalPages:  totalPages(total, q.Limit),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

// OrderHistory lists the recorded status changes of an order.
func (s *orderService) OrderHistory(ctx context.Context, id uuid.UUID) ([]domain.AuditLog, error) {
	if _, err := s.findOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.ListOrderHistory(ctx, id)
}

func (s *orderService) findOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindOrderById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return order, nil
}

func insufficientStock(name string, available int) error {
	return apperr.Validation(fmt.Sprintf("Insufficient stock for %s. Available: %d", name, available))
}

func eventItems(items []domain.OrderItem) []dto.OrderEventItem {
	out := make([]dto.OrderEventItem, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderEventItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return out
}
