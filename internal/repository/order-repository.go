package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
	FindOrderById(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	ListOrders(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]domain.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, actorID uuid.UUID) (*domain.Order, bool, error)
	ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]domain.AuditLog, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// PlaceOrder reserves stock for every item and inserts the order in one
// transaction. A line that cannot be reserved aborts the whole order with a
// *StockError and leaves stock untouched.
func (r *orderRepository) PlaceOrder(ctx context.Context, order *domain.Order) error {
	if order == nil || len(order.Items) == 0 {
		return errors.New("order has no items")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, item := range order.Items {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND is_active = ? AND stock >= ?", item.ProductID, true, item.Quantity).
				UpdateColumns(map[string]interface{}{
					"stock":      gorm.Expr("stock - ?", item.Quantity),
					"in_stock":   gorm.Expr("stock - ? > 0", item.Quantity),
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return stockError(tx, item)
			}
		}
		return tx.Create(order).Error
	})

	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return stockErr
	}
	return translate("place order", err)
}

func stockError(tx *gorm.DB, item domain.OrderItem) error {
	var p domain.Product
	err := tx.Where("id = ? AND is_active = ?", item.ProductID, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StockError{ProductID: item.ProductID, Missing: true}
	}
	if err != nil {
		return err
	}
	return &StockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
}

// withDetails loads the buyer and the current product behind each line.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Items.Product")
}

func (r *orderRepository) FindOrderById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order := &domain.Order{}
	if err := withDetails(r.db.WithContext(ctx)).First(order, "id = ?", id).Error; err != nil {
		return nil, translate("find order", err)
	}
	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := withDetails(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate("list user orders", err)
	}
	return orders, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count orders", err)
	}

	var orders []domain.Order
	err := withDetails(q).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate("list orders", err)
	}
	return orders, total, nil
}

// UpdateOrderStatus moves the order to status when the transition is allowed
// and reports whether anything changed. Cancelling puts the reserved stock
// back; delivering stamps the delivery time. A change made by actorID is
// written to the audit log in the same transaction.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, actorID uuid.UUID) (*domain.Order, bool, error) {
	changed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
		if err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		if !order.Status.CanTransitionTo(status) {
			return &TransitionError{From: order.Status, To: status}
		}

		now := time.Now()
		if status == domain.OrderStatusCancelled {
			var items []domain.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				err := tx.Model(&domain.Product{}).Where("id = ?", item.ProductID).
					UpdateColumns(map[string]interface{}{
						"stock":      gorm.Expr("stock + ?", item.Quantity),
						"in_stock":   true,
						"updated_at": now,
					}).Error
				if err != nil {
					return err
				}
			}
		}

		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		if status == domain.OrderStatusDelivered {
			updates["is_delivered"] = true
			updates["delivered_at"] = now
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", order.ID).UpdateColumns(updates).Error; err != nil {
			return err
		}

		if actorID != uuid.Nil {
			note := string(order.Status) + " -> " + string(status)
			entry := &domain.AuditLog{
				ActorID:  actorID,
				Action:   domain.AuditActionOrderStatus,
				Entity:   domain.AuditEntityOrder,
				EntityID: order.ID,
				Note:     &note,
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		changed = true
		return nil
	})

	var transitionErr *TransitionError
	if errors.As(err, &transitionErr) {
		return nil, false, transitionErr
	}
	if err != nil {
		return nil, false, translate("update order status", err)
	}

	order, err := r.FindOrderById(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}

// ListOrderHistory returns the audit entries of an order, oldest first.
func (r *orderRepository) ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]domain.AuditLog, error) {
	entries := []domain.AuditLog{}
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", domain.AuditEntityOrder, orderID).
		Order("created_at ASC").Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, translate("list order history", err)
	}
	return entries, nil
}
