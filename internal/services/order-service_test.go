package services

import (
	"context"
	"testing"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/testutil"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderEnv struct {
	db       *gorm.DB
	svc      OrderService
	producer *fakeProducer
	buyer    *domain.User
	admin    *domain.User
	mouse    *domain.Product
	cable    *domain.Product
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	db := testutil.NewDB(t)
	producer := &fakeProducer{}
	return &orderEnv{
		db:       db,
		svc:      NewOrderService(repository.NewOrderRepository(db), repository.NewProductRepository(db), producer),
		producer: producer,
		buyer:    testutil.CreateUser(t, db, "buyer@example.com", domain.RoleUser),
		admin:    testutil.CreateUser(t, db, "admin@example.com", domain.RoleAdmin),
		mouse:    testutil.CreateProduct(t, db, testutil.Product("Mouse", 30, 5)),
		cable:    testutil.CreateProduct(t, db, testutil.Product("Cable", 20, 10)),
	}
}

func (e *orderEnv) request(items ...dto.OrderItemInput) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: items,
		ShippingAddress: dto.ShippingAddressInput{
			FullName: "Buyer", Street: "1 Main St", City: "Town", ZipCode: "10000", Country: "TH",
		},
		PaymentMethod: "card",
	}
}

func (e *orderEnv) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func TestOrderService_CreateOrderTotals(t *testing.T) {
	e := newOrderEnv(t)

	order, err := e.svc.CreateOrder(context.Background(), e.buyer, e.request(
		dto.OrderItemInput{Product: e.mouse.ID, Quantity: 2},
		dto.OrderItemInput{Product: e.cable.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, 80.0, order.Subtotal)
	assert.Equal(t, 6.4, order.Tax)
	assert.Equal(t, 10.0, order.Shipping)
	assert.Equal(t, 96.4, order.Total)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "Mouse", order.Items[0].Name)

	assert.Equal(t, 3, e.stock(t, e.mouse.ID))
	assert.Equal(t, 9, e.stock(t, e.cable.ID))

	var ev dto.OrderCreatedEvent
	e.producer.decodeLast(t, &ev)
	assert.Equal(t, order.ID.String(), ev.OrderID)
	assert.Equal(t, "buyer@example.com", ev.Email)
	assert.Equal(t, 96.4, ev.Total)
	assert.Len(t, ev.Items, 2)
}

func TestOrderService_FreeShipping(t *testing.T) {
	e := newOrderEnv(t)

	order, err := e.svc.CreateOrder(context.Background(), e.buyer, e.request(
		dto.OrderItemInput{Product: e.mouse.ID, Quantity: 4},
	))
	require.NoError(t, err)
	assert.Equal(t, 120.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Shipping)
}

func TestOrderService_Rejections(t *testing.T) {
	e := newOrderEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateOrder(ctx, e.buyer, e.request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No order items provided")

	_, err = e.svc.CreateOrder(ctx, e.buyer, e.request(dto.OrderItemInput{Product: e.mouse.ID, Quantity: 6}))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Mouse. Available: 5")

	missing := uuid.New()
	_, err = e.svc.CreateOrder(ctx, e.buyer, e.request(dto.OrderItemInput{Product: missing, Quantity: 1}))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
	assert.Contains(t, err.Error(), missing.String())

	// the same product twice exceeds stock only in aggregate
	_, err = e.svc.CreateOrder(ctx, e.buyer, e.request(
		dto.OrderItemInput{Product: e.mouse.ID, Quantity: 3},
		dto.OrderItemInput{Product: e.mouse.ID, Quantity: 3},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock for Mouse. Available: 2")

	assert.Equal(t, 5, e.stock(t, e.mouse.ID))
	var n int64
	require.NoError(t, e.db.Model(&domain.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, e.producer.keys())
}

func TestOrderService_GetOrderOwnership(t *testing.T) {
	e := newOrderEnv(t)
	ctx := context.Background()

	order, err := e.svc.CreateOrder(ctx, e.buyer, e.request(dto.OrderItemInput{Product: e.cable.ID, Quantity: 1}))
	require.NoError(t, err)

	got, err := e.svc.GetOrder(ctx, e.buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = e.svc.GetOrder(ctx, e.admin, order.ID)
	require.NoError(t, err)

	stranger := testutil.CreateUser(t, e.db, "stranger@example.com", domain.RoleUser)
	_, err = e.svc.GetOrder(ctx, stranger, order.ID)
	assert.True(t, apperr.Is(err, apperr.ErrCodeForbidden))

	_, err = e.svc.GetOrder(ctx, e.buyer, uuid.New())
	assert.True(t, apperr.Is(err, apperr.ErrCodeNotFound))

	mine, err := e.svc.ListMyOrders(ctx, stranger)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	e := newOrderEnv(t)
	ctx := context.Background()

	order, err := e.svc.CreateOrder(ctx, e.buyer, e.request(dto.OrderItemInput{Product: e.mouse.ID, Quantity: 2}))
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(ctx, e.admin, order.ID, "lost")
	assert.True(t, apperr.Is(err, apperr.ErrCodeValidation))

	_, err = e.svc.UpdateStatus(ctx, e.admin, order.ID, domain.OrderStatusShipped)
	assert.True(t, apperr.Is(err, apperr.ErrCodeValidation))

	updated, err := e.svc.UpdateStatus(ctx, e.admin, order.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)

	var ev dto.OrderStatusChangedEvent
	e.producer.decodeLast(t, &ev)
	assert.Equal(t, "processing", ev.Status)
	assert.Equal(t, "buyer@example.com", ev.Email)

	// no-op does not publish again
	before := len(e.producer.keys())
	_, err = e.svc.UpdateStatus(ctx, e.admin, order.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Len(t, e.producer.keys(), before)

	_, err = e.svc.UpdateStatus(ctx, e.admin, order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, e.stock(t, e.mouse.ID))

	_, err = e.svc.UpdateStatus(ctx, e.admin, uuid.New(), domain.OrderStatusShipped)
	assert.True(t, apperr.Is(err, apperr.ErrCodeNotFound))

	history, err := e.svc.OrderHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, e.admin.ID, history[1].ActorID)
	assert.Equal(t, "processing -> cancelled", *history[1].Note)

	_, err = e.svc.OrderHistory(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.ErrCodeNotFound))
}

func TestOrderService_ListOrders(t *testing.T) {
	e := newOrderEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.svc.CreateOrder(ctx, e.buyer, e.request(dto.OrderItemInput{Product: e.cable.ID, Quantity: 1}))
		require.NoError(t, err)
	}

	q := dto.DefaultOrderQuery()
	q.Limit = 2
	res, err := e.svc.ListOrders(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Orders, 2)
	require.NotNil(t, res.Orders[0].User)
	assert.Equal(t, "buyer@example.com", res.Orders[0].User.Email)

	q.Status = "shipped"
	res, err = e.svc.ListOrders(ctx, q)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.NotNil(t, res.Orders)

	mine, err := e.svc.ListMyOrders(ctx, e.buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}
