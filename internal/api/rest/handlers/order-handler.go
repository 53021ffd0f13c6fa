package handlers

import (
	"github.com/SundayYogurt/store_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/SundayYogurt/store_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const msgOrderNotFound = "Order not found"

type OrderHandler struct {
	svc       services.OrderService
	auth      *middleware.Authenticator
	validator *helper.Validator
}

func NewOrderHandler(svc services.OrderService, auth *middleware.Authenticator, validator *helper.Validator) *OrderHandler {
	return &OrderHandler{svc: svc, auth: auth, validator: validator}
}

func (h *OrderHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	orders := api.Group("/orders")
	orders.Post("/", h.auth.Require(h.CreateOrder))
	orders.Get("/my-orders", h.auth.Require(h.ListMyOrders))
	orders.Get("/:id", h.auth.Require(h.GetOrder))

	// Admin
	orders.Put("/:id/status", h.auth.RequireAdmin(h.UpdateStatus))
	orders.Get("/:id/history", h.auth.RequireAdmin(h.OrderHistory))
	orders.Get("/", h.auth.RequireAdmin(h.ListOrders))
}

func (h *OrderHandler) CreateOrder(ctx *fiber.Ctx, user *domain.User) error {
	var requestBody dto.CreateOrderRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	order, err := h.svc.CreateOrder(ctx.UserContext(), user, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(ctx *fiber.Ctx, user *domain.User) error {
	orders, err := h.svc.ListMyOrders(ctx.UserContext(), user)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(ctx *fiber.Ctx, user *domain.User) error {
	id, err := paramID(ctx, "id", msgOrderNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	order, err := h.svc.GetOrder(ctx.UserContext(), user, id)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(ctx *fiber.Ctx, admin *domain.User) error {
	id, err := paramID(ctx, "id", msgOrderNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	var requestBody dto.UpdateOrderStatusRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	order, err := h.svc.UpdateStatus(ctx.UserContext(), admin, id, domain.OrderStatus(requestBody.Status))
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, order)
}

func (h *OrderHandler) ListOrders(ctx *fiber.Ctx, _ *domain.User) error {
	q := dto.DefaultOrderQuery()
	if err := bindQuery(ctx, h.validator, &q); err != nil {
		return utils.ResponseError(ctx, err)
	}

	res, err := h.svc.ListOrders(ctx.UserContext(), q)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *OrderHandler) OrderHistory(ctx *fiber.Ctx, _ *domain.User) error {
	id, err := paramID(ctx, "id", msgOrderNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	history, err := h.svc.OrderHistory(ctx.UserContext(), id)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, history)
}
