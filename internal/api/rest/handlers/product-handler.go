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

const msgProductNotFound = "Product not found"

type ProductHandler struct {
	svc       services.ProductService
	auth      *middleware.Authenticator
	validator *helper.Validator
}

func NewProductHandler(svc services.ProductService, auth *middleware.Authenticator, validator *helper.Validator) *ProductHandler {
	return &ProductHandler{svc: svc, auth: auth, validator: validator}
}

func (h *ProductHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", h.ListProducts)
	// static paths before /:id
	products.Get("/categories/list", h.ListCategories)
	products.Post("/images", h.auth.RequireAdmin(h.UploadImage))
	products.Get("/:id", h.GetProduct)

	products.Post("/", h.auth.RequireAdmin(h.CreateProduct))
	products.Put("/:id", h.auth.RequireAdmin(h.UpdateProduct))
	products.Delete("/:id", h.auth.RequireAdmin(h.DeleteProduct))
}

func (h *ProductHandler) ListProducts(ctx *fiber.Ctx) error {
	q := dto.DefaultProductQuery()
	if err := bindQuery(ctx, h.validator, &q); err != nil {
		return utils.ResponseError(ctx, err)
	}

	res, err := h.svc.ListProducts(ctx.UserContext(), q)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *ProductHandler) ListCategories(ctx *fiber.Ctx) error {
	categories, err := h.svc.ListCategories(ctx.UserContext())
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, categories)
}

func (h *ProductHandler) GetProduct(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id", msgProductNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	product, err := h.svc.GetProduct(ctx.UserContext(), id)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(ctx *fiber.Ctx, _ *domain.User) error {
	var requestBody dto.CreateProductRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	product, err := h.svc.CreateProduct(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(ctx *fiber.Ctx, _ *domain.User) error {
	id, err := paramID(ctx, "id", msgProductNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	var requestBody dto.UpdateProductRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	product, err := h.svc.UpdateProduct(ctx.UserContext(), id, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(ctx *fiber.Ctx, _ *domain.User) error {
	id, err := paramID(ctx, "id", msgProductNotFound)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	if err := h.svc.DeleteProduct(ctx.UserContext(), id); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseMessage(ctx, fiber.StatusOK, "Product deleted successfully")
}
