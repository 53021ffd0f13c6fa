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

type UserHandler struct {
	svc       services.AuthService
	auth      *middleware.Authenticator
	validator *helper.Validator
}

func NewUserHandler(svc services.AuthService, auth *middleware.Authenticator, validator *helper.Validator) *UserHandler {
	return &UserHandler{svc: svc, auth: auth, validator: validator}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// =========================
	// USER
	// =========================
	user := api.Group("/users")
	user.Get("/profile", h.auth.Require(h.GetProfile))
	user.Put("/profile", h.auth.Require(h.UpdateProfile))
}

func (h *UserHandler) GetProfile(ctx *fiber.Ctx, user *domain.User) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user": dto.NewMeResponse(user),
	})
}

func (h *UserHandler) UpdateProfile(ctx *fiber.Ctx, user *domain.User) error {
	var requestBody dto.UpdateUserProfile
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	updated, err := h.svc.UpdateProfile(ctx.UserContext(), user.ID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user": dto.NewMeResponse(updated),
	})
}
