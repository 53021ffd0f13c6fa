package handlers

import (
	"time"

	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

func HealthCheck(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
	})
}
