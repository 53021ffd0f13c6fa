package utils

import (
	"errors"

	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/gofiber/fiber/v2"
)

// ResponseError answers with the status mapped from err. Errors that are not
// apperr kinds are handed to the app's ErrorHandler, which hides the detail
// outside development.
func ResponseError(ctx *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code == apperr.ErrCodeInternal {
		return err
	}

	body := fiber.Map{"message": appErr.Message}
	if appErr.Code == apperr.ErrCodeValidation && appErr.Cause != nil {
		body["details"] = appErr.Cause.Error()
	}
	return ctx.Status(apperr.HTTPStatus(appErr)).JSON(body)
}

func ResponseMessage(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(data)
}
