package handlers

import (
	"errors"

	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = errors.New("request body must be valid JSON")

// bindJSON parses the body into v and runs the struct rules.
func bindJSON(ctx *fiber.Ctx, val *helper.Validator, v any) error {
	if err := ctx.BodyParser(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeValidation, "Validation error", errInvalidBody)
	}
	return val.Struct(v)
}

// bindQuery overlays the query string on v, which already carries defaults.
func bindQuery(ctx *fiber.Ctx, val *helper.Validator, v any) error {
	if err := ctx.QueryParser(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeValidation, "Validation error", err)
	}
	return val.Struct(v)
}

// paramID reads a uuid path parameter. A malformed id cannot name a stored
// row, so it is reported with notFound.
func paramID(ctx *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}
