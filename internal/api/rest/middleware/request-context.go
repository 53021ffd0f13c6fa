package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext gives every request a UserContext that expires after
// timeout and is cancelled once the handler chain returns. Services and
// repositories receive it through ctx.UserContext().
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		reqCtx, cancel := context.WithTimeout(ctx.UserContext(), timeout)
		defer cancel()

		ctx.SetUserContext(reqCtx)
		return ctx.Next()
	}
}
