package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/SundayYogurt/store_service/internal/services"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// SessionUserKey is the session field holding the signed-in user's id.
const SessionUserKey = "user_id"

// ErrNoCredentials means the strategy found nothing to check, so the next one
// may try.
var ErrNoCredentials = errors.New("no credentials")

// Strategy resolves the caller of a request.
type Strategy interface {
	Name() string
	Authenticate(ctx *fiber.Ctx) (*domain.User, error)
}

// BearerStrategy reads a JWT from the Authorization header.
type BearerStrategy struct {
	svc services.AuthService
}

func NewBearerStrategy(svc services.AuthService) *BearerStrategy {
	return &BearerStrategy{svc: svc}
}

func (s *BearerStrategy) Name() string { return "bearer" }

func (s *BearerStrategy) Authenticate(ctx *fiber.Ctx) (*domain.User, error) {
	header := strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	if header == "" {
		return nil, ErrNoCredentials
	}
	return s.svc.Authenticate(ctx.UserContext(), header)
}

// SessionStrategy loads the user whose id was stored in the cookie session.
type SessionStrategy struct {
	store *session.Store
	svc   services.AuthService
}

func NewSessionStrategy(store *session.Store, svc services.AuthService) *SessionStrategy {
	return &SessionStrategy{store: store, svc: svc}
}

func (s *SessionStrategy) Name() string { return "session" }

func (s *SessionStrategy) Authenticate(ctx *fiber.Ctx) (*domain.User, error) {
	sess, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := sess.Get(SessionUserKey).(string)
	if !ok || raw == "" {
		return nil, ErrNoCredentials
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid session")
	}

	user, err := s.svc.GetUser(ctx.UserContext(), id)
	if apperr.Is(err, apperr.ErrCodeNotFound) {
		// account removed since the session was issued
		if err := sess.Destroy(); err != nil {
			slog.WarnContext(ctx.UserContext(), "destroy stale session", "user_id", id, "error", err)
		}
		return nil, apperr.Unauthorized("Invalid session")
	}
	return user, err
}

// HandlerWithUser is a route handler that receives the authenticated caller.
type HandlerWithUser func(ctx *fiber.Ctx, user *domain.User) error

// Authenticator tries its strategies in order. The first strategy that finds
// credentials decides the outcome.
type Authenticator struct {
	strategies []Strategy
}

func NewAuthenticator(strategies ...Strategy) *Authenticator {
	return &Authenticator{strategies: strategies}
}

func (a *Authenticator) Authenticate(ctx *fiber.Ctx) (*domain.User, error) {
	for _, s := range a.strategies {
		user, err := s.Authenticate(ctx)
		if errors.Is(err, ErrNoCredentials) {
			continue
		}
		return user, err
	}
	return nil, apperr.Unauthorized("Access token required")
}

// Require rejects unauthenticated requests with 401.
func (a *Authenticator) Require(next HandlerWithUser) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := a.Authenticate(ctx)
		if err != nil {
			return utils.ResponseError(ctx, err)
		}
		ctx.Locals("userID", user.ID)
		return next(ctx, user)
	}
}

// RequireAdmin additionally rejects non-admin callers with 403.
func (a *Authenticator) RequireAdmin(next HandlerWithUser) fiber.Handler {
	return a.Require(func(ctx *fiber.Ctx, user *domain.User) error {
		if !user.IsAdmin() {
			return utils.ResponseError(ctx, apperr.Forbidden("Admin access required"))
		}
		return next(ctx, user)
	})
}
