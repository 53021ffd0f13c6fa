package handlers

import (
	"log/slog"
	"net/url"

	"github.com/SundayYogurt/store_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/store_service/internal/clients/google"
	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/SundayYogurt/store_service/internal/services"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const sessionStateKey = "oauth_state"

type AuthHandler struct {
	svc       services.AuthService
	auth      *middleware.Authenticator
	sessions  *session.Store
	google    google.ProfileFetcher
	validator *helper.Validator
	clientURL string
}

// NewAuthHandler wires the auth routes. googleClient may be nil, in which case
// the OAuth routes answer 503.
func NewAuthHandler(
	svc services.AuthService,
	auth *middleware.Authenticator,
	sessions *session.Store,
	googleClient google.ProfileFetcher,
	validator *helper.Validator,
	clientURL string,
) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		auth:      auth,
		sessions:  sessions,
		google:    googleClient,
		validator: validator,
		clientURL: clientURL,
	}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/google", h.GoogleLogin)
	auth.Get("/google/callback", h.GoogleCallback)
	auth.Get("/me", h.auth.Require(h.Me))
	auth.Post("/create-admin", h.CreateAdmin)
	auth.Post("/logout", h.Logout)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	user, token, err := h.svc.Register(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	user, token, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserResponse(user),
	})
}

// GoogleLogin starts the OAuth code flow with a per-session state value.
func (h *AuthHandler) GoogleLogin(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseError(ctx, apperr.New(apperr.ErrCodeUnavailable, "Google login is not configured"))
	}

	sess, err := h.sessions.Get(ctx)
	if err != nil {
		return err
	}
	state := uuid.NewString()
	sess.Set(sessionStateKey, state)
	if err := sess.Save(); err != nil {
		return err
	}
	return ctx.Redirect(h.google.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback finishes the code flow, signs the user into the session and
// hands a token to the client app.
func (h *AuthHandler) GoogleCallback(ctx *fiber.Ctx) error {
	if h.google == nil {
		return utils.ResponseError(ctx, apperr.New(apperr.ErrCodeUnavailable, "Google login is not configured"))
	}

	failure := h.clientURL + "/login?error=auth_failed"

	sess, err := h.sessions.Get(ctx)
	if err != nil {
		return err
	}
	expected, _ := sess.Get(sessionStateKey).(string)
	sess.Delete(sessionStateKey)
	if expected == "" || ctx.Query("state") != expected {
		slog.WarnContext(ctx.UserContext(), "google callback state mismatch")
		_ = sess.Save()
		return ctx.Redirect(failure)
	}

	profile, err := h.google.Exchange(ctx.UserContext(), ctx.Query("code"))
	if err != nil {
		slog.WarnContext(ctx.UserContext(), "google code exchange failed", "error", err)
		_ = sess.Save()
		return ctx.Redirect(failure)
	}

	user, token, err := h.svc.LoginWithGoogle(ctx.UserContext(), *profile)
	if err != nil {
		slog.WarnContext(ctx.UserContext(), "google login failed", "error", err)
		_ = sess.Save()
		return ctx.Redirect(failure)
	}

	// new identity, new session id
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, user.ID.String())
	if err := sess.Save(); err != nil {
		return err
	}
	return ctx.Redirect(h.clientURL + "/auth/success?token=" + url.QueryEscape(token))
}

func (h *AuthHandler) Me(ctx *fiber.Ctx, user *domain.User) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user": dto.NewMeResponse(user),
	})
}

func (h *AuthHandler) CreateAdmin(ctx *fiber.Ctx) error {
	var requestBody dto.CreateAdminRequest
	if err := bindJSON(ctx, h.validator, &requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}

	admin, err := h.svc.CreateAdmin(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "Admin user created successfully",
		"userId":  admin.ID,
	})
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	sess, err := h.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return utils.ResponseMessage(ctx, fiber.StatusOK, "Logged out successfully")
}
