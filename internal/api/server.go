package api

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/SundayYogurt/store_service/config"
	"github.com/SundayYogurt/store_service/infra/queue"
	"github.com/SundayYogurt/store_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/store_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/store_service/internal/clients/google"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/helper/utils"
	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/services"
	"github.com/SundayYogurt/store_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	bodyLimit       = 10 * 1024 * 1024
	sessionLifetime = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 30 * time.Second
)

// Deps are the collaborators NewApp wires into the routes. Uploader and
// Google may be nil when the integration is not configured.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Auth     helper.Auth
	Producer interfaces.ProducerHandler
	Uploader interfaces.Uploader
	Google   google.ProfileFetcher
}

// NewApp builds the HTTP application: middleware chain, API routes, metrics
// and the fallbacks.
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "store_service",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler(cfg.IsDevelopment()),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(middleware.RequestContext(requestTimeout))
	app.Use(middleware.Metrics())
	if cfg.IsDevelopment() {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(compress.New())

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- Session ----------
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(cfg.SessionSecret),
	}))
	sessions := session.New(session.Config{
		Expiration:     sessionLifetime,
		KeyLookup:      "cookie:store_session",
		CookieSecure:   cfg.IsProduction(),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Use("/api", middleware.RateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax))

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)

	// ---------- Services ----------
	authSvc := services.NewAuthService(userRepo, deps.Auth, deps.Producer)
	productSvc := services.NewProductService(productRepo, deps.Uploader)
	orderSvc := services.NewOrderService(orderRepo, productRepo, deps.Producer)

	// ---------- Handlers ----------
	authenticator := middleware.NewAuthenticator(
		middleware.NewBearerStrategy(authSvc),
		middleware.NewSessionStrategy(sessions, authSvc),
	)
	validator := helper.NewValidator()

	handlers.NewAuthHandler(authSvc, authenticator, sessions, deps.Google, validator, cfg.ClientURL).SetupRoutes(app)
	handlers.NewUserHandler(authSvc, authenticator, validator).SetupRoutes(app)
	handlers.NewProductHandler(productSvc, authenticator, validator).SetupRoutes(app)
	handlers.NewOrderHandler(orderSvc, authenticator, validator).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/api/health", handlers.HealthCheck)

	app.Use(func(ctx *fiber.Ctx) error {
		return utils.ResponseMessage(ctx, fiber.StatusNotFound, "Route not found")
	})

	return app
}

// StartServer connects the infrastructure named in cfg and serves until ctx
// is cancelled.
func StartServer(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ---------- DB ----------
	db, err := repository.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := repository.MigrateLocked(db); err != nil {
		return err
	}

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	defer func() { _ = kafkaProducer.Close() }()
	if kafkaProducer == nil {
		slog.Warn("KAFKA_BROKER not set, events will not be published")
	}

	deps := Deps{
		Config:   cfg,
		DB:       db,
		Auth:     helper.SetupAuth(cfg.JWTSecret),
		Producer: kafkaProducer,
	}

	if cfg.CloudinaryUrl != "" {
		up, err := cloudinary.NewFromURL(cfg.CloudinaryUrl)
		if err != nil {
			return err
		}
		deps.Uploader = up
	} else {
		slog.Warn("CLOUDINARY_URL not set, image upload disabled")
	}

	if cfg.GoogleEnabled() {
		deps.Google = google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	} else {
		slog.Warn("Google OAuth credentials not set, Google login disabled")
	}

	app := NewApp(deps)

	// ---------- Listen ----------
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", cfg.ServerPort, "env", cfg.Env)
		return app.Listen(cfg.ServerPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}

// errorHandler answers for errors no handler mapped. Detail is only exposed
// in development.
func errorHandler(dev bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			msg := fe.Message
			if fe.Code == fiber.StatusNotFound {
				msg = "Route not found"
			}
			return utils.ResponseMessage(ctx, fe.Code, msg)
		}

		slog.ErrorContext(ctx.UserContext(), "unhandled error",
			"method", ctx.Method(),
			"path", ctx.Path(),
			"request_id", ctx.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		)

		body := fiber.Map{"message": "Something went wrong!", "error": fiber.Map{}}
		if dev {
			body["error"] = err.Error()
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

// cookieKey derives the 32-byte AES key encryptcookie expects.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
