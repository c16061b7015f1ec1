// Package server assembles the fiber application: middleware, routes and
// error handling.
package server

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/handler"
	"github.com/mathanim/api/internal/middleware"
	"github.com/mathanim/api/pkg/response"
)

// Options are the dependencies of the HTTP layer.
type Options struct {
	Generator   handler.Generator
	Validator   *validator.Validate
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	RatePerHour int
	VideoDir    string
	FrontendDir string
	LogLevel    string
	AccessLog   bool
}

// New builds the application.
func New(opts Options) *fiber.App {
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Auth == nil {
		opts.Auth = middleware.NewAuthMiddleware("")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	if opts.AccessLog {
		logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
		if strings.EqualFold(opts.LogLevel, "debug") {
			logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams}\n"
		}
		app.Use(logger.New(logger.Config{
			Format: logFormat,
			Output: log.StandardLogger().Writer(),
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	generateHandler := handler.NewGenerateHandler(opts.Generator, opts.Validator)
	healthHandler := handler.NewHealthHandler(opts.Generator)
	videoHandler := handler.NewVideoHandler(opts.VideoDir)
	homeHandler := handler.NewHomeHandler(opts.FrontendDir)

	app.Get("/", homeHandler.Home)
	app.Get("/health", healthHandler.Health)
	app.Get("/setup-info", healthHandler.SetupInfo)
	app.Get("/videos/:name", videoHandler.Serve)

	guards := []fiber.Handler{opts.Auth.Authenticate()}
	if opts.RateLimiter != nil {
		guards = append(guards, opts.RateLimiter.GenerateLimit(opts.RatePerHour))
	}

	guarded := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), h)
	}

	app.Post("/generate", guarded(generateHandler.Generate)...)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/generate", guarded(websocket.New(generateHandler.Stream))...)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Endpoint not found")
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "Endpoint not found")
		case fiber.StatusInternalServerError:
		default:
			return response.Error(c, fe.Code, response.ErrorResponse{Error: fe.Message})
		}
	}

	log.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalError(c)
}
