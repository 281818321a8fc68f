package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"estoque/internal/middleware"
	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth      *services.AuthService
	Products  *services.ProductService
	Movements *services.MovementService
	Log       *logger.Logger
	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
	// Health reports backing store reachability for GET /health. Nil always reports healthy.
	Health func(ctx context.Context) error
}

// NewApp builds the fiber application with every route mounted.
func NewApp(deps Dependencies) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "estoque",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	if deps.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: deps.AccessLog}))
	}

	app.Get("/health", healthHandler(deps.Health))

	api := app.Group("/api")
	guard := middleware.AuthRequired(deps.Auth, log)

	NewAuthHandler(deps.Auth, log).RegisterRoutes(api, guard)

	NewProductHandler(deps.Products, log).RegisterRoutes(api, guard)
	NewMovementHandler(deps.Movements, log).RegisterRoutes(api, guard)

	return app
}

func healthHandler(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				body["status"] = "unhealthy"
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
		}
		return c.JSON(body)
	}
}

// errorHandler renders errors that escape a handler, including recovered panics.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Erro interno do servidor"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code != fiber.StatusInternalServerError {
				message = fe.Message
			}
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"message": message,
		})
	}
}
