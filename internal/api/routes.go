package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig carries the fiber server limits.
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewApp builds the fiber app with exact path matching and JSON error rendering.
func NewApp(sc ServerConfig) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           sc.ReadTimeout,
		WriteTimeout:          sc.WriteTimeout,
		IdleTimeout:           sc.IdleTimeout,
		CaseSensitive:         true,
		StrictRouting:         true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
}

// RegisterRoutes registers all HTTP routes on the Fiber app.
// nc may be nil when event publishing is disabled.
func RegisterRoutes(app *fiber.App, nc *nats.Conn, oauth *OAuthHandler) {
	app.Use(requireHost)

	app.Add(fiber.MethodGet, "/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Add(fiber.MethodGet, "/health", healthHandler(nc))

	auth := app.Group("/zid/auth")
	auth.Add(fiber.MethodGet, "/redirect", oauth.Redirect)
	auth.Add(fiber.MethodGet, "/callback", oauth.Callback)

	// Must stay last: catches every method/path combination above didn't.
	app.Use(notFound)
}

func requireHost(c *fiber.Ctx) error {
	if c.Hostname() == "" || len(c.Request().URI().Path()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgBadRequest})
	}
	return c.Next()
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgRouteNotFound})
}

func healthHandler(nc *nats.Conn) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := map[string]string{"nats": "disabled"}
		status := "ok"
		code := fiber.StatusOK

		if nc != nil {
			checks["nats"] = "ok"
			if !nc.IsConnected() {
				checks["nats"] = "disconnected"
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			} else if err := nc.FlushTimeout(1 * time.Second); err != nil {
				checks["nats"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
