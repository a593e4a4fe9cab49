package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scorelens/scoreboard-gateway/internal/securestore"
)

// RegisterRoutes wires the HTTP surface. nc may be nil when events are
// disabled; health then skips the bus check.
func RegisterRoutes(app *fiber.App, nc *nats.Conn, st securestore.Store, handler *GatewayHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"store": "ok",
		}
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

		healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := st.Ping(healthCtx); err != nil {
			checks["store"] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	v1 := app.Group("/api/v1")
	v1.Put("/credential", handler.SetCredentialHandler)
	v1.Delete("/credential", handler.ClearCredentialHandler)
	v1.Post("/credential/rotate", handler.RotateCredentialHandler)
	v1.Get("/status", handler.StatusHandler)
	v1.Post("/analyze", handler.AnalyzeHandler)
}
