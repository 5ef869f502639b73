package controller

import (
	"context"
	"time"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the backing store answers.
type Pinger func(ctx context.Context) error

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	// ping is nil when the server booted without a store.
	ping Pinger
}

func NewHealthController(ping Pinger) IHealthController {
	return &healthController{ping: ping}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{Status: "ok", Persistence: dto.PersistenceDisabled}
	if c.ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
		defer cancel()

		res.Persistence = dto.PersistenceEnabled
		if err := c.ping(pingCtx); err != nil {
			res.Status = "degraded"
			res.StoreError = err.Error()
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Service is up", res))
}
