package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/postloop/postloop-api/configs"
	"github.com/postloop/postloop-api/internal/publisher"
)

type publishRunner interface {
	Run(ctx context.Context, now time.Time) (*publisher.Summary, error)
}

type CronHandler struct {
	p   publishRunner
	cfg config.Config
}

func NewCronHandler(cfg config.Config, p publishRunner) *CronHandler {
	return &CronHandler{p: p, cfg: cfg}
}

// PublishHandler runs one publishing pass. It is meant to be hit by an
// external scheduler once an hour and is guarded by a bearer secret. The
// secret is only enforced in production; outside it a missing or wrong
// token is let through with a warning, so local setups can trigger passes
// by hand.
func (h *CronHandler) PublishHandler(c *fiber.Ctx) error {
	if !h.validCronAuth(c) {
		if h.cfg.IsProduction() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		slog.Warn("cron auth check failed, allowing request outside production")
	}

	summary, err := h.p.Run(c.Context(), time.Now())
	if err != nil {
		slog.Error("publishing pass failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"processed": summary.Processed,
		"details":   summary.Details,
	})
}

func (h *CronHandler) validCronAuth(c *fiber.Ctx) bool {
	if h.cfg.CronSecret == "" {
		return false
	}

	authHeader := c.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token != authHeader && token == h.cfg.CronSecret
}
