package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"adgallery/internal/service"
)

// Pinger is the slice of the database handle health checks need.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetConfig returns the static frontend option sets plus the configured
// workspace.
// @Summary Frontend configuration
// @Tags config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/config [get]
func GetConfig(defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := service.Options()
		return c.JSON(fiber.Map{
			"success":         true,
			"ad_objectives":   opts.AdObjectives,
			"visual_styles":   opts.VisualStyles,
			"lighting_styles": opts.LightingStyles,
			"backgrounds":     opts.Backgrounds,
			"product_angles":  opts.ProductAngles,
			"cta_options":     opts.CTAOptions,
			"aspect_ratios":   opts.AspectRatios,
			"workspace_id":    defaultWorkspace,
		})
	}
}

// HealthCheck reports service health including database connectivity.
// @Summary Health check
// @Tags config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, mongo := "healthy", "connected"
		code := fiber.StatusOK
		if err := db.Ping(ctx); err != nil {
			status, mongo = "unhealthy", "disconnected"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"mongodb":   mongo,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
