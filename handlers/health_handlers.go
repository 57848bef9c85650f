package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:  "ok",
		Message: "voxrelay is healthy",
	})
}
