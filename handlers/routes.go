package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/apperr"
	"voxrelay/utils"
)

// RegisterRoutes mounts the API, health and UI routes. The SPA fallback is
// registered last so it only sees paths nothing else claimed.
func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", Health)

	api := app.Group("/api")
	api.Post("/volcengine/asr", h.Transcribe)
	api.Post("/minio/upload", h.UploadFile)

	app.Static("/static", h.UIDir)

	app.Get("/", h.ServeIndex)
	app.Get("/*", h.ServeSPA)
}

// ErrorHandler renders errors that escaped a handler. An oversized body is
// reported the same way the upload pipeline reports an oversized file.
func ErrorHandler(logger *logrus.Logger, maxUploadBytes int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusRequestEntityTooLarge {
				return utils.RespondWithAppError(c, apperr.PayloadTooLarge(int64(c.Request().Header.ContentLength()), maxUploadBytes))
			}
			return utils.RespondWithError(c, fe.Code, fe.Message)
		}

		if apperr.KindOf(err) != apperr.KindUnknown {
			return utils.RespondWithAppError(c, err)
		}

		logger.WithError(err).WithField("uri", c.OriginalURL()).Error("Unhandled error")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
