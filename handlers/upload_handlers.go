package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/apperr"
	"voxrelay/internal/events"
	"voxrelay/middleware"
	"voxrelay/models"
	"voxrelay/utils"
)

// UploadResponse is returned once the file is stored.
type UploadResponse struct {
	Success bool   `json:"success"`
	Size    int64  `json:"size"`
	Bucket  string `json:"bucket"`
	File    string `json:"file"`
}

// UploadFile godoc
// @Summary Upload a file to object storage
// @Description Stores the multipart file under {date}/{uuid}.{ext} and returns its public URL.
// @Tags storage
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "File to upload (max 10MB)"
// @Param   bucket formData string false "Target bucket, defaults to the configured bucket"
// @Success 200 {object} UploadResponse "File stored"
// @Failure 400 {object} utils.ErrorResponse "Missing file, file too large or no extension"
// @Failure 500 {object} utils.ErrorResponse "Storage backend failure"
// @Failure 503 {object} utils.ErrorResponse "Upload queue full"
// @Router /api/minio/upload [post]
func (h *ApplicationHandler) UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.WithError(err).Warn("Upload request without a file")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Error getting file: "+err.Error())
	}

	log := h.Logger.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"filename":   file.Filename,
		"size":       file.Size,
	})

	limit := h.Storage.MaxUploadBytes()
	if file.Size > limit {
		return utils.RespondWithAppError(c, apperr.PayloadTooLarge(file.Size, limit))
	}

	fileHandle, err := file.Open()
	if err != nil {
		log.WithError(err).Error("Error opening file")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Error opening file: "+err.Error())
	}
	defer fileHandle.Close()

	content, err := utils.ReadAllLimit(fileHandle, limit)
	if errors.Is(err, utils.ErrIOLimitReached) {
		return utils.RespondWithAppError(c, apperr.PayloadTooLarge(file.Size, limit))
	}
	if err != nil {
		log.WithError(err).Error("Error reading file content")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Error reading file: "+err.Error())
	}

	outcome, err := h.Storage.Upload(c.UserContext(), models.UploadRequest{
		Content:     content,
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Bucket:      c.FormValue("bucket"),
	})
	if err != nil {
		log.WithError(err).Warn("Upload failed")
		return utils.RespondWithAppError(c, err)
	}

	event := events.UploadEvent{
		Bucket: outcome.Bucket,
		Key:    outcome.Key,
		URL:    outcome.URL,
		Size:   outcome.Size,
		At:     time.Now(),
	}
	if err := h.Events.PublishUpload(c.UserContext(), event); err != nil {
		log.WithError(err).Warn("Failed to publish upload event")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, UploadResponse{
		Success: outcome.Success,
		Size:    outcome.Size,
		Bucket:  outcome.Bucket,
		File:    outcome.URL,
	})
}
