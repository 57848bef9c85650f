package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/asr"
	"voxrelay/internal/events"
	"voxrelay/middleware"
	"voxrelay/models"
	"voxrelay/utils"
)

// timedOutCode is reported in the body when no transcript arrived in time.
const timedOutCode = -1

// TranscribeRequest defines the expected request body for a transcription.
type TranscribeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// TranscribeResponse is returned both for a transcript and for a timeout.
type TranscribeResponse struct {
	Success bool                        `json:"success"`
	Code    int                         `json:"code"`
	Data    *models.TranscriptionResult `json:"data,omitempty"`
	Message string                      `json:"message,omitempty"`
}

// Transcribe godoc
// @Summary Transcribe audio at a URL
// @Description Submits the audio to the ASR backend and waits up to the poll timeout for the transcript. A timeout is reported with code -1 and HTTP 200.
// @Tags asr
// @Accept  json
// @Produce  json
// @Param   request body TranscribeRequest true "Audio to transcribe"
// @Success 200 {object} TranscribeResponse "Transcript, or code -1 on timeout"
// @Failure 400 {object} utils.ErrorResponse "Invalid request body"
// @Failure 502 {object} utils.ErrorResponse "ASR backend rejected the job or answered malformed data"
// @Failure 503 {object} utils.ErrorResponse "ASR backend unreachable"
// @Router /api/volcengine/asr [post]
func (h *ApplicationHandler) Transcribe(c *fiber.Ctx) error {
	req := new(TranscribeRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse request JSON: %v", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithValidationError(c, err)
	}

	ctx := c.UserContext()
	userID := uuid.NewString()
	log := h.Logger.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"user_id":    userID,
		"audio_url":  req.URL,
	})

	handle, err := h.ASR.Submit(ctx, req.URL, userID)
	if err != nil {
		log.WithError(err).Warn("ASR submission failed")
		return utils.RespondWithAppError(c, err)
	}

	result, err := h.ASR.Await(ctx, handle, h.ASR.PollTimeout())
	if errors.Is(err, asr.ErrTimedOut) {
		log.WithField("job", string(handle)).Warn("ASR result query timed out")
		return utils.RespondWithJSON(c, fiber.StatusOK, TranscribeResponse{
			Success: false,
			Code:    timedOutCode,
			Message: asr.ErrTimedOut.Error(),
		})
	}
	if err != nil {
		log.WithError(err).WithField("job", string(handle)).Warn("ASR query failed")
		return utils.RespondWithAppError(c, err)
	}

	var text string
	if result.Text != nil {
		text = *result.Text
	}
	event := events.TranscriptionEvent{
		JobID:      string(handle),
		UserID:     userID,
		AudioURL:   req.URL,
		Text:       text,
		Utterances: len(result.Utterances),
		At:         time.Now(),
	}
	if err := h.Events.PublishTranscription(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish transcription event")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, TranscribeResponse{
		Success: true,
		Code:    0,
		Data:    result,
	})
}
