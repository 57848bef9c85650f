package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/events"
	"voxrelay/models"
)

// Transcriber defines the ASR operations handlers expect.
// The concrete implementation is provided by the asr package.
type Transcriber interface {
	Submit(ctx context.Context, audioURL, userID string) (models.JobHandle, error)
	Await(ctx context.Context, handle models.JobHandle, timeout time.Duration) (*models.TranscriptionResult, error)
	PollTimeout() time.Duration
}

// Uploader defines the object-storage operations handlers expect.
type Uploader interface {
	Upload(ctx context.Context, req models.UploadRequest) (*models.UploadOutcome, error)
	MaxUploadBytes() int64
}

// EventPublisher announces completed work. Failures never fail a request.
type EventPublisher interface {
	PublishTranscription(ctx context.Context, event events.TranscriptionEvent) error
	PublishUpload(ctx context.Context, event events.UploadEvent) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	ASR     Transcriber
	Storage Uploader
	Events  EventPublisher
	Logger  *logrus.Logger
	UIDir   string

	validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(asr Transcriber, storage Uploader, publisher EventPublisher, logger *logrus.Logger, uiDir string) *ApplicationHandler {
	return &ApplicationHandler{
		ASR:      asr,
		Storage:  storage,
		Events:   publisher,
		Logger:   logger,
		UIDir:    uiDir,
		validate: validator.New(),
	}
}
