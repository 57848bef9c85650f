package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/apperr"
	"voxrelay/internal/metrics"
	"voxrelay/internal/worker"
	"voxrelay/models"
)

// JobSubmitter queues jobs on a worker pool.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// Pipeline takes an upload through validation, key generation, staging,
// transfer and cleanup.
type Pipeline struct {
	opts       Options
	store      ObjectStore
	dispatcher JobSubmitter
	log        *logrus.Entry
	metrics    *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithMetrics replaces the metrics the pipeline records into.
func WithMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithClock replaces the clock used for the date part of object keys.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDGenerator replaces the generator of the unique part of object keys.
func WithIDGenerator(newID func() string) PipelineOption {
	return func(p *Pipeline) {
		p.newID = newID
	}
}

// NewPipeline creates an upload pipeline that runs transfers on dispatcher.
func NewPipeline(opts Options, store ObjectStore, dispatcher JobSubmitter, logger *logrus.Logger, extraOptions ...PipelineOption) *Pipeline {
	p := &Pipeline{
		opts:       opts,
		store:      store,
		dispatcher: dispatcher,
		log:        logger.WithField("component", "storage"),
		metrics:    metrics.DefaultMetrics,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, option := range extraOptions {
		option(p)
	}
	return p
}

// DefaultBucket is the bucket used when a request names none.
func (p *Pipeline) DefaultBucket() string {
	return p.opts.DefaultBucket
}

// MaxUploadBytes is the largest accepted upload.
func (p *Pipeline) MaxUploadBytes() int64 {
	return p.opts.MaxUploadBytes
}

// Upload stores req.Content and returns where it can be fetched from.
func (p *Pipeline) Upload(ctx context.Context, req models.UploadRequest) (*models.UploadOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := int64(len(req.Content))
	if size > p.opts.MaxUploadBytes {
		p.metrics.RecordUpload("rejected", size)
		return nil, apperr.PayloadTooLarge(size, p.opts.MaxUploadBytes)
	}

	ext, err := p.extension(req.Filename)
	if err != nil {
		p.metrics.RecordUpload("rejected", size)
		return nil, err
	}

	bucket := req.Bucket
	if bucket == "" {
		bucket = p.opts.DefaultBucket
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(req.Content).String()
	}

	key := ObjectKey(p.now(), p.newID(), ext)
	log := p.log.WithFields(logrus.Fields{
		"bucket": bucket,
		"key":    key,
		"size":   size,
	})

	job := &transferJob{
		ctx:         ctx,
		pipeline:    p,
		content:     req.Content,
		bucket:      bucket,
		key:         key,
		ext:         ext,
		contentType: contentType,
		done:        make(chan error, 1),
	}
	if err := p.dispatcher.SubmitJob(job); err != nil {
		p.metrics.RecordUpload("unavailable", size)
		log.WithError(err).Warn("Transfer could not be queued")
		return nil, apperr.ServiceUnavailable("upload queue unavailable", err)
	}

	select {
	case err = <-job.done:
	case <-ctx.Done():
		// the job still runs to completion and removes its staged file
		p.metrics.RecordUpload("cancelled", size)
		return nil, ctx.Err()
	}

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			p.metrics.RecordUpload("cancelled", size)
			return nil, err
		}
		p.metrics.RecordUpload("failed", size)
		log.WithError(err).Error("Upload failed")
		return nil, err
	}

	p.metrics.RecordUpload("success", size)
	log.Info("Upload stored")

	return &models.UploadOutcome{
		Success: true,
		Size:    size,
		Bucket:  bucket,
		Key:     key,
		URL:     PublicURL(p.opts.BaseURL, bucket, key),
	}, nil
}

func (p *Pipeline) extension(filename string) (string, error) {
	ext := FileExtension(filename)
	if ext == "" {
		return "", apperr.InvalidFilename(fmt.Sprintf("filename %q has no extension", filename))
	}
	if !isAlphanumeric(ext) {
		return "", apperr.InvalidFilename(fmt.Sprintf("extension %q is not alphanumeric", ext))
	}
	if len(p.opts.AllowedExtensions) == 0 {
		return ext, nil
	}
	for _, allowed := range p.opts.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(allowed), "."), ext) {
			return ext, nil
		}
	}
	return "", apperr.InvalidFilename(fmt.Sprintf("extension %q is not allowed", ext))
}

// FileExtension returns the extension after the last dot of the base name,
// without the dot. Names like ".env" or "archive." have none.
func FileExtension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return base[i+1:]
}

// ObjectKey builds the storage key {YYYY-MM-DD}/{id}.{ext}.
func ObjectKey(now time.Time, id, ext string) string {
	return fmt.Sprintf("%s/%s.%s", now.Format("2006-01-02"), id, ext)
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// transferJob stages content to disk, hands it to the object store and
// removes the staged file, reporting the outcome on done.
type transferJob struct {
	ctx      context.Context
	pipeline *Pipeline

	content     []byte
	bucket      string
	key         string
	ext         string
	contentType string

	done chan error
}

func (j *transferJob) ID() string {
	return j.bucket + "/" + j.key
}

// Execute always reports on done, turning a panic in the store into a
// storage error so the waiting caller gets an answer.
func (j *transferJob) Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			j.pipeline.log.WithField("stack", string(debug.Stack())).Error("Recovered panic during transfer")
			err = apperr.StorageError(fmt.Sprintf("storing %s", j.ID()), fmt.Errorf("panic: %v", r))
		}
		j.done <- err
	}()
	return j.transfer()
}

func (j *transferJob) transfer() error {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	staged, err := j.stage()
	if err != nil {
		return apperr.StorageError("staging upload", err)
	}
	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			j.pipeline.log.WithError(err).WithField("path", staged).Warn("Failed to remove staged file")
		}
	}()

	if err := j.ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := j.pipeline.store.Put(j.ctx, j.bucket, j.key, staged, j.contentType); err != nil {
		if j.ctx.Err() != nil {
			return j.ctx.Err()
		}
		return apperr.StorageError(fmt.Sprintf("storing %s", j.ID()), err)
	}
	j.pipeline.metrics.RecordTransfer(time.Since(start).Seconds())
	return nil
}

func (j *transferJob) stage() (string, error) {
	f, err := os.CreateTemp(j.pipeline.opts.StagingDir, "upload-*."+j.ext)
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}

	if _, err := f.Write(j.content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing staging file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("syncing staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing staging file: %w", err)
	}
	return f.Name(), nil
}
