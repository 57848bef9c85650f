// Package asr talks to the Volcengine "bigmodel" speech recognition API,
// which works asynchronously: a job is submitted, then queried until the
// transcript is ready.
package asr

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
	"voxrelay/internal/transport"
)

// Backend status codes carried in the X-Api-Status-Code header.
const (
	StatusSuccess    = "20000000"
	StatusProcessing = "20000001"
)

const (
	headerAppKey     = "X-Api-App-Key"
	headerAccessKey  = "X-Api-Access-Key"
	headerResourceID = "X-Api-Resource-Id"
	headerRequestID  = "X-Api-Request-Id"
	headerSequence   = "X-Api-Sequence"
	headerStatusCode = "X-Api-Status-Code"
	headerMessage    = "X-Api-Message"
	headerLogID      = "X-Tt-Logid"

	noSequence = "-1"
)

// ErrTimedOut is returned by Await when no transcript arrived before the
// deadline. It is a normal outcome, not a backend failure.
var ErrTimedOut = errors.New("ASR result query timed out")

type ClientOptions struct {
	AppID       string `env:"APP_ID,required" validate:"required"`
	AccessToken string `env:"ACCESS_TOKEN,required" validate:"required"`

	SubmitURL  string `env:"SUBMIT_URL" envDefault:"https://openspeech.bytedance.com/api/v3/auc/bigmodel/submit" validate:"required,url"`
	QueryURL   string `env:"QUERY_URL" envDefault:"https://openspeech.bytedance.com/api/v3/auc/bigmodel/query" validate:"required,url"`
	ResourceID string `env:"RESOURCE_ID" envDefault:"volc.bigasr.auc" validate:"required"`

	ModelName   string `env:"MODEL_NAME" envDefault:"bigmodel" validate:"required"`
	AudioFormat string `env:"AUDIO_FORMAT" envDefault:"mp3" validate:"required"`

	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"100ms" validate:"gt=0"`
	PollTimeout    time.Duration `env:"POLL_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// Client submits jobs and polls for their results. It keeps no per-job
// state, so one Client serves any number of concurrent requests.
type Client struct {
	opts ClientOptions
	log  *logrus.Entry

	transport *transport.Client
	metrics   *metrics.Metrics
	newID     func() string
}

type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for every exchange.
func WithHTTPClient(doer transport.Doer) ClientOption {
	return func(c *Client) {
		c.transport = transport.NewClient(
			transport.WithHTTPClient(doer),
			transport.WithTimeout(c.opts.RequestTimeout),
		)
	}
}

// WithMetrics replaces the metrics sink.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithIDGenerator replaces the generator of per-submission trace ids.
func WithIDGenerator(newID func() string) ClientOption {
	return func(c *Client) {
		c.newID = newID
	}
}

func NewClient(options ClientOptions, logger *logrus.Logger, extraOptions ...ClientOption) *Client {
	c := &Client{
		opts:    options,
		log:     logger.WithField("component", "asr"),
		metrics: metrics.DefaultMetrics,
		newID:   uuid.NewString,
	}
	c.transport = transport.NewClient(
		transport.WithHTTPClient(http.DefaultClient),
		transport.WithTimeout(options.RequestTimeout),
	)
	for _, option := range extraOptions {
		option(c)
	}
	return c
}

// PollTimeout is the configured overall deadline for Await.
func (c *Client) PollTimeout() time.Duration {
	return c.opts.PollTimeout
}

func (c *Client) identityHeaders(requestID string) map[string]string {
	return map[string]string{
		headerAppKey:     c.opts.AppID,
		headerAccessKey:  c.opts.AccessToken,
		headerResourceID: c.opts.ResourceID,
		headerRequestID:  requestID,
	}
}

func backendMessage(h http.Header) string {
	if msg := h.Get(headerMessage); msg != "" {
		return msg
	}
	return "Unknown error"
}
