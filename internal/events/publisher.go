// Package events announces completed transcriptions and uploads on Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
)

type Options struct {
	Enabled             bool     `env:"ENABLED" envDefault:"false"`
	Brokers             []string `env:"BROKERS" envSeparator:","`
	TopicTranscriptions string   `env:"TOPIC_TRANSCRIPTIONS" envDefault:"voxrelay.transcriptions"`
	TopicUploads        string   `env:"TOPIC_UPLOADS" envDefault:"voxrelay.uploads"`
}

// TranscriptionEvent is emitted once a transcript has been returned.
type TranscriptionEvent struct {
	JobID      string    `json:"job_id"`
	UserID     string    `json:"user_id"`
	AudioURL   string    `json:"audio_url"`
	Text       string    `json:"text"`
	Utterances int       `json:"utterances"`
	At         time.Time `json:"at"`
}

// UploadEvent is emitted once an object has been stored.
type UploadEvent struct {
	Bucket string    `json:"bucket"`
	Key    string    `json:"key"`
	URL    string    `json:"url"`
	Size   int64     `json:"size"`
	At     time.Time `json:"at"`
}

// Publisher writes events to one topic per event type. When disabled it
// only logs them.
type Publisher struct {
	transcriptions *kafka.Writer
	uploads        *kafka.Writer

	topicTranscriptions string
	topicUploads        string
	enabled             bool

	log     *logrus.Entry
	metrics *metrics.Metrics
}

// PublisherOption customizes a Publisher.
type PublisherOption func(*Publisher)

// WithMetrics replaces the metrics the publisher records into.
func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a publisher. Without Enabled or brokers, events are only logged.
func New(opts Options, logger *logrus.Logger, extraOptions ...PublisherOption) *Publisher {
	p := &Publisher{
		topicTranscriptions: opts.TopicTranscriptions,
		topicUploads:        opts.TopicUploads,
		log:                 logger.WithField("component", "events"),
		metrics:             metrics.DefaultMetrics,
	}
	for _, option := range extraOptions {
		option(p)
	}

	if !opts.Enabled || len(opts.Brokers) == 0 {
		p.log.Info("Kafka disabled, using log-only mode")
		return p
	}

	transport := &kafka.Transport{
		Dial: (&kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}).DialFunc,
	}
	p.transcriptions = p.newWriter(opts.Brokers, opts.TopicTranscriptions, transport)
	p.uploads = p.newWriter(opts.Brokers, opts.TopicUploads, transport)
	p.enabled = true

	p.log.WithFields(logrus.Fields{
		"brokers":              opts.Brokers,
		"topic_transcriptions": opts.TopicTranscriptions,
		"topic_uploads":        opts.TopicUploads,
	}).Info("Kafka publisher initialized")
	return p
}

// newWriter returns an async writer so publishing never holds up a
// request; delivery results are reported through Completion.
func (p *Publisher) newWriter(brokers []string, topic string, transport *kafka.Transport) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Transport:    transport,
		Completion: func(messages []kafka.Message, err error) {
			for range messages {
				p.metrics.RecordEventPublish(topic, err)
			}
			if err != nil {
				p.log.WithError(err).WithField("topic", topic).Error("Failed to write to Kafka")
			}
		},
	}
}

func (p *Publisher) PublishTranscription(ctx context.Context, event TranscriptionEvent) error {
	return p.publish(ctx, p.transcriptions, p.topicTranscriptions, event.JobID, event)
}

func (p *Publisher) PublishUpload(ctx context.Context, event UploadEvent) error {
	return p.publish(ctx, p.uploads, p.topicUploads, event.Key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordEventPublish(topic, err)
		return err
	}

	p.log.WithFields(logrus.Fields{
		"topic":   topic,
		"key":     key,
		"payload": string(payload),
	}).Debug("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordEventPublish(topic, nil)
		return nil
	}

	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
		},
	})
	if err != nil {
		p.metrics.RecordEventPublish(topic, err)
		return err
	}
	return nil
}

// Close flushes and closes the writers.
func (p *Publisher) Close() error {
	var err error
	for _, w := range []*kafka.Writer{p.transcriptions, p.uploads} {
		if w == nil {
			continue
		}
		if e := w.Close(); e != nil {
			p.log.WithError(e).WithField("topic", w.Topic).Error("Error closing Kafka writer")
			err = e
		}
	}
	return err
}
