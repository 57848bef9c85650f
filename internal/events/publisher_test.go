package events

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"disabled", Options{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", Options{Enabled: true, Brokers: []string{}}},
		{"nil brokers", Options{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts, testLogger())
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.transcriptions != nil || p.uploads != nil {
				t.Error("expected no writers when disabled")
			}
			if err := p.Close(); err != nil {
				t.Errorf("expected clean close, got %v", err)
			}
		})
	}
}

func TestNew_Enabled(t *testing.T) {
	p := New(Options{
		Enabled:             true,
		Brokers:             []string{"localhost:9092"},
		TopicTranscriptions: "t.transcriptions",
		TopicUploads:        "t.uploads",
	}, testLogger())
	defer p.Close()

	if !p.enabled {
		t.Fatal("expected publisher to be enabled")
	}
	if p.transcriptions.Topic != "t.transcriptions" {
		t.Errorf("expected transcriptions topic 't.transcriptions', got %s", p.transcriptions.Topic)
	}
	if p.uploads.Topic != "t.uploads" {
		t.Errorf("expected uploads topic 't.uploads', got %s", p.uploads.Topic)
	}
	if !p.uploads.Async {
		t.Error("expected async writers")
	}
}

func TestPublish_DisabledRecordsAndSucceeds(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	p := New(Options{TopicTranscriptions: "tr", TopicUploads: "up"}, testLogger(), WithMetrics(m))

	ctx := context.Background()
	if err := p.PublishTranscription(ctx, TranscriptionEvent{JobID: "j", Text: "hi", At: time.Now()}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishUpload(ctx, UploadEvent{Bucket: "voices", Key: "k", Size: 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.EventPublishes.WithLabelValues("tr", "ok")); got != 1 {
		t.Errorf("expected 1 transcription publish, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventPublishes.WithLabelValues("up", "ok")); got != 1 {
		t.Errorf("expected 1 upload publish, got %v", got)
	}
}
