package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
)

func newTestApp(buf *bytes.Buffer) (*fiber.App, *metrics.Metrics) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(buf)

	m := metrics.New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(RequestLogger(logger, m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})
	return app, m
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	app, _ := newTestApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/items/1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	id := resp.Header.Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected a request id header")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if entry["request_id"] != id {
		t.Errorf("expected logged request id %s, got %v", id, entry["request_id"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
}

func TestRequestLogger_ReusesIncomingID(t *testing.T) {
	var buf bytes.Buffer
	app, _ := newTestApp(&buf)

	req := httptest.NewRequest("GET", "/items/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected request id abc-123, got %q", got)
	}
}

func TestRequestLogger_RecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	app, m := newTestApp(&buf)

	for _, path := range []string{"/items/1", "/items/2", "/missing", "/broken"} {
		if _, err := app.Test(httptest.NewRequest("GET", path, nil), -1); err != nil {
			t.Fatalf("request %s failed: %v", path, err)
		}
	}

	tests := []struct {
		route, status string
		want          float64
	}{
		{"/items/:id", "200", 2},
		{"/missing", "404", 1},
		{"/broken", "503", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", tt.route, tt.status)); got != tt.want {
			t.Errorf("%s %s: expected %v, got %v", tt.route, tt.status, tt.want, got)
		}
	}
}
