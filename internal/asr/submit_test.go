package asr

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"voxrelay/internal/apperr"
)

func TestSubmit_Accepted(t *testing.T) {
	backend := &fakeBackend{}
	c, _ := newTestClient(t, backend)
	c.newID = func() string { return "trace-1" }

	handle, err := c.Submit(context.Background(), "https://x/y.mp3", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle != "trace-1" {
		t.Errorf("expected handle 'trace-1', got %q", handle)
	}

	if len(backend.submitHeaders) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(backend.submitHeaders))
	}
	h := backend.submitHeaders[0]
	wantHeaders := map[string]string{
		headerAppKey:     "app-1",
		headerAccessKey:  "token-1",
		headerResourceID: "volc.bigasr.auc",
		headerRequestID:  "trace-1",
		headerSequence:   "-1",
		"Content-Type":   "application/json",
	}
	for k, want := range wantHeaders {
		if got := h.Get(k); got != want {
			t.Errorf("header %s: expected %q, got %q", k, want, got)
		}
	}

	body := backend.submitBodies[0]
	user := body["user"].(map[string]any)
	if user["uid"] != "user-1" {
		t.Errorf("expected uid 'user-1', got %v", user["uid"])
	}
	audio := body["audio"].(map[string]any)
	if audio["format"] != "mp3" || audio["url"] != "https://x/y.mp3" {
		t.Errorf("unexpected audio section %v", audio)
	}
	req := body["request"].(map[string]any)
	if req["model_name"] != "bigmodel" || req["enable_itn"] != true || req["enable_punc"] != true {
		t.Errorf("unexpected request section %v", req)
	}
}

func TestSubmit_FreshTraceIDPerSubmission(t *testing.T) {
	backend := &fakeBackend{}
	c, _ := newTestClient(t, backend)

	first, err := c.Submit(context.Background(), "https://x/a.mp3", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Submit(context.Background(), "https://x/b.mp3", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct handles, got %q twice", first)
	}
}

func TestSubmit_Rejected(t *testing.T) {
	backend := &fakeBackend{
		onSubmit: func(w http.ResponseWriter, r *http.Request) {
			answerStatus(w, "40000001", "invalid audio")
		},
	}
	c, _ := newTestClient(t, backend)

	_, err := c.Submit(context.Background(), "https://x/y.mp3", "u")
	if err == nil {
		t.Fatal("expected error")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != apperr.KindUpstreamRejected {
		t.Errorf("expected upstream_rejected, got %s", appErr.Kind)
	}
	if appErr.Code != "40000001" {
		t.Errorf("expected code 40000001, got %q", appErr.Code)
	}
	if !strings.Contains(appErr.Error(), "invalid audio") {
		t.Errorf("expected message to carry backend message, got %q", appErr.Error())
	}
	if len(backend.queries()) != 0 {
		t.Error("expected no queries after a rejected submission")
	}
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name     string
		onSubmit func(w http.ResponseWriter, r *http.Request)
		want     apperr.Kind
	}{
		{
			name: "missing status code",
			onSubmit: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			want: apperr.KindUpstreamRejected,
		},
		{
			name: "http error without status code",
			onSubmit: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: apperr.KindServiceUnavailable,
		},
		{
			name: "http error with status code",
			onSubmit: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(headerStatusCode, "45000001")
				w.Header().Set(headerMessage, "bad params")
				w.WriteHeader(http.StatusBadRequest)
			},
			want: apperr.KindUpstreamRejected,
		},
		{
			name: "accepted without request id",
			onSubmit: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(headerStatusCode, StatusSuccess)
				w.WriteHeader(http.StatusOK)
			},
			want: apperr.KindMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, &fakeBackend{onSubmit: tt.onSubmit})

			_, err := c.Submit(context.Background(), "https://x/y.mp3", "u")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	c, srv := newTestClient(t, &fakeBackend{})
	srv.Close()

	_, err := c.Submit(context.Background(), "https://x/y.mp3", "u")
	if !apperr.Is(err, apperr.KindServiceUnavailable) {
		t.Fatalf("expected service_unavailable, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("expected the transport cause to be wrapped")
	}
}
