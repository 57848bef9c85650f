package asr

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"voxrelay/internal/metrics"
)

// fakeBackend imitates the submit and query endpoints of the ASR API.
type fakeBackend struct {
	mu sync.Mutex

	submitHeaders []http.Header
	submitBodies  []map[string]any
	queryIDs      []string
	queryBodies   []string

	onSubmit func(w http.ResponseWriter, r *http.Request)
	onQuery  func(n int, w http.ResponseWriter, r *http.Request)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	switch r.URL.Path {
	case "/submit":
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)

		f.mu.Lock()
		f.submitHeaders = append(f.submitHeaders, r.Header.Clone())
		f.submitBodies = append(f.submitBodies, payload)
		f.mu.Unlock()

		if f.onSubmit != nil {
			f.onSubmit(w, r)
			return
		}
		acceptSubmission(w, r)
	case "/query":
		f.mu.Lock()
		f.queryIDs = append(f.queryIDs, r.Header.Get(headerRequestID))
		f.queryBodies = append(f.queryBodies, string(body))
		n := len(f.queryIDs)
		f.mu.Unlock()

		if f.onQuery != nil {
			f.onQuery(n, w, r)
			return
		}
		answerProcessing(w)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.queryIDs...)
}

func acceptSubmission(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(headerStatusCode, StatusSuccess)
	w.Header().Set(headerMessage, "OK")
	w.Header().Set(headerRequestID, r.Header.Get(headerRequestID))
	w.Header().Set(headerLogID, "log-123")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}

func answerProcessing(w http.ResponseWriter) {
	w.Header().Set(headerStatusCode, StatusProcessing)
	w.Header().Set(headerMessage, "Processing")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}

func answerSuccess(w http.ResponseWriter, body string) {
	w.Header().Set(headerStatusCode, StatusSuccess)
	w.Header().Set(headerMessage, "Success")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func answerStatus(w http.ResponseWriter, code, message string) {
	w.Header().Set(headerStatusCode, code)
	w.Header().Set(headerMessage, message)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}

const fullTranscript = `{
	"audio_info": {"duration": 2499},
	"result": {
		"text": "hello world",
		"utterances": [{
			"text": "hello world",
			"start_time": 0,
			"end_time": 1705,
			"definite": true,
			"words": [
				{"text": "hello", "start_time": 740, "end_time": 1020, "blank_duration": 0},
				{"text": "world", "start_time": 1100, "end_time": 1705}
			]
		}]
	}
}`

func testOptions(baseURL string) ClientOptions {
	return ClientOptions{
		AppID:          "app-1",
		AccessToken:    "token-1",
		SubmitURL:      baseURL + "/submit",
		QueryURL:       baseURL + "/query",
		ResourceID:     "volc.bigasr.auc",
		ModelName:      "bigmodel",
		AudioFormat:    "mp3",
		PollInterval:   10 * time.Millisecond,
		PollTimeout:    time.Second,
		RequestTimeout: time.Second,
	}
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, backend http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c := NewClient(testOptions(srv.URL), testLogger(),
		WithHTTPClient(srv.Client()),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	return c, srv
}
