package asr

import (
	"reflect"
	"testing"

	"voxrelay/internal/apperr"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantText *string
		hasText  bool
	}{
		{name: "full transcript", body: fullTranscript, wantText: strPtr("hello world"), hasText: true},
		{name: "no result", body: `{}`},
		{name: "null result", body: `{"result": null}`},
		{name: "result without text", body: `{"result": {"utterances": []}}`},
		{name: "empty text", body: `{"result": {"text": ""}}`, wantText: strPtr("")},
		{name: "unknown fields ignored", body: `{"result": {"text": "hi", "extra": 1}, "other": true}`, wantText: strPtr("hi"), hasText: true},
		{name: "malformed json", body: `{"result": `, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "text of wrong type", body: `{"result": {"text": 42}}`, wantErr: true},
		{name: "utterance without start_time", body: `{"result": {"text": "a", "utterances": [{"text": "a", "end_time": 5}]}}`, wantErr: true},
		{name: "word without text", body: `{"result": {"text": "a", "utterances": [{"text": "a", "start_time": 0, "end_time": 5, "words": [{"start_time": 0, "end_time": 5}]}]}}`, wantErr: true},
		{name: "fractional time", body: `{"result": {"text": "a", "utterances": [{"text": "a", "start_time": 0.5, "end_time": 5}]}}`, wantErr: true},
		{name: "audio info without duration", body: `{"audio_info": {}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Decode([]byte(tt.body))
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindMalformedResponse) {
					t.Fatalf("expected malformed_response, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil {
				t.Fatal("expected a non-nil result")
			}
			if !reflect.DeepEqual(result.Text, tt.wantText) {
				t.Errorf("expected text %v, got %v", deref(tt.wantText), deref(result.Text))
			}
			if result.HasText() != tt.hasText {
				t.Errorf("expected HasText %v, got %v", tt.hasText, result.HasText())
			}
		})
	}
}

func TestDecode_MapsAllFields(t *testing.T) {
	resp, err := DecodeQueryResponse([]byte(fullTranscript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AudioInfo == nil || resp.AudioInfo.Duration != 2499 {
		t.Errorf("expected duration 2499, got %+v", resp.AudioInfo)
	}

	u := resp.Result.Utterances[0]
	if u.StartTime != 0 || u.EndTime != 1705 {
		t.Errorf("unexpected utterance bounds %d..%d", u.StartTime, u.EndTime)
	}
	if u.Definite == nil || !*u.Definite {
		t.Error("expected definite=true")
	}

	first, second := u.Words[0], u.Words[1]
	if first.BlankDuration == nil || *first.BlankDuration != 0 {
		t.Errorf("expected blank_duration 0 to be kept, got %v", first.BlankDuration)
	}
	if second.BlankDuration != nil {
		t.Errorf("expected absent blank_duration to stay nil, got %d", *second.BlankDuration)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	first, err := Decode([]byte(fullTranscript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Decode([]byte(fullTranscript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("decoding the same body twice differs:\n%+v\n%+v", first, second)
	}
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
