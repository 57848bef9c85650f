package models

import (
	"encoding/json"
	"testing"
)

func TestTranscriptionResult_HasText(t *testing.T) {
	empty, hello := "", "hello"

	tests := []struct {
		name   string
		result *TranscriptionResult
		want   bool
	}{
		{"nil result", nil, false},
		{"absent text", &TranscriptionResult{}, false},
		{"empty text", &TranscriptionResult{Text: &empty}, false},
		{"text", &TranscriptionResult{Text: &hello}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasText(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTranscriptionResult_OmitsAbsentFields(t *testing.T) {
	text := "hi"
	raw, err := json.Marshal(TranscriptionResult{
		Text:       &text,
		Utterances: []Utterance{{Text: "hi", StartTime: 0, EndTime: 10, Words: []Word{{Text: "hi", EndTime: 10}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"text":"hi","utterances":[{"text":"hi","start_time":0,"end_time":10,"words":[{"text":"hi","start_time":0,"end_time":10}]}]}`
	if string(raw) != want {
		t.Errorf("expected %s, got %s", want, raw)
	}
}
