package models

// JobHandle is the backend-issued identifier of a submitted ASR job.
type JobHandle string

// TranscriptionResult represents the recognised transcript of one job.
// Text is nil until the backend has produced a transcript, which keeps
// "not ready" distinct from an empty transcript.
type TranscriptionResult struct {
	Text       *string     `json:"text,omitempty"`
	Utterances []Utterance `json:"utterances,omitempty"`
}

// HasText reports whether the result carries a non-empty transcript.
func (r *TranscriptionResult) HasText() bool {
	return r != nil && r.Text != nil && *r.Text != ""
}

// Utterance represents a single timed span of the transcript.
type Utterance struct {
	Text      string `json:"text"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
	Definite  *bool  `json:"definite,omitempty"` // Nullable, true once the utterance is final
	Words     []Word `json:"words,omitempty"`
}

// Word represents a single timed word inside an utterance.
type Word struct {
	Text          string `json:"text"`
	StartTime     int64  `json:"start_time"`
	EndTime       int64  `json:"end_time"`
	BlankDuration *int64 `json:"blank_duration,omitempty"` // Silence preceding the word
}

// AudioInfo describes the audio the backend processed.
type AudioInfo struct {
	Duration int64 `json:"duration"`
}

// QueryResponse is the decoded body of a successful ASR query.
type QueryResponse struct {
	Result    *TranscriptionResult `json:"result,omitempty"`
	AudioInfo *AudioInfo           `json:"audio_info,omitempty"`
}
