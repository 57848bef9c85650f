package asr

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"voxrelay/internal/apperr"
	"voxrelay/models"
)

var validate = validator.New()

// The wire types mirror the backend body with pointers everywhere, so a
// missing field can be told apart from a zero one before mapping.
type wireQueryResponse struct {
	Result    *wireResult    `json:"result"`
	AudioInfo *wireAudioInfo `json:"audio_info"`
}

type wireResult struct {
	Text       *string         `json:"text"`
	Utterances []wireUtterance `json:"utterances" validate:"omitempty,dive"`
}

type wireUtterance struct {
	Text      *string    `json:"text" validate:"required"`
	StartTime *int64     `json:"start_time" validate:"required"`
	EndTime   *int64     `json:"end_time" validate:"required"`
	Definite  *bool      `json:"definite"`
	Words     []wireWord `json:"words" validate:"omitempty,dive"`
}

type wireWord struct {
	Text          *string `json:"text" validate:"required"`
	StartTime     *int64  `json:"start_time" validate:"required"`
	EndTime       *int64  `json:"end_time" validate:"required"`
	BlankDuration *int64  `json:"blank_duration"`
}

type wireAudioInfo struct {
	Duration *int64 `json:"duration" validate:"required"`
}

// DecodeQueryResponse parses a successful query body.
func DecodeQueryResponse(body []byte) (*models.QueryResponse, error) {
	var wire wireQueryResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, apperr.MalformedResponse("decoding ASR response body", err)
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, apperr.MalformedResponse("validating ASR response body", err)
	}

	out := &models.QueryResponse{}
	if wire.Result != nil {
		out.Result = wire.Result.toModel()
	}
	if wire.AudioInfo != nil {
		out.AudioInfo = &models.AudioInfo{Duration: *wire.AudioInfo.Duration}
	}
	return out, nil
}

// Decode parses a successful query body into its transcription result. A
// body without a result yields an empty result rather than nil.
func Decode(body []byte) (*models.TranscriptionResult, error) {
	resp, err := DecodeQueryResponse(body)
	if err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return &models.TranscriptionResult{}, nil
	}
	return resp.Result, nil
}

func (r *wireResult) toModel() *models.TranscriptionResult {
	out := &models.TranscriptionResult{Text: r.Text}
	if r.Utterances != nil {
		out.Utterances = make([]models.Utterance, 0, len(r.Utterances))
		for _, u := range r.Utterances {
			out.Utterances = append(out.Utterances, u.toModel())
		}
	}
	return out
}

func (u *wireUtterance) toModel() models.Utterance {
	out := models.Utterance{
		Text:      *u.Text,
		StartTime: *u.StartTime,
		EndTime:   *u.EndTime,
		Definite:  u.Definite,
	}
	if u.Words != nil {
		out.Words = make([]models.Word, 0, len(u.Words))
		for _, w := range u.Words {
			out.Words = append(out.Words, models.Word{
				Text:          *w.Text,
				StartTime:     *w.StartTime,
				EndTime:       *w.EndTime,
				BlankDuration: w.BlankDuration,
			})
		}
	}
	return out
}
