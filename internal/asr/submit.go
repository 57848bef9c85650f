package asr

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"voxrelay/internal/apperr"
	"voxrelay/models"
)

type submitPayload struct {
	User    submitUser    `json:"user"`
	Audio   submitAudio   `json:"audio"`
	Request submitRequest `json:"request"`
}

type submitUser struct {
	UID string `json:"uid"`
}

type submitAudio struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

type submitRequest struct {
	ModelName  string `json:"model_name"`
	EnableITN  bool   `json:"enable_itn"`
	EnablePunc bool   `json:"enable_punc"`
}

// Submit creates a recognition job for the audio at audioURL and returns the
// handle the backend issued for it.
func (c *Client) Submit(ctx context.Context, audioURL, userID string) (models.JobHandle, error) {
	traceID := c.newID()
	log := c.log.WithFields(logrus.Fields{
		"trace_id": traceID,
		"user_id":  userID,
	})

	headers := c.identityHeaders(traceID)
	headers[headerSequence] = noSequence

	payload := submitPayload{
		User:  submitUser{UID: userID},
		Audio: submitAudio{Format: c.opts.AudioFormat, URL: audioURL},
		Request: submitRequest{
			ModelName:  c.opts.ModelName,
			EnableITN:  true,
			EnablePunc: true,
		},
	}

	resp, err := c.transport.PostJSON(ctx, c.opts.SubmitURL, headers, payload)
	if err != nil {
		c.metrics.RecordSubmission("unavailable")
		log.WithError(err).Error("ASR submit request failed")
		return "", apperr.ServiceUnavailable("ASR submit request failed", err)
	}

	code := resp.Header.Get(headerStatusCode)
	log = log.WithFields(logrus.Fields{
		"status_code": code,
		"http_status": resp.StatusCode,
		"logid":       resp.Header.Get(headerLogID),
	})

	if code == "" && !resp.OK() {
		c.metrics.RecordSubmission("unavailable")
		log.Error("ASR submit returned a non-success HTTP status")
		return "", apperr.ServiceUnavailable(fmt.Sprintf("ASR submit returned HTTP %d", resp.StatusCode), nil)
	}

	if code != StatusSuccess {
		msg := backendMessage(resp.Header)
		c.metrics.RecordSubmission("rejected")
		log.WithField("message", msg).Warn("ASR submit rejected")
		return "", apperr.UpstreamRejected(code, "ASR submit rejected: "+msg)
	}

	handle := resp.Header.Get(headerRequestID)
	if handle == "" {
		c.metrics.RecordSubmission("malformed")
		return "", apperr.MalformedResponse("ASR submit response carries no request id", nil)
	}

	c.metrics.RecordSubmission("accepted")
	log.WithField("job", handle).Info("ASR job submitted")
	return models.JobHandle(handle), nil
}
