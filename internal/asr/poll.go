package asr

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"voxrelay/internal/apperr"
	"voxrelay/models"
)

// Await queries the job behind handle until it yields a non-empty
// transcript, the backend rejects it, or timeout elapses. On timeout it
// returns ErrTimedOut. Transport failures end the loop immediately; only
// "processing" and "success without text" answers are retried.
func (c *Client) Await(ctx context.Context, handle models.JobHandle, timeout time.Duration) (*models.TranscriptionResult, error) {
	log := c.log.WithField("job", string(handle))
	start := time.Now()

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		result, err := c.query(pollCtx, handle)
		if err != nil {
			if ctx.Err() != nil {
				c.metrics.RecordWait("cancelled", time.Since(start).Seconds())
				return nil, ctx.Err()
			}
			if pollCtx.Err() != nil && apperr.Is(err, apperr.KindServiceUnavailable) {
				// the query was cut short by our own deadline
				break
			}
			c.metrics.RecordWait("failed", time.Since(start).Seconds())
			log.WithError(err).WithField("attempt", attempt).Warn("ASR query failed")
			return nil, err
		}

		if result.HasText() {
			c.metrics.RecordWait("success", time.Since(start).Seconds())
			log.WithFields(logrus.Fields{
				"attempt":    attempt,
				"elapsed_ms": time.Since(start).Milliseconds(),
			}).Info("ASR result ready")
			return result, nil
		}

		if !c.sleep(pollCtx) {
			if ctx.Err() != nil {
				c.metrics.RecordWait("cancelled", time.Since(start).Seconds())
				return nil, ctx.Err()
			}
			break
		}
	}

	c.metrics.RecordWait("timeout", time.Since(start).Seconds())
	log.WithField("timeout", timeout.String()).Warn("ASR result query timed out")
	return nil, ErrTimedOut
}

// sleep waits one poll interval, returning false if ctx ends first.
func (c *Client) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.opts.PollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// query performs one status query. A nil result with a nil error means the
// job is still processing.
func (c *Client) query(ctx context.Context, handle models.JobHandle) (*models.TranscriptionResult, error) {
	resp, err := c.transport.PostJSON(ctx, c.opts.QueryURL, c.identityHeaders(string(handle)), struct{}{})
	if err != nil {
		c.metrics.RecordQuery("unavailable")
		return nil, apperr.ServiceUnavailable("ASR query request failed", err)
	}

	code := resp.Header.Get(headerStatusCode)
	c.metrics.RecordQuery(code)

	c.log.WithFields(logrus.Fields{
		"job":         string(handle),
		"status_code": code,
		"logid":       resp.Header.Get(headerLogID),
	}).Debug("ASR query answered")

	switch {
	case code == StatusProcessing:
		return nil, nil
	case code == StatusSuccess:
		return Decode(resp.Body)
	case code == "" && !resp.OK():
		return nil, apperr.ServiceUnavailable(fmt.Sprintf("ASR query returned HTTP %d", resp.StatusCode), nil)
	default:
		return nil, apperr.UpstreamRejected(code, "ASR query rejected: "+backendMessage(resp.Header))
	}
}
