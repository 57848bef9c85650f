// Package apperr holds the failure taxonomy shared by the ASR client, the
// upload pipeline and the HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-distinguishable failure category.
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindServiceUnavailable Kind = "service_unavailable"
	KindUpstreamRejected   Kind = "upstream_rejected"
	KindMalformedResponse  Kind = "malformed_response"
	KindPayloadTooLarge    Kind = "payload_too_large"
	KindInvalidFilename    Kind = "invalid_filename"
	KindStorageError       Kind = "storage_error"
)

// Error carries a Kind, a human-readable message and, for upstream
// rejections, the backend status code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Err == nil {
		return msg
	}
	if msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ServiceUnavailable(message string, err error) *Error {
	return &Error{Kind: KindServiceUnavailable, Message: message, Err: err}
}

func UpstreamRejected(code, message string) *Error {
	return &Error{Kind: KindUpstreamRejected, Code: code, Message: message}
}

func MalformedResponse(message string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Err: err}
}

func PayloadTooLarge(size, limit int64) *Error {
	return &Error{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("file size %d exceeds the %d byte limit", size, limit),
	}
}

func InvalidFilename(message string) *Error {
	return &Error{Kind: KindInvalidFilename, Message: message}
}

func StorageError(message string, err error) *Error {
	return &Error{Kind: KindStorageError, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code the gateway answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstreamRejected, KindMalformedResponse:
		return http.StatusBadGateway
	case KindPayloadTooLarge, KindInvalidFilename:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
