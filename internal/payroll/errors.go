package payroll

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the closed set of error classes the client surfaces to
// callers. Pipeline steps branch on these codes, never on raw error
// text from the external engine.
type ErrorCode string

const (
	// CodeRecordNotVisible indicates read-after-write propagation lag:
	// a record that was just created is not yet visible on the engine's
	// read path. Retryable.
	CodeRecordNotVisible ErrorCode = "record_not_visible"

	// CodeValidation indicates a malformed request (bad attribute name,
	// invalid field value). Never retryable.
	CodeValidation ErrorCode = "validation"

	// CodeNotFound indicates a genuinely missing record.
	CodeNotFound ErrorCode = "not_found"

	// CodeRateLimited indicates the engine throttled the request.
	CodeRateLimited ErrorCode = "rate_limited"

	// CodeConflict indicates the request clashed with existing state.
	CodeConflict ErrorCode = "conflict"

	// CodeUnavailable indicates a transport failure or 5xx response.
	CodeUnavailable ErrorCode = "unavailable"

	// CodeUnknown is the fallback for anything unclassified.
	CodeUnknown ErrorCode = "unknown"
)

// APIError is a classified error from the external payroll engine.
type APIError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payroll engine: %s (%s)", e.Message, e.Code)
}

// CodeOf extracts the error code from err, or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeUnknown
}

// IsRecordNotVisible reports whether err is a propagation-lag error
// worth retrying after a delay.
func IsRecordNotVisible(err error) bool {
	return CodeOf(err) == CodeRecordNotVisible
}

// IsValidation reports whether err is a validation error that must not
// be retried.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// errorBody is the engine's error response envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b *errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// classify maps an HTTP status and error body from the external engine
// to the closed ErrorCode set. The engine does not expose a structured
// retryable flag, so the mapping from its status codes and message
// vocabulary lives here and nowhere else. recentWrite marks endpoints
// where a 404 on a record we just created means propagation lag rather
// than a genuinely missing record.
func classify(status int, body *errorBody, recentWrite bool) *APIError {
	msg := strings.ToLower(body.text())

	var code ErrorCode
	switch {
	case status == http.StatusNotFound && recentWrite:
		code = CodeRecordNotVisible
	case status == http.StatusNotFound:
		code = CodeNotFound
	case status == http.StatusConflict:
		code = CodeConflict
	case status == http.StatusTooManyRequests:
		code = CodeRateLimited
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = CodeValidation
	case status >= 500:
		code = CodeUnavailable
	case strings.Contains(msg, "not yet available") || strings.Contains(msg, "still processing"):
		code = CodeRecordNotVisible
	default:
		code = CodeUnknown
	}

	text := body.text()
	if text == "" {
		text = http.StatusText(status)
	}

	return &APIError{
		Code:       code,
		Message:    text,
		HTTPStatus: status,
	}
}

// transportError wraps a network-level failure as CodeUnavailable.
func transportError(err error) *APIError {
	return &APIError{
		Code:    CodeUnavailable,
		Message: err.Error(),
	}
}
