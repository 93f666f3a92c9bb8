// Package errors carries the JSON error envelope shared by every endpoint.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeRateLimit      ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
	CodeRender         ErrorCode = "RENDER_ERROR"
	CodeTimeout        ErrorCode = "TIMEOUT"
)

var statusByCode = map[ErrorCode]int{
	CodeValidation:     http.StatusBadRequest,
	CodeBadRequest:     http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeRateLimit:      http.StatusTooManyRequests,
	CodeServiceUnavail: http.StatusServiceUnavailable,
	CodeTimeout:        http.StatusGatewayTimeout,
	CodeRender:         http.StatusInternalServerError,
	CodeInternal:       http.StatusInternalServerError,
}

// AppError is the error body returned to clients. Cause is logged but
// never serialized.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches a client-visible explanation.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func New(code ErrorCode, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func RateLimit(message string) *AppError {
	return New(CodeRateLimit, message)
}

func ServiceUnavailable(message string) *AppError {
	return New(CodeServiceUnavail, message)
}

func ServiceUnavailableWrap(err error, message string) *AppError {
	return Wrap(err, CodeServiceUnavail, message)
}

func RenderWrap(err error, message string) *AppError {
	return Wrap(err, CodeRender, message)
}

// From maps any error onto an AppError. An AppError anywhere in the chain
// wins; an expired deadline becomes a timeout; everything else is internal.
func From(err error) *AppError {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		if stderrors.Is(appErr.Cause, context.DeadlineExceeded) && appErr.Code != CodeTimeout {
			return Wrap(err, CodeTimeout, appErr.Message)
		}
		return appErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(err, CodeTimeout, "Request timed out")
	default:
		return InternalWrap(err, "An unexpected error occurred")
	}
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

// WriteError writes err as a JSON envelope. The AppError is copied so a
// shared value never carries another request's ID.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	resp := *From(err)
	resp.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: &resp}); encodeErr != nil {
		logger.Error("failed to encode error response",
			"encode_error", encodeErr,
			"original_error", err,
			"request_id", requestID,
		)
		return
	}

	level := slog.LevelError
	if resp.StatusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	logger.Log(context.Background(), level, "request failed",
		"error_code", resp.Code,
		"error_message", resp.Message,
		"status_code", resp.StatusCode,
		"request_id", requestID,
		"cause", resp.Cause,
	)
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// WriteSuccess encodes data before touching the status line, so a value
// that cannot be encoded turns into a 500 envelope instead of an empty 200.
func WriteSuccess(w http.ResponseWriter, logger *slog.Logger, data any) {
	body, err := json.Marshal(SuccessResponse{Data: data, Success: true})
	if err != nil {
		WriteError(w, logger, InternalWrap(err, "Failed to encode response"), w.Header().Get("X-Request-ID"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(body, '\n'))
}

func WriteSuccessWithHeaders(w http.ResponseWriter, logger *slog.Logger, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteSuccess(w, logger, data)
}
