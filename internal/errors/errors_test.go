package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{BadRequest("x"), http.StatusBadRequest},
		{Validation("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{RateLimit("x"), http.StatusTooManyRequests},
		{ServiceUnavailable("x"), http.StatusServiceUnavailable},
		{RenderWrap(stderrors.New("svg"), "x"), http.StatusInternalServerError},
		{Internal("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.err.Code, tt.err.StatusCode, tt.want)
		}
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := ServiceUnavailableWrap(cause, "reload failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.Error() != "SERVICE_UNAVAILABLE: reload failed (caused by: disk gone)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), BadRequest("bad selection").WithDetails("region"), "req-42")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Details   string `json:"details"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error.Code != string(CodeBadRequest) || resp.Error.Details != "region" || resp.Error.RequestID != "req-42" {
		t.Errorf("unexpected error body %+v", resp.Error)
	}
}

func TestWriteError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), stderrors.New("boom"), "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, discardLogger(), map[string]int{"rows": 3}, map[string]string{"Cache-Control": "no-store"})

	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("cache-control = %q", cc)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestFrom(t *testing.T) {
	shared := BadRequest("bad selection")

	tests := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"app error", shared, CodeBadRequest, http.StatusBadRequest},
		{"wrapped app error", fmt.Errorf("handler: %w", shared), CodeBadRequest, http.StatusBadRequest},
		{"deadline", fmt.Errorf("build: %w", context.DeadlineExceeded), CodeTimeout, http.StatusGatewayTimeout},
		{"render deadline", RenderWrap(context.DeadlineExceeded, "Failed to render chart"), CodeTimeout, http.StatusGatewayTimeout},
		{"plain", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if got.Code != tt.code || got.StatusCode != tt.status {
				t.Errorf("From() = %s/%d, want %s/%d", got.Code, got.StatusCode, tt.code, tt.status)
			}
		})
	}
}

func TestWriteError_DoesNotMutateSharedError(t *testing.T) {
	shared := NotFound("missing")

	WriteError(httptest.NewRecorder(), discardLogger(), shared, "req-1")

	if shared.RequestID != "" {
		t.Errorf("shared error picked up request id %q", shared.RequestID)
	}
}

func TestWriteSuccess_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("X-Request-ID", "req-7")

	WriteSuccess(w, discardLogger(), map[string]float64{"total_sales": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != CodeInternal {
		t.Errorf("unexpected body %+v", resp)
	}
	if resp.Error.RequestID != "req-7" {
		t.Errorf("request id = %q, want req-7", resp.Error.RequestID)
	}
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, discardLogger(), []string{"South"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0] != "South" {
		t.Errorf("unexpected body %+v", resp)
	}
}
