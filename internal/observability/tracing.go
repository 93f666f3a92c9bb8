package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one unit of work: an HTTP request or a pipeline stage.
type Span struct {
	TraceID   string            `json:"trace_id"`
	SpanID    string            `json:"span_id"`
	ParentID  string            `json:"parent_id,omitempty"`
	Operation string            `json:"operation"`
	StartTime time.Time         `json:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	Duration  *time.Duration    `json:"duration,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	Status    SpanStatus        `json:"status"`
	Error     string            `json:"error,omitempty"`
}

type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

type spanContextKey struct{}

// StartSpan opens a span, nesting it under any span already in ctx.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		SpanID:    uuid.NewString(),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
		Tags:      make(map[string]string),
	}

	if parent := GetSpan(ctx); parent != nil {
		span.ParentID = parent.SpanID
		span.TraceID = parent.TraceID
	} else if requestID := GetRequestID(ctx); requestID != "" {
		span.TraceID = requestID
	} else {
		span.TraceID = uuid.NewString()
	}

	return context.WithValue(ctx, spanContextKey{}, span), span
}

func (s *Span) Finish() {
	now := time.Now()
	s.EndTime = &now
	duration := now.Sub(s.StartTime)
	s.Duration = &duration
}

// End finishes the span and records it at debug level.
func (s *Span) End(logger *slog.Logger) {
	s.Finish()
	if logger == nil {
		return
	}

	attrs := []any{
		"operation", s.Operation,
		"trace_id", s.TraceID,
		"span_id", s.SpanID,
		"duration", *s.Duration,
		"status", s.Status,
	}
	if s.ParentID != "" {
		attrs = append(attrs, "parent_id", s.ParentID)
	}
	for k, v := range s.Tags {
		attrs = append(attrs, k, v)
	}
	if s.Error != "" {
		attrs = append(attrs, "error", s.Error)
	}
	logger.Debug("span finished", attrs...)
}

func (s *Span) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[key] = value
}

func (s *Span) SetError(err error) {
	s.Status = SpanStatusError
	if err != nil {
		s.Error = err.Error()
	}
}

func GetSpan(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		return span
	}
	return nil
}
