package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sales-dashboard/internal/config"
)

func NewLogger(cfg config.LoggerConfig) *slog.Logger {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo builds the application logger on an arbitrary writer. Source
// locations are trimmed to package/file.go:line.
func NewLoggerTo(w io.Writer, cfg config.LoggerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLogLevel(cfg.Level),
		AddSource:   true,
		ReplaceAttr: shortSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
		src.File = filepath.Join(filepath.Base(filepath.Dir(src.File)), filepath.Base(src.File))
	}
	return a
}

func ParseLogLevel(level string) slog.Level {
	var l slog.Level
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

type contextKey string

const RequestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFrom tags base with the request ID carried by ctx, if any.
func LoggerFrom(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := GetRequestID(ctx); id != "" {
		return base.With("request_id", id)
	}
	return base
}
