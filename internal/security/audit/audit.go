package audit

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey struct{}

// WithRequestID stores the request id audit entries are tagged with.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger writes one structured entry per change to the ledger.
type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit")), now: time.Now}
}

// LogAction records action on resource/resourceID with its outcome.
func (al *Logger) LogAction(ctx context.Context, action, resource, resourceID string, err error) {
	status := "success"
	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", al.now()),
	}
	if err != nil {
		status = "failure"
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	attrs = append(attrs, slog.String("status", status))
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogDenied records a request refused before reaching a handler.
func (al *Logger) LogDenied(ctx context.Context, method, path, reason string) {
	al.logger.LogAttrs(ctx, slog.LevelWarn, "audit",
		slog.String("action", "denied"),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("reason", reason),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", al.now()),
	)
}
