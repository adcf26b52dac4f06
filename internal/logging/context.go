package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for session identifiers.
	FieldSessionID = "session_id"
	// FieldUtteranceID is the standardized structured logging key for utterance identifiers.
	FieldUtteranceID = "utterance_id"
	// FieldManifest is the standardized structured logging key for manifest paths.
	FieldManifest = "manifest"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	utteranceIDKey
)

// WithSessionID stores a session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts a session identifier from the context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithUtteranceID stores an utterance identifier on the context.
func WithUtteranceID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, utteranceIDKey, id)
}

// UtteranceIDFromContext extracts an utterance identifier from the context.
func UtteranceIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(utteranceIDKey).(int)
	return id, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if id, ok := UtteranceIDFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldUtteranceID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
