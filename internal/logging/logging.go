// Package logging builds the logrus logger shared by every component.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	traceIDKey contextKey = "traceId"
	ownerIDKey contextKey = "ownerId"
)

// New creates a logger writing to stderr. Unknown levels fall back to info.
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(out io.Writer, level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// NewTraceID returns a fresh request trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID stores a trace ID on the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID extracts the trace ID from the context
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// WithOwnerID stores the authenticated owner on the context
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerID extracts the authenticated owner from the context
func OwnerID(ctx context.Context) string {
	if v, ok := ctx.Value(ownerIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns an entry tagged with the request trace ID and owner, if any
func FromContext(ctx context.Context, log logrus.FieldLogger) logrus.FieldLogger {
	if id := TraceID(ctx); id != "" {
		log = log.WithField("trace_id", id)
	}
	if owner := OwnerID(ctx); owner != "" {
		log = log.WithField("owner_id", owner)
	}
	return log
}
