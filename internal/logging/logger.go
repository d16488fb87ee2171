package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type ContextLogger struct {
	*logrus.Logger
}

func NewLogger() *ContextLogger {
	logger := logrus.New()
	logger.SetFormatter(jsonFormatter())
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	return &ContextLogger{Logger: logger}
}

// NewConfiguredLogger applies a level name and a format ("json" or "text").
func NewConfiguredLogger(level, format string) (*ContextLogger, error) {
	l := NewLogger()

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		l.SetLevel(parsed)
	}

	switch strings.ToLower(format) {
	case "", "json":
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "15:04:05",
			FullTimestamp:   true,
		})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return l, nil
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}

func (l *ContextLogger) WithTracing(ctx context.Context) *logrus.Entry {
	entry := l.WithContext(ctx)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		entry = entry.WithFields(logrus.Fields{
			"trace_id": spanCtx.TraceID().String(),
			"span_id":  spanCtx.SpanID().String(),
		})
	}

	return entry
}

func (l *ContextLogger) InfoWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Info(msg)
}

func (l *ContextLogger) ErrorWithTracing(ctx context.Context, msg string, err error, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func (l *ContextLogger) WarnWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Warn(msg)
}

func (l *ContextLogger) DebugWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debug(msg)
}
