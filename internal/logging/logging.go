// Package logging configures the application logger and carries
// operation-scoped log fields through context.Context.
//
// Fields pushed with WithFields, ForServiceOperation or ForGitHubOperation
// live on the derived context only, so they are dropped as soon as the
// operation returns and the caller's context is used again.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gitactdash/internal/config"
)

type ctxKey struct{}

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// New creates the root logger from configuration.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput creates a logger writing to out.
func NewWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}

	return logger
}

// WithLogger stores entry in ctx.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored in ctx or one backed by the standard
// logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// WithFields returns a context whose logger carries fields in addition to
// the ones already present.
func WithFields(ctx context.Context, fields logrus.Fields) (context.Context, *logrus.Entry) {
	entry := FromContext(ctx).WithFields(fields)
	return WithLogger(ctx, entry), entry
}

// ForServiceOperation tags log lines with the service and operation name.
func ForServiceOperation(ctx context.Context, service, operation string) (context.Context, *logrus.Entry) {
	return WithFields(ctx, logrus.Fields{"service": service, "operation": operation})
}

// ForGitHubOperation tags log lines with a GitHub call and, when set, the
// repository and organization it targets.
func ForGitHubOperation(ctx context.Context, operation, repository, organization string) (context.Context, *logrus.Entry) {
	fields := logrus.Fields{"operation": operation}
	if repository != "" {
		fields["repository"] = repository
	}
	if organization != "" {
		fields["organization"] = organization
	}
	return WithFields(ctx, fields)
}

// TimeOperation logs the start of an operation and returns a function that
// logs its duration. Use it as `defer logging.TimeOperation(ctx, "op")()`.
func TimeOperation(ctx context.Context, operation string) func() {
	entry := FromContext(ctx)
	start := time.Now()
	entry.WithField("operation", operation).Debug("Starting operation")

	done := false
	return func() {
		if done {
			return
		}
		done = true
		entry.WithFields(logrus.Fields{
			"operation":   operation,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		}).Info("Completed operation")
	}
}

// Middleware attaches a request-scoped logger to every request and writes
// one access log line per request.
func Middleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logger.WithField("request_id", requestID)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), entry))

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithFields(fields).Error("Request failed")
		case status >= 400:
			entry.WithFields(fields).Warn("Request rejected")
		default:
			entry.WithFields(fields).Info("Request handled")
		}
	}
}
