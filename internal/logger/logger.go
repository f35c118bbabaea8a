// Package logger carries a request scoped logrus entry through the context.
package logger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type for the context keys
type contextKeyRequestLoggerType struct{}

var contextKeyRequestLogger = &contextKeyRequestLoggerType{}

const (
	requestIDLoggerKey = "requestID"
	identityLoggerKey  = "identity"
)

// New returns a JSON logger at the given level. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
	return log
}

// ContextWithLogger returns a context carrying an entry derived from base with
// the given request ID. An empty requestID gets a fresh UUID. If the context
// already has a logger it is returned unchanged.
func ContextWithLogger(ctx context.Context, base *logrus.Logger, requestID string) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	} else if rlog := loggerFromContext(ctx); rlog != nil {
		return ctx, rlog
	}
	if base == nil {
		base = logrus.StandardLogger()
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rlog := base.WithField(requestIDLoggerKey, requestID)
	return context.WithValue(ctx, contextKeyRequestLogger, rlog), rlog
}

// ContextWithIdentity adds the authenticated identity to the context's logger.
func ContextWithIdentity(ctx context.Context, identity string) (context.Context, *logrus.Entry) {
	rlog := FromContext(ctx).WithField(identityLoggerKey, identity)
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKeyRequestLogger, rlog), rlog
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	rlog, ok := ctx.Value(contextKeyRequestLogger).(*logrus.Entry)
	if !ok {
		return nil
	}
	return rlog
}

// FromContext returns the logger from the context, or an entry on the
// standard logger if there is none.
func FromContext(ctx context.Context) *logrus.Entry {
	if rlog := loggerFromContext(ctx); rlog != nil {
		return rlog
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// RequestIDFromContext returns the request id for the given context.
func RequestIDFromContext(ctx context.Context) string {
	rlog := loggerFromContext(ctx)
	if rlog == nil {
		return ""
	}
	s, _ := rlog.Data[requestIDLoggerKey].(string)
	return s
}
