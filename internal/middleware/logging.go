package middleware

import (
	"net/http"
	"time"

	"github.com/Dan9191/places-service/internal/logger"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader is read from incoming requests and echoed on responses
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// RequestLogger puts a request scoped logger into the context and logs each
// completed request.
func RequestLogger(base *logrus.Logger) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, _ := logger.ContextWithLogger(r.Context(), base, r.Header.Get(RequestIDHeader))
			w.Header().Set(RequestIDHeader, logger.RequestIDFromContext(ctx))

			rec := newStatusRecorder(w)
			r = r.WithContext(ctx)
			h.ServeHTTP(rec, r)

			// identity is only known downstream, so log with the request's base entry
			logger.FromContext(ctx).WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}
