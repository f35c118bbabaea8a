package middleware

import (
	"net/http"
	"time"

	"github.com/Dan9191/places-service/internal/metrics"
	"github.com/gorilla/mux"
)

// Metrics records request counts and latencies labelled by route template
func Metrics(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			h.ServeHTTP(rec, r)

			route := "unmatched"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
