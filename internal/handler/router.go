package handler

import (
	"net/http"

	"github.com/Dan9191/places-service/internal/metrics"
	"github.com/Dan9191/places-service/internal/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds what the router needs besides the handler
type RouterConfig struct {
	Verifier       middleware.TokenVerifier
	Logger         *logrus.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter wires the public auth routes, the token protected place routes
// and the health and metrics endpoints.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(cfg.Logger), middleware.Metrics(cfg.Metrics))

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// Public routes
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	places := r.PathPrefix("/api/places").Subrouter()
	places.Use(middleware.AuthMiddleware(cfg.Verifier))
	places.HandleFunc("", h.ListPlaces).Methods(http.MethodGet)
	places.HandleFunc("", h.CreatePlace).Methods(http.MethodPost)
	places.HandleFunc("/{id:[0-9]+}", h.GetPlace).Methods(http.MethodGet)
	places.HandleFunc("/{id:[0-9]+}", h.UpdatePlace).Methods(http.MethodPut)
	places.HandleFunc("/{id:[0-9]+}", h.DeletePlace).Methods(http.MethodDelete)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{"Location", middleware.RequestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(cfg.Logger), handlers.PrintRecoveryStack(true))

	return recovery(cors(handlers.CompressHandler(r)))
}
