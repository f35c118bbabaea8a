package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/middleware"
	"github.com/Dan9191/places-service/internal/models"
	"github.com/Dan9191/places-service/internal/service"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
	db  Pinger
}

// NewHandler creates a handler for the service. db is used by the health check.
func NewHandler(svc *service.Service, db Pinger) *Handler {
	return &Handler{svc: svc, db: db}
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationProblem struct {
	Title  string                  `json:"title"`
	Status int                     `json:"status"`
	Errors models.ValidationErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.FromContext(r.Context()).WithError(err).Debug("invalid request body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError maps service errors to status codes. Storage failures are
// logged with their cause and reported without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	rlog := logger.FromContext(r.Context()).WithError(err)

	var verr models.ValidationErrors
	switch {
	case errors.As(err, &verr):
		rlog.Debug("validation failed")
		writeJSON(w, http.StatusBadRequest, validationProblem{
			Title:  "One or more validation errors occurred.",
			Status: http.StatusBadRequest,
			Errors: verr,
		})
	case errors.Is(err, service.ErrConflict):
		rlog.Info("registration conflict")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "User already exists."})
	case errors.Is(err, service.ErrUnauthorized):
		rlog.Info("login failed")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid credentials."})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id in path and body do not match"})
	default:
		rlog.Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// callerID returns the verified user id put into the context by middleware.AuthMiddleware
func callerID(r *http.Request) (int64, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	return id.UserID, ok
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// Health handles liveness and database reachability checks
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
