package handler

import (
	"fmt"
	"net/http"

	"github.com/Dan9191/places-service/internal/models"
)

// ListPlaces handles GET /api/places
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	places, err := h.svc.ListPlaces(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// GetPlace handles GET /api/places/{id}
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	p, err := h.svc.GetPlace(r.Context(), id, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePlace handles POST /api/places
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	var in models.PlaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.CreatePlace(r.Context(), owner, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/places/%d", p.ID))
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePlace handles PUT /api/places/{id}
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	var in models.PlaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.svc.UpdatePlace(r.Context(), id, owner, in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePlace handles DELETE /api/places/{id}
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if err := h.svc.DeletePlace(r.Context(), id, owner); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
