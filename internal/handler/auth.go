package handler

import (
	"net/http"

	"github.com/Dan9191/places-service/internal/models"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if err := h.svc.Register(r.Context(), creds.Email, creds.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "User registered successfully.")
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	token, err := h.svc.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
