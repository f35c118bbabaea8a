// Package middleware holds the gorilla/mux middlewares shared by all routes.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/Dan9191/places-service/internal/logger"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// TokenVerifier validates a bearer token and returns who it belongs to
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type contextKeyIdentityType struct{}

var contextKeyIdentity = &contextKeyIdentityType{}

// ContextWithIdentity returns a context carrying the verified caller
func ContextWithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, id)
}

// IdentityFromContext returns the caller verified by AuthMiddleware
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(contextKeyIdentity).(auth.Identity)
	return id, ok
}

// AuthMiddleware rejects requests without a valid bearer token with
// http.StatusUnauthorized. Accepted requests carry the identity in their context.
func AuthMiddleware(verifier TokenVerifier) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rlog := logger.FromContext(r.Context())

			tokenString, ok := bearerToken(r)
			if !ok {
				rlog.Debugln("missing or malformed authorization header")
				unauthorized(w)
				return
			}
			id, err := verifier.Verify(tokenString)
			if err != nil {
				rlog.WithError(err).Infoln("rejected bearer token")
				unauthorized(w)
				return
			}

			ctx, _ := logger.ContextWithIdentity(r.Context(), strconv.FormatInt(id.UserID, 10))
			ctx = ContextWithIdentity(ctx, id)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < 8 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
