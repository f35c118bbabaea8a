package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/Dan9191/places-service/internal/handler"
	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/metrics"
	"github.com/Dan9191/places-service/internal/models"
	"github.com/Dan9191/places-service/internal/repository"
	"github.com/Dan9191/places-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router http.Handler
	db     *sql.DB
	repo   *repository.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "places.db") + "?_pragma=foreign_keys(1)"
	require.NoError(t, repository.Migrate(ctx, repository.DriverSQLite, dsn))
	db, err := repository.Open(ctx, repository.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewRepository(db, repository.DriverSQLite)
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "places-api", "places-clients")
	svc := service.NewService(repo, repo, hasher, tokens)

	log := logger.New("error")
	log.SetOutput(io.Discard)
	router := handler.NewRouter(handler.NewHandler(svc, repo), handler.RouterConfig{
		Verifier:       tokens,
		Logger:         log,
		Metrics:        metrics.New(),
		AllowedOrigins: []string{"*"},
	})
	return &testServer{router: router, db: db, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "passwordHash": "pw-" + email}
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodePlace(t *testing.T, rec *httptest.ResponseRecorder) models.Place {
	t.Helper()
	var p models.Place
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func eiffelBody() map[string]any {
	return map[string]any{
		"name":        "Eiffel Tower",
		"description": "Famous Paris landmark",
		"latitude":    48.8584,
		"longitude":   2.2945,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "a@example.com", "passwordHash": "secret"}

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User registered successfully.", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists.")

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@example.com", "passwordHash": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "passwordHash": "secret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)

	user, err := s.repo.FindUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegister_BadBodies(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"passwordHash"`)
}

func TestPlaces_RequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/places"},
		{http.MethodPost, "/api/places"},
		{http.MethodGet, "/api/places/1"},
		{http.MethodPut, "/api/places/1"},
		{http.MethodDelete, "/api/places/1"},
	} {
		rec := s.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)

		rec = s.do(t, tc.method, tc.path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestEiffelTowerScenario(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")
	bob := s.signUp(t, "bob@example.com")

	rec := s.do(t, http.MethodPost, "/api/places", alice, eiffelBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodePlace(t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, fmt.Sprintf("/api/places/%d", created.ID), rec.Header().Get("Location"))

	path := fmt.Sprintf("/api/places/%d", created.ID)
	rec = s.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodePlace(t, rec)
	assert.Equal(t, "Eiffel Tower", got.Name)
	assert.Equal(t, "Famous Paris landmark", got.Description)
	assert.Equal(t, 48.8584, got.Latitude)
	assert.Equal(t, 2.2945, got.Longitude)

	rec = s.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlace_InvalidLatitude(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")

	body := eiffelBody()
	body["latitude"] = 200
	rec := s.do(t, http.MethodPost, "/api/places", alice, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem struct {
		Status int                 `json:"status"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, []string{"The field Latitude must be between -90 and 90."}, problem.Errors["latitude"])
	assert.Len(t, problem.Errors, 1)

	rec = s.do(t, http.MethodGet, "/api/places", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreatePlace_IgnoresClientIDAndOwner(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")
	bob := s.signUp(t, "bob@example.com")

	body := eiffelBody()
	body["id"] = 777
	body["ownerId"] = 999
	rec := s.do(t, http.MethodPost, "/api/places", bob, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodePlace(t, rec)
	assert.NotEqual(t, int64(777), created.ID)
	assert.NotEqual(t, int64(999), created.OwnerID)

	rec = s.do(t, http.MethodGet, "/api/places", alice, nil)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/places", bob, nil)
	var list []models.Place
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestUpdatePlace(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")
	bob := s.signUp(t, "bob@example.com")

	rec := s.do(t, http.MethodPost, "/api/places", alice, eiffelBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodePlace(t, rec)
	path := fmt.Sprintf("/api/places/%d", created.ID)

	update := map[string]any{
		"id":          created.ID,
		"name":        "Tour Eiffel",
		"description": "La dame de fer",
		"latitude":    48.858,
		"longitude":   2.294,
	}

	mismatch := map[string]any{}
	for k, v := range update {
		mismatch[k] = v
	}
	mismatch["id"] = created.ID + 1
	rec = s.do(t, http.MethodPut, path, alice, mismatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, path, bob, update)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/places/9999", alice, map[string]any{
		"id": 9999, "name": "Nowhere", "description": "d", "latitude": 0, "longitude": 0,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPut, path, alice, update)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = s.do(t, http.MethodGet, path, alice, nil)
		got := decodePlace(t, rec)
		assert.Equal(t, models.Place{
			ID: created.ID, Name: "Tour Eiffel", Description: "La dame de fer",
			Latitude: 48.858, Longitude: 2.294, OwnerID: created.OwnerID,
		}, got)
	}

	invalid := map[string]any{"id": created.ID, "name": "ab", "description": "d", "latitude": 0, "longitude": 0}
	rec = s.do(t, http.MethodPut, path, alice, invalid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name"`)
}

func TestDeletePlace_OtherOwner(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")
	bob := s.signUp(t, "bob@example.com")

	rec := s.do(t, http.MethodPost, "/api/places", alice, eiffelBody())
	created := decodePlace(t, rec)
	path := fmt.Sprintf("/api/places/%d", created.ID)

	rec = s.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")

	rec := s.do(t, http.MethodGet, "/api/places/abc", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/places/99999999999999999999", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageFailureIsOpaque(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice@example.com")
	require.NoError(t, s.db.Close())

	rec := s.do(t, http.MethodPost, "/api/places", alice, eiffelBody())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "passwordHash": "pw"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `places_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
	req.Header.Set("Origin", "https://map.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
