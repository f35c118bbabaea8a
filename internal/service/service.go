package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/Dan9191/places-service/internal/models"
)

// Errors returned by the service. Validation failures are reported as
// models.ValidationErrors.
var (
	ErrConflict     = errors.New("user already exists")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrStorage      = errors.New("storage error")
)

// UserStore persists user credentials
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PlaceStore persists places. Lookups, updates and deletes are scoped to an owner.
type PlaceStore interface {
	ListPlaces(ctx context.Context, ownerID int64) ([]models.Place, error)
	FindPlace(ctx context.Context, id, ownerID int64) (*models.Place, error)
	CreatePlace(ctx context.Context, p *models.Place) error
	UpdatePlace(ctx context.Context, p *models.Place) error
	DeletePlace(ctx context.Context, id, ownerID int64) error
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// Service handles business logic
type Service struct {
	users     UserStore
	places    PlaceStore
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
	dummyHash string
}

// NewService initializes a new service
func NewService(users UserStore, places PlaceStore, hasher auth.PasswordHasher, tokens TokenIssuer) *Service {
	// compared against on unknown emails so login takes the same time either way
	dummy, _ := hasher.Hash("not-a-real-password")
	return &Service{
		users:     users,
		places:    places,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
