package service_test

import (
	"context"
	"fmt"

	"github.com/Dan9191/places-service/internal/models"
	"github.com/Dan9191/places-service/internal/repository"
)

// fakeStore is an in-memory UserStore and PlaceStore
type fakeStore struct {
	users       map[string]models.User
	places      []models.Place
	nextUserID  int64
	nextPlaceID int64
	writes      int

	// err, when set, is returned by every call
	err error
	// duplicateOnInsert simulates losing a registration race
	duplicateOnInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]models.User{}}
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Email]; ok || f.duplicateOnInsert {
		return fmt.Errorf("failed to create user: %w", repository.ErrDuplicate)
	}
	f.writes++
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.Email] = *user
	return nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) ListPlaces(_ context.Context, ownerID int64) ([]models.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Place, 0)
	for _, p := range f.places {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) index(id, ownerID int64) int {
	for i, p := range f.places {
		if p.ID == id && p.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (f *fakeStore) FindPlace(_ context.Context, id, ownerID int64) (*models.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := f.index(id, ownerID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	p := f.places[i]
	return &p, nil
}

func (f *fakeStore) CreatePlace(_ context.Context, p *models.Place) error {
	if f.err != nil {
		return f.err
	}
	f.writes++
	f.nextPlaceID++
	p.ID = f.nextPlaceID
	f.places = append(f.places, *p)
	return nil
}

func (f *fakeStore) UpdatePlace(_ context.Context, p *models.Place) error {
	if f.err != nil {
		return f.err
	}
	i := f.index(p.ID, p.OwnerID)
	if i < 0 {
		return repository.ErrNotFound
	}
	f.writes++
	f.places[i] = *p
	return nil
}

func (f *fakeStore) DeletePlace(_ context.Context, id, ownerID int64) error {
	if f.err != nil {
		return f.err
	}
	i := f.index(id, ownerID)
	if i < 0 {
		return repository.ErrNotFound
	}
	f.writes++
	f.places = append(f.places[:i], f.places[i+1:]...)
	return nil
}
