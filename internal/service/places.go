package service

import (
	"context"
	"errors"

	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/models"
	"github.com/Dan9191/places-service/internal/repository"
)

// Place operations take the verified caller as ownerID and never look a
// place up by id alone. Concurrent updates to the same place are last write wins.

// ListPlaces returns the caller's places in storage order
func (s *Service) ListPlaces(ctx context.Context, ownerID int64) ([]models.Place, error) {
	places, err := s.places.ListPlaces(ctx, ownerID)
	if err != nil {
		return nil, storageError("list places", err)
	}
	return places, nil
}

// GetPlace returns the place if it exists and belongs to the caller
func (s *Service) GetPlace(ctx context.Context, id, ownerID int64) (*models.Place, error) {
	p, err := s.places.FindPlace(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("find place", err)
	}
	return p, nil
}

// CreatePlace validates the input and stores it as a new place owned by the caller
func (s *Service) CreatePlace(ctx context.Context, ownerID int64, in models.PlaceInput) (*models.Place, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &models.Place{OwnerID: ownerID}
	in.Apply(p)
	if err := s.places.CreatePlace(ctx, p); err != nil {
		return nil, storageError("create place", err)
	}

	logger.FromContext(ctx).WithField("placeID", p.ID).Infof("Place created: %s", p.Name)
	return p, nil
}

// UpdatePlace replaces the mutable fields of one of the caller's places
func (s *Service) UpdatePlace(ctx context.Context, id, ownerID int64, in models.PlaceInput) error {
	if in.ID != id {
		return ErrBadRequest
	}
	if err := in.Validate(); err != nil {
		return err
	}

	p, err := s.GetPlace(ctx, id, ownerID)
	if err != nil {
		return err
	}

	in.Apply(p)
	if err := s.places.UpdatePlace(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageError("update place", err)
	}

	logger.FromContext(ctx).WithField("placeID", p.ID).Info("Place updated")
	return nil
}

// DeletePlace removes one of the caller's places
func (s *Service) DeletePlace(ctx context.Context, id, ownerID int64) error {
	if _, err := s.GetPlace(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.places.DeletePlace(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageError("delete place", err)
	}

	logger.FromContext(ctx).WithField("placeID", id).Info("Place deleted")
	return nil
}
