package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/places-service/internal/models"
)

// Every query below filters on owner_id together with id, so a place owned by
// someone else behaves exactly like a missing one.

// ListPlaces returns the places owned by ownerID in id order
func (r *Repository) ListPlaces(ctx context.Context, ownerID int64) ([]models.Place, error) {
	query := r.rebind(`
		SELECT id, name, description, latitude, longitude, owner_id
		FROM places
		WHERE owner_id = $1
		ORDER BY id`)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places := make([]models.Place, 0)
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

// FindPlace retrieves a place by id and owner
func (r *Repository) FindPlace(ctx context.Context, id, ownerID int64) (*models.Place, error) {
	p := &models.Place{}
	query := r.rebind(`
		SELECT id, name, description, latitude, longitude, owner_id
		FROM places
		WHERE id = $1 AND owner_id = $2`)
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find place %d: %w", id, err)
	}
	return p, nil
}

// CreatePlace inserts a place and sets its generated id
func (r *Repository) CreatePlace(ctx context.Context, p *models.Place) error {
	query := r.rebind(`
		INSERT INTO places (name, description, latitude, longitude, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`)
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Latitude, p.Longitude, p.OwnerID).
		Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create place: %w: %w", ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// UpdatePlace overwrites the mutable fields of a place owned by p.OwnerID
func (r *Repository) UpdatePlace(ctx context.Context, p *models.Place) error {
	query := r.rebind(`
		UPDATE places
		SET name = $1, description = $2, latitude = $3, longitude = $4
		WHERE id = $5 AND owner_id = $6`)
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Latitude, p.Longitude, p.ID, p.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update place %d: %w", p.ID, err)
	}
	return expectAffected(res)
}

// DeletePlace removes a place owned by ownerID
func (r *Repository) DeletePlace(ctx context.Context, id, ownerID int64) error {
	query := r.rebind(`DELETE FROM places WHERE id = $1 AND owner_id = $2`)
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete place %d: %w", id, err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
