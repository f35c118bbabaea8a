package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/models"
	"github.com/Dan9191/places-service/internal/repository"
)

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, email, password string) error {
	if err := (models.Credentials{Email: email, Password: password}).Validate(); err != nil {
		return err
	}

	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrConflict
	case !errors.Is(err, repository.ErrNotFound):
		return storageError("find user", err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		errs := models.ValidationErrors{}
		errs.Add("passwordHash", "The field PasswordHash must be at most 72 bytes long.")
		return errs
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrConflict
		}
		return storageError("create user", err)
	}

	logger.FromContext(ctx).WithField("userID", user.ID).Infof("User registered: %s", user.Email)
	return nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", storageError("find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	logger.FromContext(ctx).WithField("userID", user.ID).Infof("User logged in: %s", user.Email)
	return token, nil
}
