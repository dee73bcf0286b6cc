package users

import (
	"context"
	"errors"
	"strings"

	"resume-builder/internal/shared/telemetry"
)

var errMissingIdentity = errors.New("user id and email are required")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth records the identity returned by the OAuth provider.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errMissingIdentity
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return err
	}
	telemetry.Info("user.upserted", map[string]any{"user_id": user.ID})
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}
