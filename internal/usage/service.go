package usage

import (
	"context"
	"database/sql"
)

type store interface {
	Get(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Refund(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service manages AI credits per principal via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(limit int) *Service {
	return &Service{store: newMemoryStore(normalizeLimit(limit))}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(db *sql.DB, limit int) *Service {
	return &Service{store: NewPGStore(db, normalizeLimit(limit))}
}

// Get returns the current usage, starting a new window if the last one ended.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.store.Get(ctx, userID)
}

// Consume records n credits, failing with ErrLimitReached past the limit.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return Usage{}, ErrInvalidAmount
	}
	return s.store.Consume(ctx, userID, n)
}

// Refund gives back n credits taken by Consume, never going below zero.
func (s *Service) Refund(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return Usage{}, ErrInvalidAmount
	}
	return s.store.Refund(ctx, userID, n)
}

// Reset sets usage to zero and starts a new window.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.store.Reset(ctx, userID)
}
