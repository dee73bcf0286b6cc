package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB    *sql.DB
	limit int
	now   func() time.Time
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB, limit int) *pgStore {
	return &pgStore{DB: db, limit: normalizeLimit(limit), now: time.Now}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.Consume(ctx, userID, 0)
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.update(ctx, userID, func(u *Usage) error {
		if n <= 0 {
			return nil
		}
		if u.Used+n > u.Limit {
			return ErrLimitReached
		}
		u.Used += n
		return nil
	})
}

func (s *pgStore) Refund(ctx context.Context, userID string, n int) (Usage, error) {
	return s.update(ctx, userID, func(u *Usage) error {
		u.Used = max(u.Used-n, 0)
		return nil
	})
}

// update applies fn to the locked row and writes used back if it changed.
func (s *pgStore) update(ctx context.Context, userID string, fn func(u *Usage) error) (u Usage, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	u, err = s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	before := u.Used
	if err = fn(&u); err != nil {
		return u, err
	}
	if u.Used != before {
		if _, err = tx.ExecContext(ctx, `UPDATE usage SET used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
			return Usage{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	u := newUsage(s.limit, s.now())
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, limit_amount = EXCLUDED.limit_amount, resets_at = EXCLUDED.resets_at`,
		userID, u.Plan, u.Limit, u.ResetsAt); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// lockAndEnsure loads the row FOR UPDATE, creating it or rolling the window as needed.
func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	now := s.now().UTC()
	var u Usage
	err := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if errors.Is(err, sql.ErrNoRows) {
		u = newUsage(s.limit, now)
		if _, err = tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
			return Usage{}, err
		}
		return u, nil
	}
	if err != nil {
		return Usage{}, err
	}

	rolled, changed := roll(u, now)
	if changed || rolled.Limit != s.limit {
		rolled.Limit = s.limit
		if _, err = tx.ExecContext(ctx, `UPDATE usage SET used = $1, limit_amount = $2, resets_at = $3 WHERE user_id = $4`,
			rolled.Used, rolled.Limit, rolled.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	return rolled, nil
}
