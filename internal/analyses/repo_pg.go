package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO analyses (id, user_id, kind, job_description, overall_score, provider, model, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var score sql.NullInt64
	if a.OverallScore != nil {
		score = sql.NullInt64{Int64: int64(*a.OverallScore), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.UserID, string(a.Kind), a.JobDescription, score, a.Provider, a.Model, []byte(a.Result), a.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, kind, job_description, overall_score, provider, model, result, created_at
FROM analyses
WHERE id = $1 AND user_id = $2`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// ListByUser omits the result payload; fetch a single analysis for the full body.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, kind, job_description, overall_score, provider, model, '{}'::jsonb, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		a.Result = nil
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var kind string
	var score sql.NullInt64
	var result []byte
	if err := row.Scan(&a.ID, &a.UserID, &kind, &a.JobDescription, &score, &a.Provider, &a.Model, &result, &a.CreatedAt); err != nil {
		return Analysis{}, err
	}
	a.Kind = Kind(kind)
	if score.Valid {
		v := int(score.Int64)
		a.OverallScore = &v
	}
	a.Result = result
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
