package applications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, user_id, company, position, date_applied, status, job_url, notes, salary, location, has_referral, referral_name, referral_contact, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context, userID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
FROM applications
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Application, error) {
	query := `SELECT ` + applicationColumns + `
FROM applications
WHERE user_id = $1 AND id = $2`
	return scanApplication(r.DB.QueryRowContext(ctx, query, userID, id))
}

func (r *PGRepo) Create(ctx context.Context, a Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.UserID, a.Company, a.Position, a.DateApplied, a.Status, a.JobURL, a.Notes,
		a.Salary, a.Location, a.HasReferral, a.ReferralName, a.ReferralContact, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *PGRepo) Update(ctx context.Context, a Application) error {
	const query = `
UPDATE applications
SET company = $1, position = $2, date_applied = $3, status = $4, job_url = $5, notes = $6,
    salary = $7, location = $8, has_referral = $9, referral_name = $10, referral_contact = $11,
    updated_at = $12
WHERE user_id = $13 AND id = $14`
	res, err := r.DB.ExecContext(ctx, query,
		a.Company, a.Position, a.DateApplied, a.Status, a.JobURL, a.Notes, a.Salary, a.Location,
		a.HasReferral, a.ReferralName, a.ReferralContact, a.UpdatedAt, a.UserID, a.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var a Application
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Company,
		&a.Position,
		&a.DateApplied,
		&a.Status,
		&a.JobURL,
		&a.Notes,
		&a.Salary,
		&a.Location,
		&a.HasReferral,
		&a.ReferralName,
		&a.ReferralContact,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
