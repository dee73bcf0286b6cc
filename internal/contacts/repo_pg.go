package contacts

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const contactColumns = `id, user_id, name, company, title, linkedin, email, notes, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context, userID string) ([]Contact, error) {
	query := `SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Contact, error) {
	query := `SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1 AND id = $2`
	return scanContact(r.DB.QueryRowContext(ctx, query, userID, id))
}

func (r *PGRepo) Create(ctx context.Context, c Contact) error {
	const query = `
INSERT INTO contacts (id, user_id, name, company, title, linkedin, email, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Company, c.Title, c.LinkedIn, c.Email, c.Notes, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PGRepo) Update(ctx context.Context, c Contact) error {
	const query = `
UPDATE contacts
SET name = $1, company = $2, title = $3, linkedin = $4, email = $5, notes = $6, updated_at = $7
WHERE user_id = $8 AND id = $9`
	res, err := r.DB.ExecContext(ctx, query,
		c.Name, c.Company, c.Title, c.LinkedIn, c.Email, c.Notes, c.UpdatedAt, c.UserID, c.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
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

func scanContact(row rowScanner) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Company, &c.Title, &c.LinkedIn, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
