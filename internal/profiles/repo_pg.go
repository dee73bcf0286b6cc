package profiles

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	upsertProfileSQL = `
INSERT INTO profiles (user_id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET
  data = EXCLUDED.data,
  updated_at = now()`

	upsertBackupSQL = `
INSERT INTO profile_backups (user_id, ts, data, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id, ts) DO UPDATE SET data = EXCLUDED.data`

	pruneBackupsSQL = `
DELETE FROM profile_backups
WHERE user_id = $1 AND ts NOT IN (
  SELECT ts FROM profile_backups WHERE user_id = $1 ORDER BY ts DESC LIMIT $2
)`
)

func (r *PGRepo) Get(ctx context.Context, userID string) ([]byte, error) {
	const query = `
SELECT data
FROM profiles
WHERE user_id = $1`
	var data []byte
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *PGRepo) Put(ctx context.Context, userID string, data []byte) error {
	_, err := r.DB.ExecContext(ctx, upsertProfileSQL, userID, data)
	return err
}

func (r *PGRepo) SaveWithBackup(ctx context.Context, userID string, ts int64, data []byte, keep int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertProfileSQL, userID, data); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsertBackupSQL, userID, ts, data); err != nil {
		return err
	}
	if err := prune(ctx, tx, userID, keep); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func (r *PGRepo) PutBackup(ctx context.Context, userID string, ts int64, data []byte) error {
	_, err := r.DB.ExecContext(ctx, upsertBackupSQL, userID, ts, data)
	return err
}

func (r *PGRepo) GetBackup(ctx context.Context, userID string, ts int64) ([]byte, error) {
	const query = `
SELECT data
FROM profile_backups
WHERE user_id = $1 AND ts = $2`
	var data []byte
	if err := r.DB.QueryRowContext(ctx, query, userID, ts).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *PGRepo) ListBackups(ctx context.Context, userID string) ([]int64, error) {
	const query = `
SELECT ts
FROM profile_backups
WHERE user_id = $1
ORDER BY ts DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (r *PGRepo) PruneBackups(ctx context.Context, userID string, keep int) error {
	return prune(ctx, r.DB, userID, keep)
}

func prune(ctx context.Context, db execer, userID string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := db.ExecContext(ctx, pruneBackupsSQL, userID, keep)
	return err
}

func (r *PGRepo) Sizes(ctx context.Context, userID string) (int64, int64, int, error) {
	const query = `
SELECT
  COALESCE((SELECT octet_length(data::text) FROM profiles WHERE user_id = $1), 0),
  COALESCE((SELECT sum(octet_length(data::text)) FROM profile_backups WHERE user_id = $1), 0),
  (SELECT count(*) FROM profile_backups WHERE user_id = $1)`
	var profileBytes, backupBytes int64
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&profileBytes, &backupBytes, &count); err != nil {
		return 0, 0, 0, err
	}
	return profileBytes, backupBytes, count, nil
}

var _ Repo = (*PGRepo)(nil)
