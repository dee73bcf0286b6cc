package usage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGConsumeInsertsFirstRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	store := NewPGStore(db, 5)
	store.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = \$1 FOR UPDATE`).
		WithArgs("guest:g1").
		WillReturnRows(sqlmock.NewRows([]string{"plan", "limit_amount", "used", "resets_at"}))
	mock.ExpectExec(`INSERT INTO usage`).
		WithArgs("guest:g1", defaultPlan, 5, 0, now.Add(Period)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE usage SET used = \$1 WHERE user_id = \$2`).
		WithArgs(1, "guest:g1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := store.Consume(context.Background(), "guest:g1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGConsumeLimitReachedRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	store := NewPGStore(db, 2)
	store.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT plan, limit_amount, used, resets_at FROM usage`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"plan", "limit_amount", "used", "resets_at"}).
			AddRow(defaultPlan, 2, 2, now.Add(time.Hour)))
	mock.ExpectRollback()

	_, err = store.Consume(context.Background(), "u1", 1)
	assert.ErrorIs(t, err, ErrLimitReached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRefundDecrementsLockedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	store := NewPGStore(db, 5)
	store.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT plan, limit_amount, used, resets_at FROM usage`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"plan", "limit_amount", "used", "resets_at"}).
			AddRow(defaultPlan, 5, 3, now.Add(time.Hour)))
	mock.ExpectExec(`UPDATE usage SET used = \$1 WHERE user_id = \$2`).
		WithArgs(2, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := store.Refund(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Used)
	require.NoError(t, mock.ExpectationsWereMet())
}
