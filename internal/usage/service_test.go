package usage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeUntilLimit(t *testing.T) {
	svc := NewService(2)
	ctx := context.Background()

	u, err := svc.Consume(ctx, "guest:a", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
	assert.Equal(t, 1, u.Remaining())

	_, err = svc.Consume(ctx, "guest:a", 1)
	require.NoError(t, err)

	u, err = svc.Get(ctx, "guest:a")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Remaining())
	assert.Equal(t, 2, u.Used)

	_, err = svc.Consume(ctx, "guest:a", 1)
	assert.ErrorIs(t, err, ErrLimitReached)

	other, err := svc.Get(ctx, "guest:b")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Used)
}

func TestWindowRollsOver(t *testing.T) {
	store := newMemoryStore(3)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	svc := &Service{store: store}
	ctx := context.Background()

	_, err := svc.Consume(ctx, "u1", 3)
	require.NoError(t, err)
	_, err = svc.Consume(ctx, "u1", 1)
	require.ErrorIs(t, err, ErrLimitReached)

	clock = clock.Add(Period)
	u, err := svc.Consume(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
	assert.Equal(t, clock.Add(Period), u.ResetsAt)
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService(0)
	ctx := context.Background()
	_, err := svc.Consume(ctx, "u1", 5)
	require.NoError(t, err)

	u, err := svc.Reset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
	assert.Equal(t, DefaultLimit, u.Limit)
}

func TestConsumeRejectsNonPositive(t *testing.T) {
	svc := NewService(5)
	_, err := svc.Consume(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	u, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
}

func TestRefundReturnsReservedCredit(t *testing.T) {
	svc := NewService(2)
	ctx := context.Background()

	_, err := svc.Consume(ctx, "u1", 2)
	require.NoError(t, err)
	u, err := svc.Refund(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)

	u, err = svc.Refund(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used, "never below zero")

	_, err = svc.Refund(ctx, "u1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
