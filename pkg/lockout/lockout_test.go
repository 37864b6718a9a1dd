package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backsoul/quizgate/pkg/store"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func TestRemainingWithoutLockout(t *testing.T) {
	timer := New(store.NewMemory(), newClock().Now)
	remaining, err := timer.RemainingSeconds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	active, err := timer.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestArmAndCountdown(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := store.NewMemory()
	timer := New(s, clock.Now)

	require.NoError(t, timer.Arm(ctx, 60*time.Second))
	raw, found, err := s.Get(ctx, store.KeyCooldown)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1700000060000", raw)

	remaining, err := timer.RemainingSeconds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, remaining)

	clock.Advance(1 * time.Millisecond)
	remaining, _ = timer.RemainingSeconds(ctx)
	assert.Equal(t, 60, remaining, "se redondea hacia arriba")

	clock.Advance(999 * time.Millisecond)
	remaining, _ = timer.RemainingSeconds(ctx)
	assert.Equal(t, 59, remaining)

	clock.Advance(58*time.Second + 999*time.Millisecond)
	remaining, _ = timer.RemainingSeconds(ctx)
	assert.Equal(t, 1, remaining)

	clock.Advance(1 * time.Millisecond)
	remaining, _ = timer.RemainingSeconds(ctx)
	assert.Equal(t, 0, remaining)

	clock.Advance(time.Hour)
	active, err := timer.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLockoutSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := store.NewMemory()
	require.NoError(t, New(s, clock.Now).Arm(ctx, 30*time.Second))

	clock.Advance(10 * time.Second)
	remaining, err := New(s, clock.Now).RemainingSeconds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, remaining)
}

func TestGarbageTimestampIsInert(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Set(ctx, store.KeyCooldown, "not-a-number"))

	remaining, err := New(s, newClock().Now).RemainingSeconds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
