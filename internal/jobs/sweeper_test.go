package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/services/session"
	"github.com/mcoot/musicchallenge/internal/storage/memory"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanExpired(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestSchedulerRunsSweepRepeatedly(t *testing.T) {
	cleaner := &countingCleaner{}
	sched, err := NewScheduler(cleaner, 20*time.Millisecond, testutil.NopLogger())
	require.NoError(t, err)

	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerSurvivesSweepErrors(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("store down")}
	sched, err := NewScheduler(cleaner, 20*time.Millisecond, testutil.NopLogger())
	require.NoError(t, err)

	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerIdleUntilStarted(t *testing.T) {
	cleaner := &countingCleaner{}
	sched, err := NewScheduler(cleaner, 10*time.Millisecond, testutil.NopLogger())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, cleaner.calls.Load())
	require.NoError(t, sched.Shutdown())
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	sessions := session.New(store, clk, mocks.NewMockRandom(), testutil.NopLogger(), session.Config{TTL: time.Hour})

	player := &model.Player{Name: "Alice", Country: "US", Gender: model.GenderFemale, PasswordHash: "x", CreatedAt: clk.Now()}
	require.NoError(t, store.CreatePlayer(ctx, player))
	old, err := sessions.Issue(ctx, player)
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	s := &Scheduler{logger: testutil.NopLogger()}
	s.sweep(sessions)

	_, err = store.GetSession(ctx, old.Token)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}
