package sql

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
	"github.com/mcoot/musicchallenge/internal/storage/storagetest"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

func openTestDB(t *testing.T) *Storage {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Driver = DriverSQLite
	cfg.DSN = filepath.Join(t.TempDir(), "test.db")

	store, err := Open(cfg, testutil.NopLogger())
	require.NoError(t, err)
	return store
}

func TestStorageConformance(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return openTestDB(t) },
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"}, testutil.NopLogger())
	assert.ErrorContains(t, err, "unsupported sql driver")
}

func TestMigrateCreatesAllTables(t *testing.T) {
	store := openTestDB(t)
	defer func() { _ = store.Close() }()

	for _, table := range []string{"players", "score_events", "sessions", "friends", "friend_requests"} {
		assert.True(t, store.db.Migrator().HasTable(table), table)
	}

	// Migrating again is harmless
	require.NoError(t, store.Migrate(context.Background()))
}

func TestDeleteExpiredSessionsReportsCount(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)
	defer func() { _ = store.Close() }()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, exp := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		require.NoError(t, store.SaveSession(ctx, &model.Session{
			Token:     string(rune('a' + i)),
			PlayerID:  1,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(exp),
		}))
	}

	removed, err := store.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestRecordScoreLeavesNoEventForUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)
	defer func() { _ = store.Close() }()

	err := store.RecordScore(ctx, &model.ScoreEvent{PlayerID: 77, Value: 5, CreatedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrPlayerNotFound)

	var count int64
	require.NoError(t, store.db.Model(&scoreRow{}).Count(&count).Error)
	assert.Zero(t, count)
}
