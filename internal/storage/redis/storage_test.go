package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
	"github.com/mcoot/musicchallenge/internal/storage/storagetest"
)

func newMiniStorage(t *testing.T, clk *mocks.MockClock) (*miniredis.Miniredis, *Storage) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	return mini, NewWithClient(client, DefaultConfig(), clk)
}

func TestStorageConformance(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			_, store := newMiniStorage(t, mocks.NewMockClock(storagetest.Now))
			return store
		},
	})
}

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	clock   *mocks.MockClock
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mini, s.storage = newMiniStorage(s.T(), s.clock)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) createPlayer(name string) *model.Player {
	p := &model.Player{Name: name, Country: "NZ", Gender: model.GenderMale, PasswordHash: "h", CreatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	return p
}

func (s *StorageSuite) TestCreatePlayerWritesIndexes() {
	p := s.createPlayer("Alice")

	s.True(s.mini.Exists("mcgame:idx:name:Alice"))
	s.True(s.mini.Exists("mcgame:player:1"))
	members, err := s.mini.Members("mcgame:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"1"}, members)
	s.Equal(model.PlayerID(1), p.ID)
}

func (s *StorageSuite) TestRecordScoreMaintainsLeaderboardZSet() {
	p := s.createPlayer("Alice")

	s.Require().NoError(s.storage.RecordScore(s.ctx, &model.ScoreEvent{PlayerID: p.ID, Value: 750, CreatedAt: s.clock.Now()}))
	s.Require().NoError(s.storage.RecordScore(s.ctx, &model.ScoreEvent{PlayerID: p.ID, Value: 600, CreatedAt: s.clock.Now()}))

	score, err := s.mini.ZScore("mcgame:leaderboard", "1")
	s.Require().NoError(err)
	s.Equal(float64(750), score)

	length, err := s.mini.List("mcgame:scores:1")
	s.Require().NoError(err)
	s.Len(length, 2)
}

func (s *StorageSuite) TestSessionExpiresWithTTL() {
	session := &model.Session{
		Token:     "tok",
		PlayerID:  1,
		CreatedAt: s.clock.Now(),
		ExpiresAt: s.clock.Now().Add(time.Hour),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.Equal(time.Hour, s.mini.TTL("mcgame:session:tok"))

	s.mini.FastForward(time.Hour + time.Second)

	_, err := s.storage.GetSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSaveAlreadyExpiredSessionIsNotStored() {
	session := &model.Session{
		Token:     "old",
		PlayerID:  1,
		CreatedAt: s.clock.Now().Add(-2 * time.Hour),
		ExpiresAt: s.clock.Now().Add(-time.Hour),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.False(s.mini.Exists("mcgame:session:old"))
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	other := NewWithClient(client, cfg, s.clock)
	defer func() { _ = other.Close() }()

	p := &model.Player{Name: "Alice", Gender: model.GenderFemale, CreatedAt: s.clock.Now()}
	s.Require().NoError(other.CreatePlayer(s.ctx, p))
	s.True(s.mini.Exists("other:idx:name:Alice"))

	// Same name is free under the default prefix
	s.createPlayer("Alice")
}

func (s *StorageSuite) TestDecodeScoreEventRejectsGarbage() {
	s.mini.RPush("mcgame:scores:1", "not-an-event")
	_, err := s.storage.ListScores(s.ctx, 1, 10)
	s.Error(err)
}
