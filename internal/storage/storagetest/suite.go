// Package storagetest holds the behaviour every storage backend must share.
// Backend packages run it from their own tests with a constructor for a fresh store.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// Now is the reference time used for sessions and events in the suite.
// Backends that track expiry with their own clock should be pinned to it.
var Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Suite is the shared storage conformance suite
type Suite struct {
	suite.Suite

	// NewStorage returns an empty store for each test
	NewStorage func() storage.Storage

	Store storage.Storage
	Ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.Store = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) createPlayer(name string) *model.Player {
	p := &model.Player{
		Name:         name,
		Country:      "US",
		Gender:       model.GenderFemale,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    Now,
	}
	s.Require().NoError(s.Store.CreatePlayer(s.Ctx, p))
	return p
}

func (s *Suite) record(id model.PlayerID, value int64) {
	s.Require().NoError(s.Store.RecordScore(s.Ctx, &model.ScoreEvent{PlayerID: id, Value: value, CreatedAt: Now}))
}

// Player tests

func (s *Suite) TestCreatePlayerAssignsDistinctIDs() {
	alice := s.createPlayer("Alice")
	bob := s.createPlayer("Bob")

	s.NotZero(alice.ID)
	s.NotZero(bob.ID)
	s.NotEqual(alice.ID, bob.ID)
}

func (s *Suite) TestGetPlayerRoundTrip() {
	alice := s.createPlayer("Alice")

	got, err := s.Store.GetPlayer(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)
	s.Equal("US", got.Country)
	s.Equal(model.GenderFemale, got.Gender)
	s.Equal("$2a$10$hash", got.PasswordHash)
	s.Nil(got.BestScore)
	s.True(Now.Equal(got.CreatedAt))
}

func (s *Suite) TestGetPlayerByName() {
	alice := s.createPlayer("Alice")

	got, err := s.Store.GetPlayerByName(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(alice.ID, got.ID)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, 9999)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Store.GetPlayerByName(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerRejectsDuplicateName() {
	s.createPlayer("Bob")

	err := s.Store.CreatePlayer(s.Ctx, &model.Player{
		Name: "Bob", Country: "UK", Gender: model.GenderMale, PasswordHash: "x", CreatedAt: Now,
	})
	s.ErrorIs(err, model.ErrDuplicateName)
}

func (s *Suite) TestConcurrentCreateSameNameHasOneWinner() {
	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Store.CreatePlayer(s.Ctx, &model.Player{
				Name:         "Bob",
				Country:      fmt.Sprintf("C%d", i),
				Gender:       model.GenderMale,
				PasswordHash: "x",
				CreatedAt:    Now,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrDuplicateName)
	}
	s.Equal(1, succeeded)

	top, err := s.Store.TopPlayers(s.Ctx, 100)
	s.Require().NoError(err)
	s.Len(top, 1)
}

// Score tests

func (s *Suite) TestRecordScoreSetsBestScore() {
	alice := s.createPlayer("Alice")

	s.record(alice.ID, 750)
	s.record(alice.ID, 600)

	got, err := s.Store.GetPlayer(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.BestScore)
	s.Equal(int64(750), *got.BestScore)
}

func (s *Suite) TestRecordScoreZeroCountsAsScore() {
	alice := s.createPlayer("Alice")

	s.record(alice.ID, 0)

	got, err := s.Store.GetPlayer(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.BestScore)
	s.Equal(int64(0), *got.BestScore)
}

func (s *Suite) TestRecordScoreExactAboveFloatPrecision() {
	alice := s.createPlayer("Alice")
	bob := s.createPlayer("Bob")

	// Adjacent integers that share one float64 value
	s.record(alice.ID, 9007199254740992)
	s.record(alice.ID, 9007199254740993)
	s.record(bob.ID, 9007199254740993)
	s.record(bob.ID, 9007199254740992)

	for _, id := range []model.PlayerID{alice.ID, bob.ID} {
		got, err := s.Store.GetPlayer(s.Ctx, id)
		s.Require().NoError(err)
		s.Require().NotNil(got.BestScore)
		s.Equal(int64(9007199254740993), *got.BestScore)
	}

	top, err := s.Store.TopPlayers(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(alice.ID, top[0].ID)
}

func (s *Suite) TestRecordScoreAssignsID() {
	alice := s.createPlayer("Alice")

	first := &model.ScoreEvent{PlayerID: alice.ID, Value: 1, CreatedAt: Now}
	second := &model.ScoreEvent{PlayerID: alice.ID, Value: 2, CreatedAt: Now}
	s.Require().NoError(s.Store.RecordScore(s.Ctx, first))
	s.Require().NoError(s.Store.RecordScore(s.Ctx, second))

	s.NotZero(first.ID)
	s.NotEqual(first.ID, second.ID)
}

func (s *Suite) TestRecordScoreUnknownPlayer() {
	err := s.Store.RecordScore(s.Ctx, &model.ScoreEvent{PlayerID: 4242, Value: 10, CreatedAt: Now})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	events, err := s.Store.ListScores(s.Ctx, 4242, 10)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *Suite) TestConcurrentRecordKeepsMaximum() {
	alice := s.createPlayer("Alice")

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			s.NoError(s.Store.RecordScore(s.Ctx, &model.ScoreEvent{PlayerID: alice.ID, Value: v, CreatedAt: Now}))
		}(int64((i * 7) % writers * 10))
	}
	wg.Wait()

	got, err := s.Store.GetPlayer(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.BestScore)
	s.Equal(int64((writers-1)*10), *got.BestScore)

	events, err := s.Store.ListScores(s.Ctx, alice.ID, 100)
	s.Require().NoError(err)
	s.Len(events, writers)
}

func (s *Suite) TestListScoresNewestFirstWithLimit() {
	alice := s.createPlayer("Alice")
	for i := int64(1); i <= 5; i++ {
		s.Require().NoError(s.Store.RecordScore(s.Ctx, &model.ScoreEvent{
			PlayerID:  alice.ID,
			Value:     i * 100,
			CreatedAt: Now.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := s.Store.ListScores(s.Ctx, alice.ID, 3)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(int64(500), events[0].Value)
	s.Equal(int64(400), events[1].Value)
	s.Equal(int64(300), events[2].Value)
	s.Equal(alice.ID, events[0].PlayerID)
	s.True(Now.Add(5 * time.Minute).Equal(events[0].CreatedAt))
}

func (s *Suite) TestListScoresIsPerPlayer() {
	alice := s.createPlayer("Alice")
	bob := s.createPlayer("Bob")
	s.record(alice.ID, 10)
	s.record(bob.ID, 20)

	events, err := s.Store.ListScores(s.Ctx, bob.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(int64(20), events[0].Value)
}

// Leaderboard tests

func (s *Suite) TestTopPlayersOrdering() {
	noScore := s.createPlayer("NoScore")
	low := s.createPlayer("Low")
	tieA := s.createPlayer("TieA")
	high := s.createPlayer("High")
	tieB := s.createPlayer("TieB")

	s.record(low.ID, 100)
	s.record(tieB.ID, 500)
	s.record(tieA.ID, 500)
	s.record(high.ID, 900)

	top, err := s.Store.TopPlayers(s.Ctx, 10)
	s.Require().NoError(err)

	names := make([]string, len(top))
	for i, p := range top {
		names[i] = p.Name
	}
	s.Equal([]string{"High", "TieA", "TieB", "Low", "NoScore"}, names)
	s.Nil(top[4].BestScore)
	s.Equal(noScore.ID, top[4].ID)
}

func (s *Suite) TestTopPlayersLimit() {
	for i := 0; i < 12; i++ {
		p := s.createPlayer(fmt.Sprintf("P%02d", i))
		s.record(p.ID, int64(i))
	}

	top, err := s.Store.TopPlayers(s.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 10)
	s.Equal("P11", top[0].Name)
	s.Equal("P02", top[9].Name)
}

func (s *Suite) TestTopPlayersLimitCutsThroughTies() {
	var ids []model.PlayerID
	for i := 0; i < 4; i++ {
		p := s.createPlayer(fmt.Sprintf("Tie%d", i))
		ids = append(ids, p.ID)
		s.record(p.ID, 50)
	}

	top, err := s.Store.TopPlayers(s.Ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(ids[0], top[0].ID)
	s.Equal(ids[1], top[1].ID)
}

func (s *Suite) TestTopPlayersEmpty() {
	top, err := s.Store.TopPlayers(s.Ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

// Session tests

func (s *Suite) TestSessionRoundTrip() {
	alice := s.createPlayer("Alice")
	session := &model.Session{
		Token:     "tok-alice",
		PlayerID:  alice.ID,
		CreatedAt: Now,
		ExpiresAt: Now.Add(time.Hour),
	}
	s.Require().NoError(s.Store.SaveSession(s.Ctx, session))

	got, err := s.Store.GetSession(s.Ctx, "tok-alice")
	s.Require().NoError(err)
	s.Equal(alice.ID, got.PlayerID)
	s.True(session.ExpiresAt.Equal(got.ExpiresAt))
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Store.GetSession(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestDeleteSessionIsIdempotent() {
	s.Require().NoError(s.Store.SaveSession(s.Ctx, &model.Session{
		Token: "tok", PlayerID: 1, CreatedAt: Now, ExpiresAt: Now.Add(time.Hour),
	}))

	s.Require().NoError(s.Store.DeleteSession(s.Ctx, "tok"))
	s.Require().NoError(s.Store.DeleteSession(s.Ctx, "tok"))

	_, err := s.Store.GetSession(s.Ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestDeleteExpiredSessions() {
	s.Require().NoError(s.Store.SaveSession(s.Ctx, &model.Session{
		Token: "old", PlayerID: 1, CreatedAt: Now.Add(-2 * time.Hour), ExpiresAt: Now.Add(-time.Hour),
	}))
	s.Require().NoError(s.Store.SaveSession(s.Ctx, &model.Session{
		Token: "live", PlayerID: 1, CreatedAt: Now, ExpiresAt: Now.Add(time.Hour),
	}))

	_, err := s.Store.DeleteExpiredSessions(s.Ctx, Now)
	s.Require().NoError(err)

	_, err = s.Store.GetSession(s.Ctx, "old")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.Store.GetSession(s.Ctx, "live")
	s.NoError(err)
}
