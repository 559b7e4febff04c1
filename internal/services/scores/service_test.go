package scores

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage/memory"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	player  *model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.player = &model.Player{Name: "Alice", Country: "US", Gender: model.GenderFemale, PasswordHash: "x", CreatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.player))
}

// Record tests

func (s *ServiceSuite) TestRecordAppendsEvent() {
	event, err := s.service.Record(s.ctx, s.player.ID, 750)
	s.Require().NoError(err)

	s.NotZero(event.ID)
	s.Equal(s.player.ID, event.PlayerID)
	s.Equal(int64(750), event.Value)
	s.Equal(s.clock.Now(), event.CreatedAt)
}

func (s *ServiceSuite) TestRecordKeepsBestScore() {
	_, err := s.service.Record(s.ctx, s.player.ID, 750)
	s.Require().NoError(err)
	_, err = s.service.Record(s.ctx, s.player.ID, 600)
	s.Require().NoError(err)

	best, err := s.service.BestScore(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().NotNil(best)
	s.Equal(int64(750), *best)
}

func (s *ServiceSuite) TestRecordRejectsNegative() {
	_, err := s.service.Record(s.ctx, s.player.ID, -5)
	s.ErrorIs(err, ErrInvalidScore)

	events, err := s.service.History(s.ctx, s.player.ID, 0)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ServiceSuite) TestRecordRejectsAboveMaxScore() {
	_, err := s.service.Record(s.ctx, s.player.ID, MaxScore+1)
	s.ErrorIs(err, ErrInvalidScore)

	_, err = s.service.Record(s.ctx, s.player.ID, MaxScore)
	s.Require().NoError(err)

	best, err := s.service.BestScore(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().NotNil(best)
	s.Equal(int64(MaxScore), *best)
}

func (s *ServiceSuite) TestRecordUnknownPlayer() {
	_, err := s.service.Record(s.ctx, 999, 10)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestRecordConcurrentKeepsMaximum() {
	values := []int64{120, 980, 15, 431, 977, 0, 640, 979, 300, 12}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			_, err := s.service.Record(s.ctx, s.player.ID, v)
			s.NoError(err)
		}(v)
	}
	wg.Wait()

	best, err := s.service.BestScore(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(int64(980), *best)

	events, err := s.service.History(s.ctx, s.player.ID, MaxHistoryLimit)
	s.Require().NoError(err)
	s.Len(events, len(values))
}

// BestScore tests

func (s *ServiceSuite) TestBestScoreNilWithoutScores() {
	best, err := s.service.BestScore(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Nil(best)
}

func (s *ServiceSuite) TestBestScoreUnknownPlayer() {
	_, err := s.service.BestScore(s.ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// History tests

func (s *ServiceSuite) TestHistoryNewestFirst() {
	for _, v := range []int64{1, 2, 3} {
		_, err := s.service.Record(s.ctx, s.player.ID, v)
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}

	events, err := s.service.History(s.ctx, s.player.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(int64(3), events[0].Value)
	s.Equal(int64(2), events[1].Value)
}

func (s *ServiceSuite) TestHistoryClampsLimit() {
	for i := 0; i < MaxHistoryLimit+5; i++ {
		_, err := s.service.Record(s.ctx, s.player.ID, int64(i))
		s.Require().NoError(err)
	}

	events, err := s.service.History(s.ctx, s.player.ID, 0)
	s.Require().NoError(err)
	s.Len(events, DefaultHistoryLimit)

	events, err = s.service.History(s.ctx, s.player.ID, 1000)
	s.Require().NoError(err)
	s.Len(events, MaxHistoryLimit)
}
