package leaderboard

import (
	"context"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Service projects players into a ranked leaderboard on demand
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Top returns up to n players ordered by best score descending, players
// without a score last and ties by ascending ID. n is clamped to
// [1, MaxSize]; zero or less selects DefaultSize.
func (s *Service) Top(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	switch {
	case n <= 0:
		n = DefaultSize
	case n > MaxSize:
		n = MaxSize
	}

	players, err := s.storage.TopPlayers(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = model.LeaderboardEntry{Rank: i + 1, Player: *p}
	}
	return entries, nil
}
