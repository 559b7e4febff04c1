package scores

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// Errors
var (
	ErrInvalidScore = errors.New("score must be a non-negative integer no greater than 2^53-1")
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	// MaxScore is the largest integer a JSON client can represent exactly
	MaxScore = 1<<53 - 1
)

// Service is the append-only score ledger
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new score service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Record appends a score for the player. The store raises the player's best
// score in the same atomic step, so concurrent submissions cannot lose a maximum.
func (s *Service) Record(ctx context.Context, playerID model.PlayerID, value int64) (*model.ScoreEvent, error) {
	if value < 0 || value > MaxScore {
		return nil, ErrInvalidScore
	}

	event := &model.ScoreEvent{
		PlayerID:  playerID,
		Value:     value,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.RecordScore(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Debug("score recorded",
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("value", value))
	return event, nil
}

// BestScore returns the player's highest recorded score, or nil if they have none
func (s *Service) BestScore(ctx context.Context, playerID model.PlayerID) (*int64, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return player.BestScore, nil
}

// History returns the player's most recent scores, newest first.
// limit is clamped to [1, MaxHistoryLimit]; zero or less selects the default.
func (s *Service) History(ctx context.Context, playerID model.PlayerID, limit int) ([]model.ScoreEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.storage.ListScores(ctx, playerID, limit)
}
