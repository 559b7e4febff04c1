package storage

import (
	"context"
	"time"

	"github.com/mcoot/musicchallenge/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations are the authoritative enforcement point for the invariants
// that must hold under concurrent writers: CreatePlayer rejects a taken name
// with model.ErrDuplicateName, and RecordScore appends the event and raises
// the player's best score as one atomic unit.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)

	// Score operations
	RecordScore(ctx context.Context, event *model.ScoreEvent) error
	ListScores(ctx context.Context, playerID model.PlayerID, limit int) ([]model.ScoreEvent, error)
	TopPlayers(ctx context.Context, limit int) ([]*model.Player, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Close releases the underlying connections
	Close() error
}
