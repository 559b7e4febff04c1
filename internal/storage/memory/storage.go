package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// All returned values are copies; callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID
	scores    map[model.PlayerID][]model.ScoreEvent
	sessions  map[string]*model.Session

	nextPlayerID model.PlayerID
	nextScoreID  model.ScoreEventID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:      make(map[model.PlayerID]*model.Player),
		nameIndex:    make(map[string]model.PlayerID),
		scores:       make(map[model.PlayerID][]model.ScoreEvent),
		sessions:     make(map[string]*model.Session),
		nextPlayerID: 1,
		nextScoreID:  1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.nameIndex[player.Name]; taken {
		return model.ErrDuplicateName
	}

	player.ID = s.nextPlayerID
	s.nextPlayerID++

	stored := copyPlayer(player)
	s.players[player.ID] = stored
	s.nameIndex[player.Name] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(player), nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(s.players[id]), nil
}

// Score operations

func (s *Storage) RecordScore(ctx context.Context, event *model.ScoreEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[event.PlayerID]
	if !ok {
		return model.ErrPlayerNotFound
	}

	event.ID = s.nextScoreID
	s.nextScoreID++
	s.scores[event.PlayerID] = append(s.scores[event.PlayerID], *event)

	if player.BestScore == nil || event.Value > *player.BestScore {
		best := event.Value
		player.BestScore = &best
	}
	return nil
}

func (s *Storage) ListScores(ctx context.Context, playerID model.PlayerID, limit int) ([]model.ScoreEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.scores[playerID]
	if limit <= 0 || limit > len(events) {
		limit = len(events)
	}

	// Newest first
	result := make([]model.ScoreEvent, 0, limit)
	for i := len(events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, events[i])
	}
	return result, nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	s.mu.RLock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, copyPlayer(p))
	}
	s.mu.RUnlock()

	model.SortByRank(players)
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	s.sessions[session.Token] = &stored
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	result := *session
	return &result, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func copyPlayer(p *model.Player) *model.Player {
	c := *p
	if p.BestScore != nil {
		best := *p.BestScore
		c.BestScore = &best
	}
	return &c
}
