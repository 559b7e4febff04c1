package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
	clock  clock.Clock
}

// New creates a new Redis storage instance
func New(cfg Config, clk clock.Clock) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg, clk), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
		clock:  clk,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	id, err := createPlayerScript.Run(ctx, s.client,
		[]string{s.keys.nameIndex(player.Name), s.keys.playerSeq(), s.keys.allPlayers()},
		s.keys.playerPrefix(),
		player.Name,
		player.Country,
		string(player.Gender),
		player.PasswordHash,
		player.CreatedAt.UnixMilli(),
	).Int64()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	if id == 0 {
		return model.ErrDuplicateName
	}

	player.ID = model.PlayerID(id)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	fields, err := s.client.HGetAll(ctx, s.keys.player(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return decodePlayer(fields)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	id, err := s.client.Get(ctx, s.keys.nameIndex(name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

// Score operations

func (s *Storage) RecordScore(ctx context.Context, event *model.ScoreEvent) error {
	id, err := recordScoreScript.Run(ctx, s.client,
		[]string{
			s.keys.player(event.PlayerID),
			s.keys.scores(event.PlayerID),
			s.keys.scoreSeq(),
			s.keys.leaderboard(),
		},
		int64(event.PlayerID),
		event.Value,
		event.CreatedAt.UnixMilli(),
	).Int64()
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	if id < 0 {
		return model.ErrPlayerNotFound
	}

	event.ID = model.ScoreEventID(id)
	return nil
}

func (s *Storage) ListScores(ctx context.Context, playerID model.PlayerID, limit int) ([]model.ScoreEvent, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	// Tail of the list holds the newest events
	raw, err := s.client.LRange(ctx, s.keys.scores(playerID), start, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]model.ScoreEvent, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		event, err := decodeScoreEvent(playerID, raw[i])
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	lbKey := s.keys.leaderboard()

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ranked, err := s.client.ZRevRangeWithScores(ctx, lbKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	// Equal scores come back in member order, not ID order, and the limit may
	// cut through a tie. Fetch the whole tie at the cutoff and sort locally.
	candidates := make(map[model.PlayerID]bool, len(ranked))
	for _, z := range ranked {
		id, err := parseMemberID(z.Member)
		if err != nil {
			return nil, err
		}
		candidates[id] = true
	}
	if limit > 0 && len(ranked) == limit {
		cutoff := strconv.FormatFloat(ranked[len(ranked)-1].Score, 'f', -1, 64)
		tied, err := s.client.ZRangeByScore(ctx, lbKey, &redis.ZRangeBy{Min: cutoff, Max: cutoff}).Result()
		if err != nil {
			return nil, err
		}
		for _, member := range tied {
			id, err := parseMemberID(member)
			if err != nil {
				return nil, err
			}
			candidates[id] = true
		}
	}

	// Players without a score rank last, only reached when the scored set runs out
	if limit <= 0 || len(ranked) < limit {
		all, err := s.client.SMembers(ctx, s.keys.allPlayers()).Result()
		if err != nil {
			return nil, err
		}
		for _, member := range all {
			id, err := parseMemberID(member)
			if err != nil {
				return nil, err
			}
			candidates[id] = true
		}
	}

	players, err := s.loadPlayers(ctx, candidates)
	if err != nil {
		return nil, err
	}

	model.SortByRank(players)
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// loadPlayers fetches the given players in one round trip, skipping any that vanished
func (s *Storage) loadPlayers(ctx context.Context, ids map[model.PlayerID]bool) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	ordered := make([]model.PlayerID, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ordered))
	for i, id := range ordered {
		cmds[i] = pipe.HGetAll(ctx, s.keys.player(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ordered))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := decodePlayer(fields)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// Session operations

type sessionRecord struct {
	PlayerID  model.PlayerID `json:"player_id"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	key := s.keys.session(session.Token)

	// The key lives exactly as long as the session
	ttl := session.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return s.client.Del(ctx, key).Err()
	}

	data, err := json.Marshal(sessionRecord{
		PlayerID:  session.PlayerID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.keys.session(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &model.Session{
		Token:     token,
		PlayerID:  rec.PlayerID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.keys.session(token)).Err()
}

// DeleteExpiredSessions is a no-op: Redis expires session keys itself
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// Encoding helpers

func decodePlayer(fields map[string]string) (*model.Player, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode player id: %w", err)
	}
	createdMs, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode player created_at: %w", err)
	}

	p := &model.Player{
		ID:           model.PlayerID(id),
		Name:         fields["name"],
		Country:      fields["country"],
		Gender:       model.Gender(fields["gender"]),
		PasswordHash: fields["password_hash"],
		CreatedAt:    time.UnixMilli(createdMs).UTC(),
	}
	if raw, ok := fields["best_score"]; ok {
		best, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode player best_score: %w", err)
		}
		p.BestScore = &best
	}
	return p, nil
}

// decodeScoreEvent parses the "id:value:created_ms" list entry written by recordScoreScript
func decodeScoreEvent(playerID model.PlayerID, raw string) (model.ScoreEvent, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return model.ScoreEvent{}, fmt.Errorf("decode score event %q", raw)
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return model.ScoreEvent{}, fmt.Errorf("decode score event id: %w", err)
	}
	value, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return model.ScoreEvent{}, fmt.Errorf("decode score event value: %w", err)
	}
	createdMs, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return model.ScoreEvent{}, fmt.Errorf("decode score event created_at: %w", err)
	}
	return model.ScoreEvent{
		ID:        model.ScoreEventID(id),
		PlayerID:  playerID,
		Value:     value,
		CreatedAt: time.UnixMilli(createdMs).UTC(),
	}, nil
}

func parseMemberID(member any) (model.PlayerID, error) {
	str, ok := member.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected member type %T", member)
	}
	id, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode member %q: %w", str, err)
	}
	return model.PlayerID(id), nil
}
