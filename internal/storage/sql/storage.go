// Package sql is the relational storage backend, built on gorm.
// Postgres is the production driver; sqlite serves local runs and tests.
package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// rankOrder is the leaderboard order: best score desc, unscored last, ties by id
const rankOrder = "CASE WHEN best_score IS NULL THEN 1 ELSE 0 END, best_score DESC, id ASC"

// Storage is a gorm-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open connects to the database, configures the pool and migrates the schema
func Open(cfg Config, logger *slog.Logger) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(slog.NewLogLogger(logger.Handler(), slog.LevelWarn), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// One writer at a time; concurrent callers queue on the pool
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := &Storage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates every table
func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allTables()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	row := playerRow{
		Name:         player.Name,
		Country:      player.Country,
		Gender:       string(player.Gender),
		PasswordHash: player.PasswordHash,
		CreatedAt:    player.CreatedAt,
	}

	// The unique index on name is the authoritative check
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrDuplicateName
		}
		return fmt.Errorf("create player: %w", err)
	}

	player.ID = model.PlayerID(row.ID)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var row playerRow
	if err := s.db.WithContext(ctx).First(&row, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return row.toModel(), nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	var row playerRow
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player by name: %w", err)
	}
	return row.toModel(), nil
}

// Score operations

func (s *Storage) RecordScore(ctx context.Context, event *model.ScoreEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&playerRow{}).Where("id = ?", int64(event.PlayerID)).Count(&count).Error; err != nil {
			return fmt.Errorf("check player: %w", err)
		}
		if count == 0 {
			return model.ErrPlayerNotFound
		}

		row := scoreRow{
			PlayerID:  int64(event.PlayerID),
			Value:     event.Value,
			CreatedAt: event.CreatedAt,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("append score: %w", err)
		}

		// Conditional raise in one statement; concurrent writers cannot lower it
		err := tx.Model(&playerRow{}).
			Where("id = ? AND (best_score IS NULL OR best_score < ?)", int64(event.PlayerID), event.Value).
			Update("best_score", event.Value).Error
		if err != nil {
			return fmt.Errorf("raise best score: %w", err)
		}

		event.ID = model.ScoreEventID(row.ID)
		return nil
	})
}

func (s *Storage) ListScores(ctx context.Context, playerID model.PlayerID, limit int) ([]model.ScoreEvent, error) {
	q := s.db.WithContext(ctx).Where("player_id = ?", int64(playerID)).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []scoreRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	events := make([]model.ScoreEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].toModel()
	}
	return events, nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	q := s.db.WithContext(ctx).Order(rankOrder)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []playerRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}

	players := make([]*model.Player, len(rows))
	for i := range rows {
		players[i] = rows[i].toModel()
	}
	return players, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	row := sessionRow{
		Token:     session.Token,
		PlayerID:  int64(session.PlayerID),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var row sessionRow
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &model.Session{
		Token:     row.Token,
		PlayerID:  model.PlayerID(row.PlayerID),
		CreatedAt: row.CreatedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&sessionRow{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&sessionRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
