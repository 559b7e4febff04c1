package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api"
	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/dependencies/random"
	"github.com/mcoot/musicchallenge/internal/middleware"
	"github.com/mcoot/musicchallenge/internal/services/auth"
	"github.com/mcoot/musicchallenge/internal/services/leaderboard"
	"github.com/mcoot/musicchallenge/internal/services/scores"
	"github.com/mcoot/musicchallenge/internal/services/session"
	"github.com/mcoot/musicchallenge/internal/services/tracks"
	"github.com/mcoot/musicchallenge/internal/storage"
	"github.com/mcoot/musicchallenge/internal/storage/memory"
	redisstorage "github.com/mcoot/musicchallenge/internal/storage/redis"
	sqlstorage "github.com/mcoot/musicchallenge/internal/storage/sql"
	"github.com/mcoot/musicchallenge/internal/web"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	AuthService        *auth.Service
	SessionService     *session.Service
	ScoreService       *scores.Service
	LeaderboardService *leaderboard.Service
	Tracks             *tracks.Catalog
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionConfig holds configuration for the session service (optional)
	SessionConfig session.Config
	// TracksPath is a YAML song catalog (optional)
	// If empty, the built-in catalog is used
	TracksPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "postgres" or "sqlite")
	SQLConfig *sqlstorage.Config
}

// New creates a new application with all dependencies wired.
// The caller owns the returned App and must Close it.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	store, err := openStorage(cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(store, clk, rnd, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// openStorage creates the configured storage backend
func openStorage(cfg Config, clk clock.Clock, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig, clk)
	case StorageTypePostgres, StorageTypeSQLite:
		if cfg.SQLConfig == nil {
			return nil, fmt.Errorf("SQLConfig required when StorageType is %s", storageType)
		}
		sqlCfg := *cfg.SQLConfig
		sqlCfg.Driver = storageType
		return sqlstorage.Open(sqlCfg, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, postgres or sqlite", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) (*App, error) {
	authService, err := auth.New(store, clk, rnd, logger, cfg.AuthConfig)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	catalog, err := tracks.Load(cfg.TracksPath, rnd)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		Logger:             logger,
		AuthService:        authService,
		SessionService:     session.New(store, clk, rnd, logger, cfg.SessionConfig),
		ScoreService:       scores.New(store, clk, logger),
		LeaderboardService: leaderboard.New(store),
		Tracks:             catalog,
	}, nil
}

// Handler builds the full HTTP handler: the JSON API under /api and the
// page-data routes under /app, behind request IDs and request logging
func (a *App) Handler() http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             a.Logger,
		Clock:              a.Clock,
		AuthService:        a.AuthService,
		SessionService:     a.SessionService,
		ScoreService:       a.ScoreService,
		LeaderboardService: a.LeaderboardService,
		Tracks:             a.Tracks,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:             a.Logger,
		SessionService:     a.SessionService,
		LeaderboardService: a.LeaderboardService,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/app/", webRouter)

	return middleware.RequestID(middleware.Logging(a.Logger)(mux))
}

// Close releases the storage connection
func (a *App) Close() error {
	return a.Storage.Close()
}
