// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/musicchallenge/internal/factory"
	"github.com/mcoot/musicchallenge/internal/services/auth"
	"github.com/mcoot/musicchallenge/internal/services/session"
	redisstorage "github.com/mcoot/musicchallenge/internal/storage/redis"
	sqlstorage "github.com/mcoot/musicchallenge/internal/storage/sql"
)

// Config holds every setting the server reads at startup
type Config struct {
	Port     int
	LogLevel slog.Level

	StorageType string
	RedisURL    string
	DatabaseURL string
	SQLitePath  string

	BcryptCost            int
	RequireStrongPassword bool

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	CookieSecure         bool

	TracksFile string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 8080,
		LogLevel:             slog.LevelInfo,
		StorageType:          factory.StorageTypeMemory,
		SQLitePath:           "mcgame.db",
		BcryptCost:           auth.DefaultConfig().BcryptCost,
		SessionTTL:           session.DefaultConfig().TTL,
		SessionSweepInterval: time.Hour,
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(intVar("HTTP_PORT", &cfg.Port))
	collect(intVar("BCRYPT_COST", &cfg.BcryptCost))
	collect(boolVar("REQUIRE_STRONG_PASSWORD", &cfg.RequireStrongPassword))
	collect(boolVar("COOKIE_SECURE", &cfg.CookieSecure))
	collect(durationVar("SESSION_TTL", &cfg.SessionTTL))
	collect(durationVar("SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval))

	if v := env("LOG_LEVEL"); v != "" {
		collect(cfg.LogLevel.UnmarshalText([]byte(v)))
	}
	if v := env("STORAGE_TYPE"); v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	if v := env("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	cfg.RedisURL = env("REDIS_URL")
	cfg.DatabaseURL = env("DATABASE_URL")
	cfg.TracksFile = env("TRACKS_FILE")

	switch cfg.StorageType {
	case factory.StorageTypeMemory, factory.StorageTypeSQLite:
	case factory.StorageTypeRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	case factory.StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE %q is not one of memory, redis, postgres, sqlite", cfg.StorageType))
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d out of range", cfg.Port))
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if cfg.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d outside [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Factory converts the configuration into the application factory's settings
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		AuthConfig: auth.Config{
			BcryptCost:            c.BcryptCost,
			RequireStrongPassword: c.RequireStrongPassword,
		},
		SessionConfig: session.Config{
			TTL:          c.SessionTTL,
			CookieSecure: c.CookieSecure,
		},
		TracksPath:  c.TracksFile,
		Logger:      logger,
		StorageType: c.StorageType,
	}

	switch c.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.DSN = c.DatabaseURL
		fc.SQLConfig = &sqlCfg
	case factory.StorageTypeSQLite:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.Driver = sqlstorage.DriverSQLite
		sqlCfg.DSN = c.SQLitePath
		fc.SQLConfig = &sqlCfg
	}
	return fc
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func intVar(key string, dst *int) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func boolVar(key string, dst *bool) error {
	v := env(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func durationVar(key string, dst *time.Duration) error {
	v := env(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
