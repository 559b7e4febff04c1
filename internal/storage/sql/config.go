package sql

import "time"

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds relational database settings
type Config struct {
	// Driver selects the gorm dialector ("postgres" or "sqlite")
	Driver string
	// DSN is the connection string, or the database file path for sqlite
	DSN string

	// Pool settings (ignored for sqlite, which uses a single connection)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for a Postgres connection
func DefaultConfig() Config {
	return Config{
		Driver:          DriverPostgres,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}
