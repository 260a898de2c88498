package db

import (
	"fmt"
	"strings"
)

// Driver selects the SQL backend.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

// ParseDriver normalizes a DATABASE_DRIVER value. Empty means Postgres.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// sqlDriverName is the name the driver registers with database/sql.
func (d Driver) sqlDriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}
