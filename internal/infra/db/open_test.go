package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ──────────────────────────────── 1. Pool configuration ──────────────────────────────── */

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConnectionConfig(),
		},
		{
			name: "all custom values",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "20",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "15m",
			},
			want: ConnectionConfig{MaxOpenConns: 50, MaxIdleConns: 20, ConnMaxLifetime: 2 * time.Hour, ConnMaxIdleTime: 15 * time.Minute},
		},
		{
			name: "invalid values fall back to defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "invalid",
				"DB_MAX_IDLE_CONNS":     "-1",
				"DB_CONN_MAX_LIFETIME":  "0s",
				"DB_CONN_MAX_IDLE_TIME": "soon",
			},
			want: DefaultConnectionConfig(),
		},
		{
			name: "partial",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "5"},
			want: ConnectionConfig{MaxOpenConns: 5, MaxIdleConns: 10, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 30 * time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(key, tt.env[key])
			}

			assert.Equal(t, tt.want, getConnectionConfigFromEnv())
		})
	}
}

/* ──────────────────────────────── 2. Driver selection ──────────────────────────────── */

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{in: "", want: Postgres},
		{in: "postgres", want: Postgres},
		{in: "PostgreSQL", want: Postgres},
		{in: "pgx", want: Postgres},
		{in: "sqlite", want: SQLite},
		{in: " sqlite3 ", want: SQLite},
		{in: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDriver(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("missing DSN", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "")
		t.Setenv("DATABASE_URL", "")

		_, err := ConfigFromEnv()
		assert.ErrorIs(t, err, ErrMissingDSN)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		t.Setenv("DATABASE_URL", "whatever")

		_, err := ConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("DATABASE_URL", "file:pulsepoint.db")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, SQLite, cfg.Driver)
		assert.Equal(t, "file:pulsepoint.db", cfg.DSN)
		assert.Equal(t, 10, cfg.Startup.MaxAttempts)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:x.db?mode=rwc"))
	assert.Equal(t, "file:x.db?_pragma=journal_mode(WAL)", sqliteDSN("file:x.db?_pragma=journal_mode(WAL)"))
}

/* ──────────────────────────────── 3. Open ──────────────────────────────── */

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(context.Background(), Config{Driver: SQLite, DSN: ":memory:", Pool: DefaultConnectionConfig()})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}
