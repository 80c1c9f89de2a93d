package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const (
	pingAttempts  = 5
	pingBaseDelay = 500 * time.Millisecond
)

// buildDSN renders a libpq keyword/value string. Values with spaces, quotes
// or backslashes are single-quoted and escaped so passwords survive intact.
func buildDSN(pairs ...[2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		parts = append(parts, kv[0]+"="+quoteDSNValue(kv[1]))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// openSQLDB opens the pool and waits for Postgres to answer, backing off
// between attempts; containers often start before the database accepts
// connections.
func openSQLDB(cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	delay := pingBaseDelay
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = conn.PingContext(ctx)
		cancel()
		if err == nil {
			return conn, nil
		}
		if attempt == pingAttempts {
			break
		}
		slog.Warn("database not ready, retrying",
			"host", cfg.Host,
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
		time.Sleep(delay)
		delay *= 2
	}

	conn.Close()
	return nil, fmt.Errorf("failed to ping database after %d attempts: %w", pingAttempts, err)
}
