package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Open connects to Turso for libsql/http(s) URLs and to a local SQLite
// file otherwise, then verifies the connection.
func Open(ctx context.Context, url, authToken string) (*sqlx.DB, error) {
	driver, dsn := driverFor(url, authToken)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func driverFor(url, authToken string) (driver, dsn string) {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(url, scheme) {
			if authToken == "" {
				return "libsql", url
			}
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			return "libsql", url + sep + "authToken=" + authToken
		}
	}
	return "sqlite3", url
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS draws (
		id TEXT PRIMARY KEY,
		operator_id TEXT NOT NULL,
		draw_at INTEGER NOT NULL,
		multipliers TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'upcoming',
		winning_numbers TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		created_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		draw_id TEXT NOT NULL,
		bet_type TEXT NOT NULL,
		numbers TEXT NOT NULL,
		base_number INTEGER NOT NULL DEFAULT 0,
		associated TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		combinations TEXT NOT NULL DEFAULT '',
		bet_amount INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		win_amount INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY(draw_id) REFERENCES draws(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_draw ON tickets(draw_id)`,
	`CREATE TABLE IF NOT EXISTS balances (
		user_id TEXT PRIMARY KEY,
		game INTEGER NOT NULL DEFAULT 0,
		winnings INTEGER NOT NULL DEFAULT 0,
		tokens INTEGER NOT NULL DEFAULT 0
	)`,
}

// Migrate creates the local book tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
