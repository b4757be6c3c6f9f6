package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

func NewSQLiteService(dbPath string, log zerolog.Logger) (Service, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection also keeps ":memory:" databases alive and shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("sqlite store ready")
	return &sqlService{db: db, log: log, now: time.Now}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS tournaments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date_ms INTEGER NOT NULL,
    buy_in TEXT NOT NULL DEFAULT '0',
    fee TEXT NOT NULL DEFAULT '0',
    buy_in_base TEXT NOT NULL DEFAULT '0',
    fee_base TEXT NOT NULL DEFAULT '0',
    tournament_type TEXT NOT NULL DEFAULT 'Unknown',
    hero_name TEXT NOT NULL DEFAULT 'Unknown',
    hands_count INTEGER NOT NULL DEFAULT 0,
    total_hands INTEGER NOT NULL DEFAULT 0,
    digest TEXT NOT NULL DEFAULT '',
    total_players INTEGER NOT NULL DEFAULT 0,
    final_position INTEGER NOT NULL DEFAULT 0,
    profit_loss TEXT NOT NULL DEFAULT '0',
    total_entries INTEGER NOT NULL DEFAULT 1,
    re_entries_count INTEGER NOT NULL DEFAULT 0,
    late_registration_count INTEGER NOT NULL DEFAULT 0,
    total_cost TEXT NOT NULL DEFAULT '0',
    total_winnings TEXT NOT NULL DEFAULT '0',
    summary_applied INTEGER NOT NULL DEFAULT 0,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL,
    UNIQUE (name, date_ms)
)`,
		`CREATE INDEX IF NOT EXISTS idx_tournaments_date ON tournaments(date_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS hands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    hand_number INTEGER NOT NULL,
    hand_id TEXT NOT NULL,
    payload BLOB NOT NULL,
    UNIQUE (tournament_id, hand_number)
)`,
		`CREATE INDEX IF NOT EXISTS idx_hands_tournament ON hands(tournament_id, hand_number)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
