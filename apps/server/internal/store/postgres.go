package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/lib/pq"
)

func NewPostgresService(dsn string, log zerolog.Logger) (Service, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for postgres store")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Msg("postgres store ready")
	return &sqlService{db: db, log: log, numbered: true, now: time.Now}, nil
}

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS tournaments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date_ms BIGINT NOT NULL,
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
    created_at_ms BIGINT NOT NULL,
    updated_at_ms BIGINT NOT NULL,
    UNIQUE (name, date_ms)
)`,
		`CREATE INDEX IF NOT EXISTS idx_tournaments_date ON tournaments(date_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS hands (
    id BIGSERIAL PRIMARY KEY,
    tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    hand_number INTEGER NOT NULL,
    hand_id TEXT NOT NULL,
    payload BYTEA NOT NULL,
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
