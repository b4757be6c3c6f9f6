package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wmx-replay/reconcile"
	"wmx-replay/winamax"
)

// sqlService backs both SQLite and Postgres. Queries are written with "?"
// placeholders and rebound for drivers that number them. Times are stored as
// unix milliseconds and money as decimal text so both schemas scan alike.
type sqlService struct {
	db       *sql.DB
	log      zerolog.Logger
	numbered bool
	now      func() time.Time
}

const tournamentColumns = `
    id, name, date_ms, buy_in, fee, buy_in_base, fee_base, tournament_type, hero_name,
    hands_count, total_hands, digest, total_players, final_position, profit_loss,
    total_entries, re_entries_count, late_registration_count, total_cost, total_winnings,
    summary_applied, created_at_ms, updated_at_ms`

func (s *sqlService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlService) q(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (*Tournament, error) {
	var (
		t                            Tournament
		dateMs, createdMs, updatedMs int64
		buyIn, fee, baseBuyIn        string
		baseFee, profit, cost        string
		winnings                     string
		applied                      int
	)
	err := row.Scan(
		&t.ID, &t.Name, &dateMs, &buyIn, &fee, &baseBuyIn, &baseFee, &t.TournamentType, &t.HeroName,
		&t.HandsCount, &t.TotalHands, &t.Digest, &t.TotalPlayers, &t.FinalPosition, &profit,
		&t.TotalEntries, &t.ReEntriesCount, &t.LateRegistrationCount, &cost, &winnings,
		&applied, &createdMs, &updatedMs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&t.BuyIn, buyIn}, {&t.Fee, fee}, {&t.BaseBuyIn, baseBuyIn}, {&t.BaseFee, baseFee},
		{&t.ProfitLoss, profit}, {&t.TotalCost, cost}, {&t.TotalWinnings, winnings},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("tournament %s: %w", t.ID, err)
		}
		*f.dst = d
	}
	t.Date = time.UnixMilli(dateMs).UTC()
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	t.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	t.SummaryApplied = applied != 0
	return &t, nil
}

func (s *sqlService) FindTournament(ctx context.Context, name string, date time.Time) (*Tournament, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT`+tournamentColumns+`
FROM tournaments
WHERE name = ? AND date_ms = ?`), name, date.UTC().UnixMilli())
	return scanTournament(row)
}

func (s *sqlService) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT`+tournamentColumns+`
FROM tournaments
WHERE id = ?`), id)
	return scanTournament(row)
}

func (s *sqlService) ListTournaments(ctx context.Context) ([]Tournament, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+tournamentColumns+`
FROM tournaments
ORDER BY date_ms DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (s *sqlService) CreateTournament(ctx context.Context, t *Tournament, hands []winamax.Hand) (*Tournament, error) {
	blobs := make([][]byte, len(hands))
	for i := range hands {
		blob, err := encodeHand(&hands[i])
		if err != nil {
			return nil, err
		}
		blobs[i] = blob
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	dateMs := t.Date.UTC().UnixMilli()
	var exists int
	if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(1) FROM tournaments WHERE name = ? AND date_ms = ?`), t.Name, dateMs).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicate
	}

	out := *t
	out.ID = newID()
	out.TotalHands = len(hands)
	out.CreatedAt = time.UnixMilli(s.now().UTC().UnixMilli()).UTC()
	out.UpdatedAt = out.CreatedAt
	nowMs := out.CreatedAt.UnixMilli()

	_, err = tx.ExecContext(ctx, s.q(`
INSERT INTO tournaments (`+tournamentColumns+`
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		out.ID, out.Name, dateMs, out.BuyIn.String(), out.Fee.String(), out.BaseBuyIn.String(), out.BaseFee.String(),
		out.TournamentType, out.HeroName, out.HandsCount, out.TotalHands, out.Digest, out.TotalPlayers,
		out.FinalPosition, out.ProfitLoss.String(), out.TotalEntries, out.ReEntriesCount,
		out.LateRegistrationCount, out.TotalCost.String(), out.TotalWinnings.String(),
		boolInt(out.SummaryApplied), nowMs, nowMs,
	)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, s.q(`
INSERT INTO hands (tournament_id, hand_number, hand_id, payload)
VALUES (?, ?, ?, ?)`))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	for i, h := range hands {
		if _, err := stmt.ExecContext(ctx, out.ID, h.HandNumber, h.HandID, blobs[i]); err != nil {
			return nil, fmt.Errorf("insert hand %d: %w", h.HandNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.log.Info().Str("tournament", out.ID).Str("name", out.Name).Int("hands", len(hands)).Msg("tournament stored")
	return &out, nil
}

func (s *sqlService) ListHands(ctx context.Context, id string, page, limit int) (*HandPage, error) {
	page, limit = normalizePage(page, limit)
	if _, err := s.GetTournament(ctx, id); err != nil {
		return nil, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(1) FROM hands WHERE tournament_id = ?`), id).Scan(&total); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
SELECT payload
FROM hands
WHERE tournament_id = ?
ORDER BY hand_number ASC
LIMIT ? OFFSET ?`), id, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := &HandPage{
		Hands:      make([]winamax.Hand, 0, limit),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		h, err := decodeHand(blob)
		if err != nil {
			return nil, err
		}
		res.Hands = append(res.Hands, *h)
	}
	return res, rows.Err()
}

func (s *sqlService) GetHand(ctx context.Context, id string, number int) (*winamax.Hand, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, s.q(`
SELECT payload
FROM hands
WHERE tournament_id = ? AND hand_number = ?`), id, number).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeHand(blob)
}

func (s *sqlService) ApplySummary(ctx context.Context, id string, res reconcile.Result) (*Tournament, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := scanTournament(tx.QueryRowContext(ctx, s.q(`SELECT`+tournamentColumns+`
FROM tournaments
WHERE id = ?`), id))
	if err != nil {
		return nil, err
	}
	applySummary(t, res)
	t.UpdatedAt = time.UnixMilli(s.now().UTC().UnixMilli()).UTC()

	_, err = tx.ExecContext(ctx, s.q(`
UPDATE tournaments
SET
    final_position = ?,
    total_players = ?,
    profit_loss = ?,
    buy_in = ?,
    fee = ?,
    late_registration_count = ?,
    re_entries_count = ?,
    total_entries = ?,
    total_cost = ?,
    total_winnings = ?,
    summary_applied = ?,
    updated_at_ms = ?
WHERE id = ?`),
		t.FinalPosition, t.TotalPlayers, t.ProfitLoss.String(), t.BuyIn.String(), t.Fee.String(),
		t.LateRegistrationCount, t.ReEntriesCount, t.TotalEntries, t.TotalCost.String(),
		t.TotalWinnings.String(), boolInt(t.SummaryApplied), t.UpdatedAt.UnixMilli(), id,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *sqlService) DeleteTournament(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM hands WHERE tournament_id = ?`), id)
	if err != nil {
		return 0, err
	}
	deletedHands, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, s.q(`DELETE FROM tournaments WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.log.Info().Str("tournament", id).Int64("hands", deletedHands).Msg("tournament deleted")
	return int(deletedHands), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
