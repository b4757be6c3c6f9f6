package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wmx-replay/reconcile"
	"wmx-replay/winamax"
)

const (
	defaultHandsLimit = 20
	maxHandsLimit     = 100
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("tournament already imported")
)

// Tournament is one imported hand log plus whatever a summary file added.
type Tournament struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Date           time.Time       `json:"date"`
	BuyIn          decimal.Decimal `json:"buy_in"`
	Fee            decimal.Decimal `json:"fee"`
	BaseBuyIn      decimal.Decimal `json:"buy_in_base"`
	BaseFee        decimal.Decimal `json:"fee_base"`
	TournamentType string          `json:"tournament_type"`
	HeroName       string          `json:"hero_name"`
	HandsCount     int             `json:"hands_count"`
	TotalHands     int             `json:"total_hands"`
	Digest         string          `json:"digest,omitempty"`

	TotalPlayers          int             `json:"total_players"`
	FinalPosition         int             `json:"final_position"`
	ProfitLoss            decimal.Decimal `json:"profit_loss"`
	TotalEntries          int             `json:"total_entries"`
	ReEntriesCount        int             `json:"re_entries_count"`
	LateRegistrationCount int             `json:"late_registration_count"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	TotalWinnings         decimal.Decimal `json:"total_winnings"`
	SummaryApplied        bool            `json:"summary_applied"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HandPage struct {
	Hands      []winamax.Hand `json:"hands"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type Service interface {
	Close() error
	FindTournament(ctx context.Context, name string, date time.Time) (*Tournament, error)
	CreateTournament(ctx context.Context, t *Tournament, hands []winamax.Hand) (*Tournament, error)
	GetTournament(ctx context.Context, id string) (*Tournament, error)
	ListTournaments(ctx context.Context) ([]Tournament, error)
	ListHands(ctx context.Context, id string, page, limit int) (*HandPage, error)
	GetHand(ctx context.Context, id string, number int) (*winamax.Hand, error)
	ApplySummary(ctx context.Context, id string, res reconcile.Result) (*Tournament, error)
	DeleteTournament(ctx context.Context, id string) (int, error)
}

type Options struct {
	Mode        string // memory, sqlite, postgres
	SQLitePath  string
	DatabaseURL string
}

// NewServiceFromConfig opens the backend named by opts.Mode and returns it
// along with the mode that was actually used.
func NewServiceFromConfig(opts Options, log zerolog.Logger) (Service, string, error) {
	log = log.With().Str("component", "store").Logger()
	switch mode := strings.ToLower(strings.TrimSpace(opts.Mode)); mode {
	case "memory":
		return NewMemoryService(), "memory", nil
	case "", "local", "sqlite":
		s, err := NewSQLiteService(opts.SQLitePath, log)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite", nil
	case "postgres":
		s, err := NewPostgresService(opts.DatabaseURL, log)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unknown store mode %q", opts.Mode)
	}
}

// NewTournament copies the identity of a parsed log into a record ready to
// be created. Money from a summary starts at zero.
func NewTournament(h winamax.Header, res *winamax.LogResult, digest string) *Tournament {
	t := &Tournament{
		Name:           h.Name,
		Date:           h.Date,
		BuyIn:          h.BuyIn,
		Fee:            h.Fee,
		BaseBuyIn:      h.BaseBuyIn,
		BaseFee:        h.BaseFee,
		TournamentType: h.TournamentType,
		HeroName:       "Unknown",
		Digest:         digest,
		ProfitLoss:     decimal.Zero,
		TotalEntries:   1,
		TotalCost:      h.BuyIn,
		TotalWinnings:  decimal.Zero,
	}
	if res != nil {
		t.HandsCount = res.HandsCount
		t.TotalHands = len(res.Hands)
		if len(res.Hands) > 0 && res.Hands[0].HeroName != "" {
			t.HeroName = res.Hands[0].HeroName
		}
	}
	return t
}

// applySummary folds a reconciled summary into t. Finishing place and field
// size are only overwritten when the summary printed them.
func applySummary(t *Tournament, res reconcile.Result) {
	if res.FinalPosition > 0 {
		t.FinalPosition = res.FinalPosition
	}
	if res.TotalPlayers > 0 {
		t.TotalPlayers = res.TotalPlayers
	}
	t.ProfitLoss = res.ProfitLoss
	if res.BuyIn != nil {
		t.BuyIn = res.SingleEntryCost
		t.TotalCost = res.TotalCost
	} else {
		t.TotalCost = t.BuyIn
	}
	t.Fee = decimal.Zero
	t.LateRegistrationCount = res.LateRegistrationCount
	t.ReEntriesCount = res.ReEntriesCount
	t.TotalEntries = res.TotalEntries
	t.TotalWinnings = res.CombinedWinnings
	t.SummaryApplied = true
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHandsLimit
	}
	if limit > maxHandsLimit {
		limit = maxHandsLimit
	}
	return page, limit
}

func totalPages(total, limit int) int { return (total + limit - 1) / limit }

func newID() string { return uuid.NewString() }
