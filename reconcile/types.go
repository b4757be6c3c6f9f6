package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"wmx-replay/winamax"
)

// BuyIn is the cost of one entry as printed on a summary.
type BuyIn struct {
	Base   decimal.Decimal `json:"base"`
	Bounty decimal.Decimal `json:"bounty"`
	Fee    decimal.Decimal `json:"fee"`
}

func (b BuyIn) Total() decimal.Decimal { return b.Base.Add(b.Bounty).Add(b.Fee) }

// Entry is one registration into a tournament, i.e. one summary section.
type Entry struct {
	Index             int             `json:"index"`
	TournamentName    string          `json:"tournament_name,omitempty"`
	TournamentID      string          `json:"tournament_id,omitempty"`
	StartedAt         *time.Time      `json:"started_at,omitempty"`
	FinalPosition     int             `json:"final_position"`
	RegisteredPlayers int             `json:"registered_players"`
	BuyIn             *BuyIn          `json:"buy_in,omitempty"`
	CashWon           decimal.Decimal `json:"cash_won"`
	BountyWon         decimal.Decimal `json:"bounty_won"`
	LateRegistration  bool            `json:"late_registration"`
	PlayTime          time.Duration   `json:"play_time"`
}

// Result aggregates every entry of one tournament. Money fields are rounded
// to cents.
type Result struct {
	TournamentName        string            `json:"tournament_name,omitempty"`
	TournamentID          string            `json:"tournament_id,omitempty"`
	StartedAt             *time.Time        `json:"started_at,omitempty"`
	TotalEntries          int               `json:"entries_count"`
	ReEntriesCount        int               `json:"re_entries_count"`
	LateRegistrationCount int               `json:"late_registration_count"`
	HasLateRegistration   bool              `json:"has_late_registration"`
	BuyIn                 *BuyIn            `json:"buy_in_details,omitempty"`
	SingleEntryCost       decimal.Decimal   `json:"single_entry_cost"`
	TotalCost             decimal.Decimal   `json:"total_cost"`
	TotalWinnings         decimal.Decimal   `json:"total_winnings"`
	TotalBounties         decimal.Decimal   `json:"total_bounties"`
	CombinedWinnings      decimal.Decimal   `json:"combined_winnings"`
	ProfitLoss            decimal.Decimal   `json:"profit_loss"`
	FinalPosition         int               `json:"final_position"`
	TotalPlayers          int               `json:"total_players"`
	PlayTimeSeconds       int               `json:"play_time_seconds"`
	PlayTime              string            `json:"total_play_time,omitempty"`
	Entries               []Entry           `json:"entries"`
	Warnings              []winamax.Warning `json:"warnings,omitempty"`
}

// FinalEntryPolicy chooses the entry whose elimination stats (finishing
// place, field size, play time) and cost structure describe the tournament.
// entries is never empty.
type FinalEntryPolicy func(entries []Entry) Entry

// LastEntry trusts the final section: the room prints cumulative stats on
// the conclusive entry.
func LastEntry(entries []Entry) Entry { return entries[len(entries)-1] }
