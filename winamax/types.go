package winamax

import (
	"time"

	"github.com/shopspring/decimal"

	"wmx-replay/card"
)

// Street identifies a betting round or one of the non-betting sections of a hand.
type Street byte

const (
	StreetHeader     Street = 0
	StreetAnteBlinds Street = 1
	StreetPreflop    Street = 2
	StreetFlop       Street = 3
	StreetTurn       Street = 4
	StreetRiver      Street = 5
	StreetShowdown   Street = 6
	StreetSummary    Street = 7
)

var StreetDictionary = map[Street]string{
	StreetHeader:     "header",
	StreetAnteBlinds: "ante_blinds",
	StreetPreflop:    "preflop",
	StreetFlop:       "flop",
	StreetTurn:       "turn",
	StreetRiver:      "river",
	StreetShowdown:   "showdown",
	StreetSummary:    "summary",
}

func (s Street) String() string {
	if name, ok := StreetDictionary[s]; ok {
		return name
	}
	return "unknown"
}

func (s Street) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Street) UnmarshalText(text []byte) error {
	for k, v := range StreetDictionary {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	*s = StreetHeader
	return nil
}

// Header is the tournament identity read from the first line of a hand log.
// BuyIn is the displayed total (base + fee); Fee is always zero because the
// fee is folded into BuyIn, the raw split is kept in BaseBuyIn/BaseFee.
type Header struct {
	Name           string          `json:"name"`
	Date           time.Time       `json:"date"`
	BuyIn          decimal.Decimal `json:"buy_in"`
	Fee            decimal.Decimal `json:"fee"`
	BaseBuyIn      decimal.Decimal `json:"buy_in_base"`
	BaseFee        decimal.Decimal `json:"fee_base"`
	TournamentType string          `json:"tournament_type"`
	Warnings       []Warning       `json:"warnings,omitempty"`
}

type Player struct {
	Name   string          `json:"name"`
	Seat   int             `json:"seat"`
	Stack  int64           `json:"stack"`
	Bounty decimal.Decimal `json:"bounty"`
}

// Hand is one structured hand. The string action lists hold the qualifying
// lines verbatim; Actions holds the same lines parsed, in file order.
type Hand struct {
	HandID       string    `json:"hand_id"`
	HandNumber   int       `json:"hand_number"`
	Level        int       `json:"level"`
	Blinds       string    `json:"blinds"`
	Ante         int64     `json:"ante"`
	SmallBlind   int64     `json:"small_blind"`
	BigBlind     int64     `json:"big_blind"`
	Date         time.Time `json:"date"`
	TableName    string    `json:"table_name"`
	MaxPlayers   int       `json:"max_players"`
	ButtonSeat   int       `json:"button_seat"`
	Players      []Player  `json:"players"`
	HeroName     string    `json:"hero_name"`
	HoleCards    string    `json:"hole_cards"`
	HeroCards    card.List `json:"hero_cards,omitempty"`
	HeroPosition string    `json:"hero_position"`

	AnteBlindsActions []string  `json:"ante_blinds_actions"`
	PreflopActions    []string  `json:"preflop_actions"`
	Flop              *string   `json:"flop"`
	FlopActions       []string  `json:"flop_actions"`
	Turn              *string   `json:"turn"`
	TurnActions       []string  `json:"turn_actions"`
	River             *string   `json:"river"`
	RiverActions      []string  `json:"river_actions"`
	Showdown          []string  `json:"showdown"`
	Summary           []string  `json:"summary"`
	Board             card.List `json:"board,omitempty"`
	Actions           []Action  `json:"actions"`

	PotSize  int64     `json:"pot_size"`
	Rake     int64     `json:"rake"`
	RawText  string    `json:"raw_text"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Seats returns the occupied seat numbers in ascending order.
func (h *Hand) Seats() []int {
	seats := make([]int, len(h.Players))
	for i, p := range h.Players {
		seats[i] = p.Seat
	}
	return seats
}

func (h *Hand) PlayerByName(name string) (Player, bool) {
	for _, p := range h.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// StreetActions returns the typed actions recorded for one street.
func (h *Hand) StreetActions(s Street) []Action {
	out := make([]Action, 0)
	for _, a := range h.Actions {
		if a.Street == s {
			out = append(out, a)
		}
	}
	return out
}

// LogResult is the outcome of parsing a whole hand-history file.
type LogResult struct {
	Header     Header      `json:"header"`
	Hands      []Hand      `json:"hands"`
	HandsCount int         `json:"hands_count"`
	Skipped    int         `json:"skipped"`
	Errors     []HandError `json:"errors,omitempty"`
}
