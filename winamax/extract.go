package winamax

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TournamentMarker = "Winamax Poker - Tournament"
	dateLayout       = "2006/01/02 15:04:05"
)

var (
	tournamentPattern = regexp.MustCompile(`Winamax Poker - Tournament "([^"]+)" buyIn: ([0-9.,]+)€ \+ ([0-9.,]+)€`)
	handIDPattern     = regexp.MustCompile(`HandId: #(\d+)-(\d+)-(\d+)`)
	datePattern       = regexp.MustCompile(`(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) UTC`)
	levelPattern      = regexp.MustCompile(`level: (\d+)`)
	blindsPattern     = regexp.MustCompile(`(?i)no limit \((\d+)/(\d+)(?:/(\d+))?\)`)
	tablePattern      = regexp.MustCompile(`Table: '([^']+)' (\d+)-max(?: \(([^)]+)\))?`)
	buttonPattern     = regexp.MustCompile(`Seat #(\d+) is the button`)
	seatPattern       = regexp.MustCompile(`^Seat (\d+): ([^(]+?) \((\d+)(?:, ([0-9.,]+)€ bounty)?\)`)
	dealtPattern      = regexp.MustCompile(`^Dealt to (.+?) \[([^\]]+)\]`)
	flopPattern       = regexp.MustCompile(`\*\*\* FLOP \*\*\* \[([^\]]+)\]`)
	turnPattern       = regexp.MustCompile(`\*\*\* TURN \*\*\* \[([^\]]+)\]\[([^\]]+)\]`)
	riverPattern      = regexp.MustCompile(`\*\*\* RIVER \*\*\* \[([^\]]+)\]\[([^\]]+)\]`)
	potPattern        = regexp.MustCompile(`Total pot (\d+)`)
	rakePattern       = regexp.MustCompile(`(?i)rake (\d+)`)
)

// ParseEuro reads a room amount such as "0,50" or "12.5". Commas are the
// room's decimal separator.
func ParseEuro(raw string) (decimal.Decimal, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

func parseChips(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chip amount %q: %w", raw, err)
	}
	return n, nil
}

func parseInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	return n, nil
}

type tournamentLine struct {
	name    string
	buyIn   decimal.Decimal
	fee     decimal.Decimal
	matched string
}

func extractTournament(line string) (tournamentLine, bool, error) {
	m := tournamentPattern.FindStringSubmatch(line)
	if m == nil {
		return tournamentLine{}, false, nil
	}
	buyIn, err := ParseEuro(m[2])
	if err != nil {
		return tournamentLine{}, true, err
	}
	fee, err := ParseEuro(m[3])
	if err != nil {
		return tournamentLine{}, true, err
	}
	return tournamentLine{name: m[1], buyIn: buyIn, fee: fee, matched: m[0]}, true, nil
}

func extractHandID(line string) (string, bool) {
	m := handIDPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1] + "-" + m[2] + "-" + m[3], true
}

// ExtractDate reads the UTC timestamp of a header line.
func ExtractDate(line string) (time.Time, bool, error) {
	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("invalid date %q: %w", m[1], err)
	}
	return t, true, nil
}

func extractLevel(line string) (int, bool, error) {
	m := levelPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}
	n, err := parseInt(m[1])
	return n, true, err
}

type blinds struct {
	ante, small, big int64
}

// extractBlinds accepts "(ante/sb/bb)" and the ante-less "(sb/bb)" form.
func extractBlinds(line string) (blinds, bool, error) {
	m := blindsPattern.FindStringSubmatch(line)
	if m == nil {
		return blinds{}, false, nil
	}
	raw := []string{m[1], m[2]}
	if m[3] != "" {
		raw = []string{m[1], m[2], m[3]}
	}
	vals := make([]int64, len(raw))
	for i, s := range raw {
		n, err := parseChips(s)
		if err != nil {
			return blinds{}, true, err
		}
		vals[i] = n
	}
	if len(vals) == 2 {
		return blinds{small: vals[0], big: vals[1]}, true, nil
	}
	return blinds{ante: vals[0], small: vals[1], big: vals[2]}, true, nil
}

type tableLine struct {
	name       string
	maxPlayers int
	variant    string
}

func extractTable(line string) (tableLine, bool, error) {
	m := tablePattern.FindStringSubmatch(line)
	if m == nil {
		return tableLine{}, false, nil
	}
	n, err := parseInt(m[2])
	if err != nil {
		return tableLine{}, true, err
	}
	return tableLine{name: m[1], maxPlayers: n, variant: m[3]}, true, nil
}

func extractButton(line string) (int, bool, error) {
	m := buttonPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}
	n, err := parseInt(m[1])
	return n, true, err
}

func extractSeat(line string) (Player, bool, error) {
	m := seatPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Player{}, false, nil
	}
	seat, err := parseInt(m[1])
	if err != nil {
		return Player{}, true, err
	}
	stack, err := parseChips(m[3])
	if err != nil {
		return Player{}, true, err
	}
	bounty := decimal.Zero
	if m[4] != "" {
		if bounty, err = ParseEuro(m[4]); err != nil {
			return Player{}, true, err
		}
	}
	return Player{Name: m[2], Seat: seat, Stack: stack, Bounty: bounty}, true, nil
}

func extractDealt(line string) (name, cards string, ok bool) {
	m := dealtPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func extractPot(line string) (int64, bool, error) {
	m := potPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}
	n, err := parseChips(m[1])
	return n, true, err
}

func extractRake(line string) (int64, bool, error) {
	m := rakePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}
	n, err := parseChips(m[1])
	return n, true, err
}

type boardCards struct {
	flop, turn, river *string
}

// extractBoard keeps the whole flop and only the newly dealt card for turn
// and river; those marker lines repeat the earlier board first.
func extractBoard(text string) boardCards {
	var b boardCards
	if m := flopPattern.FindStringSubmatch(text); m != nil {
		b.flop = strPtr(m[1])
	}
	if m := turnPattern.FindStringSubmatch(text); m != nil {
		b.turn = strPtr(m[2])
	}
	if m := riverPattern.FindStringSubmatch(text); m != nil {
		b.river = strPtr(m[2])
	}
	return b
}

func strPtr(s string) *string { return &s }
