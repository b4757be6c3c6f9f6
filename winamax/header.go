package winamax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseHeader reads the tournament identity from the first line of a hand
// log. A first line without the tournament pattern rejects the whole file.
func (p *Parser) ParseHeader(text string) (Header, error) {
	text = strings.TrimSpace(StripBOM(text))
	first := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		first = text[:i]
	}
	first = strings.TrimRight(first, "\r")

	t, ok, err := extractTournament(first)
	if !ok {
		return Header{}, &HeaderError{
			Reason:  "no_tournament",
			Message: "first line does not name a tournament and buy-in",
			Snippet: snippet(first),
		}
	}
	if err != nil {
		return Header{}, &HeaderError{Reason: "bad_amount", Message: err.Error(), Snippet: snippet(first)}
	}

	h := Header{
		Name:           t.name,
		BuyIn:          t.buyIn.Add(t.fee),
		Fee:            decimal.Zero,
		BaseBuyIn:      t.buyIn,
		BaseFee:        t.fee,
		TournamentType: tournamentType(text),
	}
	date, ok, err := ExtractDate(first)
	switch {
	case err != nil:
		return Header{}, &HeaderError{Reason: "bad_date", Message: err.Error(), Snippet: snippet(first)}
	case ok:
		h.Date = date
	default:
		h.Date = p.now().UTC()
		h.Warnings = append(h.Warnings, Warning{Field: "date", Message: "no date on the first line, using capture time"})
	}
	return h, nil
}

// tournamentType describes the first table of the file, e.g. "6-max knockout".
func tournamentType(text string) string {
	for _, line := range strings.Split(text, "\n") {
		tl, ok, err := extractTable(line)
		if !ok || err != nil {
			continue
		}
		if tl.variant == "" {
			return fmt.Sprintf("%d-max", tl.maxPlayers)
		}
		return fmt.Sprintf("%d-max %s", tl.maxPlayers, tl.variant)
	}
	return "Unknown"
}
