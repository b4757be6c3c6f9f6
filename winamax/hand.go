package winamax

import (
	"fmt"
	"sort"
	"strings"

	"wmx-replay/card"
)

var (
	anteBlindKeywords = []string{"posts ante", "posts small blind", "posts big blind"}
	streetKeywords    = []string{"folds", "calls", "raises", "bets", "checks", "collected", "shows"}
)

const (
	defaultMaxPlayers = 6
	defaultButtonSeat = 1
	defaultLevel      = 1
)

// ParseHand builds one hand from a raw block. A block without a HandId on
// its first line returns ErrNoHandID; other errors come from values that
// matched a pattern but failed to convert.
func (p *Parser) ParseHand(block string, number int) (*Hand, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	first := lines[0]

	id, ok := extractHandID(first)
	if !ok {
		return nil, ErrNoHandID
	}
	h := &Hand{
		HandID:     id,
		HandNumber: number,
		Level:      defaultLevel,
		Blinds:     "0/0",
		MaxPlayers: defaultMaxPlayers,
		ButtonSeat: defaultButtonSeat,
		RawText:    block,
	}
	if err := p.parseFirstLine(h, first); err != nil {
		return nil, err
	}
	if err := parseTable(h, lines); err != nil {
		return nil, err
	}

	sections, preamble := splitSections(block)
	players, err := parsePlayers(nonEmptyLines(preamble))
	if err != nil {
		return nil, err
	}
	h.Players = players
	p.parseHero(h, lines)

	h.AnteBlindsActions = filterLines(sections.Lines(StreetAnteBlinds), isAnteBlindLine)
	h.PreflopActions = filterLines(sections.Lines(StreetPreflop), isStreetActionLine)
	h.FlopActions = filterLines(sections.Lines(StreetFlop), isStreetActionLine)
	h.TurnActions = filterLines(sections.Lines(StreetTurn), isStreetActionLine)
	h.RiverActions = filterLines(sections.Lines(StreetRiver), isStreetActionLine)
	h.Showdown = filterLines(sections.Lines(StreetShowdown), isNotMarker)
	h.Actions = typedActions(h)

	parseBoard(h, block)
	if err := parseSummary(h, sections.Lines(StreetSummary)); err != nil {
		return nil, err
	}

	heroSeat := 0
	if hero, ok := h.PlayerByName(h.HeroName); ok && h.HeroName != "" {
		heroSeat = hero.Seat
	}
	h.HeroPosition = HeroPosition(heroSeat, h.Seats(), h.ButtonSeat)
	if len(h.Players) > 0 && indexOf(h.Seats(), h.ButtonSeat) < 0 {
		h.Warnings = append(h.Warnings, Warning{
			Field:   "button_seat",
			Message: fmt.Sprintf("button seat %d is not occupied", h.ButtonSeat),
		})
	}
	return h, nil
}

func (p *Parser) parseFirstLine(h *Hand, first string) error {
	level, ok, err := extractLevel(first)
	if err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if ok {
		h.Level = level
	}

	b, ok, err := extractBlinds(first)
	if err != nil {
		return fmt.Errorf("blinds: %w", err)
	}
	if ok {
		h.Ante, h.SmallBlind, h.BigBlind = b.ante, b.small, b.big
		h.Blinds = fmt.Sprintf("%d/%d", b.small, b.big)
	}

	date, ok, err := ExtractDate(first)
	switch {
	case err != nil:
		return fmt.Errorf("date: %w", err)
	case ok:
		h.Date = date
	default:
		h.Date = p.now().UTC()
		h.Warnings = append(h.Warnings, Warning{Field: "date", Message: "no date on the first line, using capture time"})
	}
	return nil
}

func parseTable(h *Hand, lines []string) error {
	for _, line := range lines {
		tl, ok, err := extractTable(line)
		if err != nil {
			return fmt.Errorf("table: %w", err)
		}
		if ok {
			h.TableName, h.MaxPlayers = tl.name, tl.maxPlayers
		}
		seat, ok, err := extractButton(line)
		if err != nil {
			return fmt.Errorf("button: %w", err)
		}
		if ok {
			h.ButtonSeat = seat
		}
	}
	return nil
}

// parsePlayers keeps the first row for a seat and orders rows by seat.
func parsePlayers(lines []string) ([]Player, error) {
	players := make([]Player, 0, len(lines))
	taken := make(map[int]bool)
	for _, line := range lines {
		pl, ok, err := extractSeat(line)
		if err != nil {
			return nil, fmt.Errorf("seat row: %w", err)
		}
		if !ok || taken[pl.Seat] {
			continue
		}
		taken[pl.Seat] = true
		players = append(players, pl)
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].Seat < players[j].Seat })
	return players, nil
}

func (p *Parser) parseHero(h *Hand, lines []string) {
	for _, line := range lines {
		name, cards, ok := extractDealt(line)
		if !ok {
			continue
		}
		h.HeroName, h.HoleCards = name, cards
		parsed, err := card.ParseList(cards)
		if err != nil {
			h.Warnings = append(h.Warnings, Warning{Field: "hole_cards", Message: err.Error()})
		} else {
			h.HeroCards = parsed
		}
		return
	}
}

func parseBoard(h *Hand, block string) {
	b := extractBoard(block)
	h.Flop, h.Turn, h.River = b.flop, b.turn, b.river

	var raw []string
	for _, s := range []*string{b.flop, b.turn, b.river} {
		if s != nil {
			raw = append(raw, *s)
		}
	}
	if len(raw) == 0 {
		return
	}
	board, err := card.ParseList(strings.Join(raw, " "))
	if err != nil {
		h.Warnings = append(h.Warnings, Warning{Field: "board", Message: err.Error()})
		return
	}
	for _, c := range h.HeroCards {
		if board.Contains(c) {
			h.Warnings = append(h.Warnings, Warning{Field: "board", Message: fmt.Sprintf("board repeats hole card %s", c)})
			break
		}
	}
	h.Board = board
}

func parseSummary(h *Hand, lines []string) error {
	h.Summary = filterLines(lines, isNotMarker)
	for _, line := range h.Summary {
		pot, ok, err := extractPot(line)
		if err != nil {
			return fmt.Errorf("pot: %w", err)
		}
		if ok {
			h.PotSize = pot
		}
		rake, ok, err := extractRake(line)
		if err != nil {
			return fmt.Errorf("rake: %w", err)
		}
		if ok {
			h.Rake = rake
		}
	}
	return nil
}

func typedActions(h *Hand) []Action {
	out := make([]Action, 0)
	for _, group := range []struct {
		street Street
		lines  []string
	}{
		{StreetAnteBlinds, h.AnteBlindsActions},
		{StreetPreflop, h.PreflopActions},
		{StreetFlop, h.FlopActions},
		{StreetTurn, h.TurnActions},
		{StreetRiver, h.RiverActions},
		{StreetShowdown, h.Showdown},
	} {
		for _, line := range group.lines {
			if a, ok := ParseAction(group.street, line); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

func filterLines(lines []string, keep func(string) bool) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func isNotMarker(line string) bool { return !strings.HasPrefix(line, "***") }

func isAnteBlindLine(line string) bool { return containsAny(line, anteBlindKeywords) }

func isStreetActionLine(line string) bool {
	if !isNotMarker(line) || strings.HasPrefix(line, "[") {
		return false
	}
	return containsAny(strings.ToLower(line), streetKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
