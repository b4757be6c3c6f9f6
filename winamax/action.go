package winamax

import (
	"regexp"
	"strings"

	"wmx-replay/card"
)

type ActionKind string

const (
	ActionAnte       ActionKind = "ante"
	ActionSmallBlind ActionKind = "small_blind"
	ActionBigBlind   ActionKind = "big_blind"
	ActionFold       ActionKind = "fold"
	ActionCheck      ActionKind = "check"
	ActionCall       ActionKind = "call"
	ActionBet        ActionKind = "bet"
	ActionRaise      ActionKind = "raise"
	ActionCollect    ActionKind = "collect"
	ActionShow       ActionKind = "show"
)

var verbKinds = map[string]ActionKind{
	"posts ante":        ActionAnte,
	"posts small blind": ActionSmallBlind,
	"posts big blind":   ActionBigBlind,
	"folds":             ActionFold,
	"checks":            ActionCheck,
	"calls":             ActionCall,
	"bets":              ActionBet,
	"raises":            ActionRaise,
	"collected":         ActionCollect,
	"shows":             ActionShow,
}

// Wagers reports whether the action moves chips from the actor into the pot.
func (k ActionKind) Wagers() bool {
	switch k {
	case ActionAnte, ActionSmallBlind, ActionBigBlind, ActionCall, ActionBet, ActionRaise:
		return true
	}
	return false
}

// Action is one typed action line. For a raise, Amount is the increment and
// To the total the actor has committed on the street; To is zero otherwise.
type Action struct {
	Street Street     `json:"street"`
	Actor  string     `json:"actor"`
	Kind   ActionKind `json:"kind"`
	Amount int64      `json:"amount"`
	To     int64      `json:"to,omitempty"`
	AllIn  bool       `json:"all_in,omitempty"`
	Cards  card.List  `json:"cards,omitempty"`
	Raw    string     `json:"raw"`
}

var (
	actionPattern = regexp.MustCompile(`(?i)^(.+?) (posts ante|posts small blind|posts big blind|folds|checks|calls|bets|raises|collected|shows)(?:\s+(.*))?$`)
	leadAmount    = regexp.MustCompile(`^(\d+)`)
	raiseAmount   = regexp.MustCompile(`(?i)^(\d+) to (\d+)`)
	shownCards    = regexp.MustCompile(`\[([^\]]+)\]`)
)

// ParseAction types a single action line. ok is false for lines that are not
// player actions; the line is still kept verbatim by the caller.
func ParseAction(street Street, line string) (Action, bool) {
	line = strings.TrimSpace(line)
	m := actionPattern.FindStringSubmatch(line)
	if m == nil {
		return Action{}, false
	}
	kind, ok := verbKinds[strings.ToLower(m[2])]
	if !ok {
		return Action{}, false
	}
	rest := m[3]
	a := Action{
		Street: street,
		Actor:  m[1],
		Kind:   kind,
		AllIn:  strings.Contains(strings.ToLower(rest), "all-in"),
		Raw:    line,
	}
	switch kind {
	case ActionRaise:
		if r := raiseAmount.FindStringSubmatch(rest); r != nil {
			a.Amount, _ = parseChips(r[1])
			a.To, _ = parseChips(r[2])
		} else if r := leadAmount.FindStringSubmatch(rest); r != nil {
			a.To, _ = parseChips(r[1])
		}
	case ActionShow:
		if r := shownCards.FindStringSubmatch(rest); r != nil {
			a.Cards, _ = card.ParseList(r[1])
		}
	case ActionFold, ActionCheck:
	default:
		if r := leadAmount.FindStringSubmatch(rest); r != nil {
			a.Amount, _ = parseChips(r[1])
		}
	}
	return a, true
}
