package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wmx-replay/winamax"
)

const (
	SummaryMarker    = "Winamax Poker - Tournament summary"
	lateRegistration = "Late Registration"
	moneyPlaces      = 2
)

var (
	titlePattern      = regexp.MustCompile(`Tournament summary : (.+?)\((\d+)\)`)
	positionPattern   = regexp.MustCompile(`You finished in (\d+)(?:th|st|nd|rd) place`)
	registeredPattern = regexp.MustCompile(`Registered players : (\d+)`)
	buyIn3Pattern     = regexp.MustCompile(`Buy-In : ([0-9.,]+)€ \+ ([0-9.,]+)€ \+ ([0-9.,]+)€`)
	buyIn2Pattern     = regexp.MustCompile(`Buy-In : ([0-9.,]+)€ \+ ([0-9.,]+)€`)
	wonBothPattern    = regexp.MustCompile(`You won ([0-9.,]+)€ \+ Bounty ([0-9.,]+)€`)
	wonBountyPattern  = regexp.MustCompile(`You won Bounty ([0-9.,]+)€`)
	wonCashPattern    = regexp.MustCompile(`You won ([0-9.,]+)€`)
	playedPattern     = regexp.MustCompile(`You played (\d+)min (\d+)s`)
	startedPattern    = regexp.MustCompile(`Tournament started (.+)`)
)

// Reconciler folds a summary file with one section per entry into a single
// financial result.
type Reconciler struct {
	policy FinalEntryPolicy
	log    zerolog.Logger
}

type reconcilerOption func(*Reconciler)

func New(opts ...reconcilerOption) *Reconciler {
	r := &Reconciler{policy: LastEntry, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithPolicy(policy FinalEntryPolicy) reconcilerOption {
	return func(r *Reconciler) {
		if policy != nil {
			r.policy = policy
		}
	}
}

func WithLogger(log zerolog.Logger) reconcilerOption {
	return func(r *Reconciler) {
		r.log = log.With().Str("component", "reconcile").Logger()
	}
}

var std = New()

// ParseSummary reconciles text with the default last-entry policy.
func ParseSummary(text string) Result { return std.Parse(text) }

// SplitEntries returns the trimmed summary sections of text in file order.
// Text ahead of the first marker (a BOM, an export banner) is not an entry.
func SplitEntries(text string) []string {
	raw := winamax.SplitAt(winamax.StripBOM(text), SummaryMarker)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, SummaryMarker) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Parse never fails. Values that cannot be read are left at zero and noted
// in Warnings.
func (r *Reconciler) Parse(text string) Result {
	sections := SplitEntries(text)
	res := Result{
		TotalEntries: max(len(sections), 1),
		Entries:      make([]Entry, 0, len(sections)),
	}
	res.ReEntriesCount = res.TotalEntries - 1
	if len(sections) == 0 {
		res.Warnings = append(res.Warnings, winamax.Warning{Field: "entries", Message: "no summary section found"})
		return res
	}

	winnings, bounties := decimal.Zero, decimal.Zero
	for i, section := range sections {
		e, warns := parseEntry(i, section)
		res.Warnings = append(res.Warnings, warns...)
		res.Entries = append(res.Entries, e)
		if e.LateRegistration {
			res.LateRegistrationCount++
		}
		winnings = winnings.Add(e.CashWon)
		bounties = bounties.Add(e.BountyWon)
	}
	res.HasLateRegistration = res.LateRegistrationCount > 0

	final := r.policy(res.Entries)
	res.TournamentName = final.TournamentName
	res.TournamentID = final.TournamentID
	res.StartedAt = final.StartedAt
	res.FinalPosition = final.FinalPosition
	res.TotalPlayers = final.RegisteredPlayers
	if final.PlayTime > 0 {
		res.PlayTimeSeconds = int(final.PlayTime / time.Second)
		res.PlayTime = formatPlayTime(final.PlayTime)
	}

	res.TotalWinnings = winnings.Round(moneyPlaces)
	res.TotalBounties = bounties.Round(moneyPlaces)
	combined := winnings.Add(bounties)
	res.CombinedWinnings = combined.Round(moneyPlaces)
	res.ProfitLoss = combined.Round(moneyPlaces)
	if final.BuyIn != nil {
		single := final.BuyIn.Total()
		res.BuyIn = final.BuyIn
		res.SingleEntryCost = single.Round(moneyPlaces)
		res.TotalCost = single.Mul(decimal.NewFromInt(int64(res.TotalEntries))).Round(moneyPlaces)
		res.ProfitLoss = combined.Sub(res.TotalCost).Round(moneyPlaces)
	} else {
		res.Warnings = append(res.Warnings, winamax.Warning{Field: "buy_in", Message: "no buy-in line, cost counted as zero"})
	}

	r.log.Info().
		Str("tournament", res.TournamentName).
		Int("entries", res.TotalEntries).
		Int("position", res.FinalPosition).
		Str("profit", res.ProfitLoss.StringFixed(moneyPlaces)).
		Msg("summary reconciled")
	return res
}

func parseEntry(index int, section string) (Entry, []winamax.Warning) {
	e := Entry{
		Index:            index,
		CashWon:          decimal.Zero,
		BountyWon:        decimal.Zero,
		LateRegistration: strings.Contains(section, lateRegistration),
	}
	var warns []winamax.Warning
	warn := func(field string, err error) {
		warns = append(warns, winamax.Warning{Field: field, Message: fmt.Sprintf("entry %d: %v", index+1, err)})
	}

	if m := titlePattern.FindStringSubmatch(section); m != nil {
		e.TournamentName, e.TournamentID = strings.TrimSpace(m[1]), m[2]
	}
	if m := startedPattern.FindStringSubmatch(section); m != nil {
		if t, ok, err := winamax.ExtractDate(m[1]); err != nil {
			warn("started_at", err)
		} else if ok {
			e.StartedAt = &t
		}
	}
	if m := positionPattern.FindStringSubmatch(section); m != nil {
		e.FinalPosition, _ = strconv.Atoi(m[1])
	}
	if m := registeredPattern.FindStringSubmatch(section); m != nil {
		e.RegisteredPlayers, _ = strconv.Atoi(m[1])
	}
	if b, err := parseBuyIn(section); err != nil {
		warn("buy_in", err)
	} else {
		e.BuyIn = b
	}
	if m := playedPattern.FindStringSubmatch(section); m != nil {
		mins, _ := strconv.Atoi(m[1])
		secs, _ := strconv.Atoi(m[2])
		e.PlayTime = time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second
	}

	for _, line := range strings.Split(section, "\n") {
		cash, bounty, err := parseWinnings(strings.TrimSpace(line))
		if err != nil {
			warn("winnings", err)
			continue
		}
		e.CashWon = e.CashWon.Add(cash)
		e.BountyWon = e.BountyWon.Add(bounty)
	}
	return e, warns
}

// parseBuyIn reads "base + bounty + fee", or "base + fee" on non-knockout
// events. A section without a buy-in line returns nil.
func parseBuyIn(section string) (*BuyIn, error) {
	if m := buyIn3Pattern.FindStringSubmatch(section); m != nil {
		vals, err := euros(m[1:]...)
		if err != nil {
			return nil, err
		}
		return &BuyIn{Base: vals[0], Bounty: vals[1], Fee: vals[2]}, nil
	}
	if m := buyIn2Pattern.FindStringSubmatch(section); m != nil {
		vals, err := euros(m[1:]...)
		if err != nil {
			return nil, err
		}
		return &BuyIn{Base: vals[0], Bounty: decimal.Zero, Fee: vals[1]}, nil
	}
	return nil, nil
}

// parseWinnings matches, in order: cash plus bounty, bounty only, then cash
// only on lines that never mention a bounty.
func parseWinnings(line string) (cash, bounty decimal.Decimal, err error) {
	cash, bounty = decimal.Zero, decimal.Zero
	if m := wonBothPattern.FindStringSubmatch(line); m != nil {
		vals, err := euros(m[1], m[2])
		if err != nil {
			return cash, bounty, err
		}
		return vals[0], vals[1], nil
	}
	if m := wonBountyPattern.FindStringSubmatch(line); m != nil {
		vals, err := euros(m[1])
		if err != nil {
			return cash, bounty, err
		}
		return cash, vals[0], nil
	}
	if m := wonCashPattern.FindStringSubmatch(line); m != nil && !strings.Contains(line, "Bounty") {
		vals, err := euros(m[1])
		if err != nil {
			return cash, bounty, err
		}
		return vals[0], bounty, nil
	}
	return cash, bounty, nil
}

func euros(raw ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := winamax.ParseEuro(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func formatPlayTime(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%dmin %ds", secs/60, secs%60)
}
