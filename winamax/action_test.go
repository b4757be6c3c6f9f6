package winamax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		line   string
		actor  string
		kind   ActionKind
		amount int64
		to     int64
		allIn  bool
	}{
		{"alice posts ante 10", "alice", ActionAnte, 10, 0, false},
		{"Hero posts small blind 50", "Hero", ActionSmallBlind, 50, 0, false},
		{"alice posts big blind 100", "alice", ActionBigBlind, 100, 0, false},
		{"alice folds", "alice", ActionFold, 0, 0, false},
		{"bob checks", "bob", ActionCheck, 0, 0, false},
		{"bob calls 400", "bob", ActionCall, 400, 0, false},
		{"Big Fish calls 90 and is all-in", "Big Fish", ActionCall, 90, 0, true},
		{"Hero bets 1190 and is all-in", "Hero", ActionBet, 1190, 0, true},
		{"bob raises 100 to 200", "bob", ActionRaise, 100, 200, false},
		{"bob collected 3710 from pot", "bob", ActionCollect, 3710, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			a, ok := ParseAction(StreetPreflop, tc.line)
			require.True(t, ok)
			assert.Equal(t, StreetPreflop, a.Street)
			assert.Equal(t, tc.actor, a.Actor)
			assert.Equal(t, tc.kind, a.Kind)
			assert.Equal(t, tc.amount, a.Amount)
			assert.Equal(t, tc.to, a.To)
			assert.Equal(t, tc.allIn, a.AllIn)
			assert.Equal(t, tc.line, a.Raw)
		})
	}
}

func TestParseActionShows(t *testing.T) {
	a, ok := ParseAction(StreetShowdown, "bob shows [7c 7s] (Three of a kind : 7's)")
	require.True(t, ok)
	assert.Equal(t, ActionShow, a.Kind)
	assert.Equal(t, "7c 7s", a.Cards.String())
}

func TestParseActionRejectsNonActions(t *testing.T) {
	for _, line := range []string{
		"*** FLOP *** [2c 7d Jh]",
		"Dealt to Hero [Ah Kd]",
		"Board: [2c 7d Jh Qs 3h]",
		"",
	} {
		_, ok := ParseAction(StreetFlop, line)
		assert.False(t, ok, line)
	}
}

func TestActionKindWagers(t *testing.T) {
	assert.True(t, ActionRaise.Wagers())
	assert.True(t, ActionAnte.Wagers())
	assert.False(t, ActionFold.Wagers())
	assert.False(t, ActionCollect.Wagers())
}
