package winamax

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5", "5"},
		{"0,50", "0.5"},
		{"0.50", "0.5"},
		{" 12,25 ", "12.25"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseEuro(tc.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}

	_, err := ParseEuro("1,2,3")
	assert.Error(t, err)
}

func TestExtractDate(t *testing.T) {
	got, ok, err := ExtractDate("level: 3 - 2024/03/01 20:15:00 UTC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 15, 0, 0, time.UTC), got)

	_, ok, err = ExtractDate("no date here")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ExtractDate("2024/13/45 20:15:00 UTC")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestExtractBlinds(t *testing.T) {
	b, ok, err := extractBlinds("Holdem no limit (10/50/100) - 2024/03/01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blinds{ante: 10, small: 50, big: 100}, b)

	b, ok, err = extractBlinds("Holdem no limit (50/100)")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blinds{small: 50, big: 100}, b)

	_, ok, _ = extractBlinds("Holdem pot limit")
	assert.False(t, ok)
}

func TestExtractSeat(t *testing.T) {
	tests := []struct {
		line   string
		want   Player
		bounty string
	}{
		{"Seat 1: alice (1500, 2,50€ bounty)", Player{Name: "alice", Seat: 1, Stack: 1500}, "2.5"},
		{"Seat 3: Big Fish (20000)", Player{Name: "Big Fish", Seat: 3, Stack: 20000}, "0"},
		{"  Seat 9: x.y-z_1 (7, 10€ bounty)", Player{Name: "x.y-z_1", Seat: 9, Stack: 7}, "10"},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			p, ok, err := extractSeat(tc.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want.Name, p.Name)
			assert.Equal(t, tc.want.Seat, p.Seat)
			assert.Equal(t, tc.want.Stack, p.Stack)
			assert.True(t, decimal.RequireFromString(tc.bounty).Equal(p.Bounty))
		})
	}

	for _, line := range []string{
		"Seat 2: bob (button) showed [7c 7s] and won 3710",
		"Seat #2 is the button",
		"Table: 'Ex1(777)#003' 6-max (real money) Seat #2 is the button",
	} {
		_, ok, _ := extractSeat(line)
		assert.False(t, ok, line)
	}
}

func TestExtractTable(t *testing.T) {
	tl, ok, err := extractTable("Table: 'Ex1(777)#003' 6-max (real money) Seat #2 is the button")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ex1(777)#003", tl.name)
	assert.Equal(t, 6, tl.maxPlayers)
	assert.Equal(t, "real money", tl.variant)

	seat, ok, err := extractButton("Table: 'Ex1(777)#003' 6-max (real money) Seat #2 is the button")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, seat)
}

func TestExtractBoard(t *testing.T) {
	b := extractBoard("*** FLOP *** [2c 7d Jh]\n*** TURN *** [2c 7d Jh][Qs]\n*** RIVER *** [2c 7d Jh Qs][3h]\n")
	require.NotNil(t, b.flop)
	require.NotNil(t, b.turn)
	require.NotNil(t, b.river)
	assert.Equal(t, "2c 7d Jh", *b.flop)
	assert.Equal(t, "Qs", *b.turn)
	assert.Equal(t, "3h", *b.river)

	b = extractBoard("*** PRE-FLOP ***\nbob folds\n")
	assert.Nil(t, b.flop)
	assert.Nil(t, b.turn)
	assert.Nil(t, b.river)
}

func TestExtractRakeIgnoresNoRake(t *testing.T) {
	_, ok, _ := extractRake("Total pot 3710 | No rake")
	assert.False(t, ok)

	for _, line := range []string{"Total pot 170 | Rake 5", "Total pot 170 | rake 5"} {
		n, ok, err := extractRake(line)
		require.NoError(t, err)
		assert.True(t, ok, line)
		assert.EqualValues(t, 5, n, line)
	}
}
