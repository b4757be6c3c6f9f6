package winamax

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestParseHeaderEx1(t *testing.T) {
	h, err := ParseHeader(loadFixture(t, "ex1_hands.txt"))
	require.NoError(t, err)

	assert.Equal(t, "Ex1", h.Name)
	assert.True(t, decimal.RequireFromString("5.50").Equal(h.BuyIn), "buy-in %s", h.BuyIn)
	assert.True(t, h.Fee.IsZero())
	assert.True(t, decimal.NewFromInt(5).Equal(h.BaseBuyIn))
	assert.True(t, decimal.RequireFromString("0.5").Equal(h.BaseFee))
	assert.Equal(t, time.Date(2024, 3, 1, 20, 15, 0, 0, time.UTC), h.Date)
	assert.Equal(t, "6-max real money", h.TournamentType)
	assert.Empty(t, h.Warnings)
}

func TestParseHeaderCommaAmounts(t *testing.T) {
	h, err := ParseHeader(`Winamax Poker - Tournament "Sunday Surprise" buyIn: 22,50€ + 2,50€ level: 1 - HandId: #1-1-1 - Holdem no limit (100/200) - 2024/05/05 18:00:00 UTC`)
	require.NoError(t, err)
	assert.Equal(t, "Sunday Surprise", h.Name)
	assert.True(t, decimal.NewFromInt(25).Equal(h.BuyIn))
	assert.Equal(t, "Unknown", h.TournamentType)
}

func TestParseHeaderMissingDateUsesClock(t *testing.T) {
	p := New(WithClock(fixedClock))
	h, err := p.ParseHeader(`Winamax Poker - Tournament "Ex1" buyIn: 5€ + 0.50€ level: 1 - HandId: #1-1-1`)
	require.NoError(t, err)
	assert.Equal(t, fixedClock(), h.Date)
	require.Len(t, h.Warnings, 1)
	assert.Equal(t, "date", h.Warnings[0].Field)
}

func TestParseHeaderRejectsForeignFile(t *testing.T) {
	for _, text := range []string{
		"",
		"PokerStars Hand #123: Tournament #456",
		"Winamax Poker - Tournament summary : Ex1(777)",
		"\nWinamax Poker - Tournament \"Ex1\" no buy-in here",
	} {
		_, err := ParseHeader(text)
		require.Error(t, err, text)

		var herr *HeaderError
		require.True(t, errors.As(err, &herr))
		assert.Equal(t, "no_tournament", herr.Reason)
	}
}

func TestHeaderErrorSnippet(t *testing.T) {
	long := "garbage " + string(make([]byte, 300))
	_, err := ParseHeader(long + "\nsecond line")
	var herr *HeaderError
	require.True(t, errors.As(err, &herr))
	assert.LessOrEqual(t, len(herr.Snippet), 120)
	assert.NotContains(t, herr.Snippet, "second line")
}
