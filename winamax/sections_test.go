package winamax

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(raw)
}

func firstBlock(t *testing.T) string {
	t.Helper()
	blocks := SplitBlocks(loadFixture(t, "ex1_hands.txt"))
	require.NotEmpty(t, blocks)
	return blocks[0]
}

func TestSplitSectionsFullHand(t *testing.T) {
	block := firstBlock(t)
	s := SplitSections(block)

	for _, st := range []Street{StreetAnteBlinds, StreetPreflop, StreetFlop, StreetTurn, StreetRiver, StreetShowdown, StreetSummary} {
		assert.Contains(t, s, st, st.String())
	}
	assert.NotContains(t, s, StreetHeader)
	assert.True(t, strings.HasPrefix(s[StreetPreflop], "*** PRE-FLOP ***"))
	assert.True(t, strings.HasPrefix(s[StreetTurn], "*** TURN ***"))
	assert.NotContains(t, s[StreetPreflop], "*** FLOP ***")

	// sections are ordered, contiguous and reach the end of the block
	start := strings.Index(block, "*** ANTE/BLINDS ***")
	var rebuilt strings.Builder
	for _, m := range sectionMarkers {
		rebuilt.WriteString(s[m.street])
	}
	assert.Equal(t, block[start:], rebuilt.String())
}

func TestSplitSectionsMissingMarkers(t *testing.T) {
	text := "header\n*** PRE-FLOP ***\nbob folds\n*** SUMMARY ***\nTotal pot 10\n"
	s := SplitSections(text)
	assert.Equal(t, "*** PRE-FLOP ***\nbob folds\n", s[StreetPreflop])
	assert.Equal(t, "*** SUMMARY ***\nTotal pot 10\n", s[StreetSummary])
	assert.NotContains(t, s, StreetFlop)
	assert.NotContains(t, s, StreetAnteBlinds)

	assert.Empty(t, SplitSections("no markers at all\njust text"))
	assert.Empty(t, SplitSections(""))
}

func TestSplitSectionsFirstOccurrenceOnly(t *testing.T) {
	text := "*** FLOP *** [2c 3d 4h]\nbob checks\n*** FLOP *** again\n*** SUMMARY ***\n"
	s := SplitSections(text)
	assert.Equal(t, "*** FLOP *** [2c 3d 4h]\nbob checks\n*** FLOP *** again\n", s[StreetFlop])
}

func TestSplitSectionsResplitIsIdempotent(t *testing.T) {
	s := SplitSections(firstBlock(t))
	again := SplitSections(s[StreetPreflop])
	assert.NotContains(t, again, StreetRiver)
	assert.Equal(t, s[StreetPreflop], again[StreetPreflop])
	assert.Len(t, again, 1)
}

func TestSplitSectionsPreamble(t *testing.T) {
	_, pre := splitSections("Seat 1: a (10)\n*** ANTE/BLINDS ***\na posts ante 1\n")
	assert.Equal(t, "Seat 1: a (10)\n", pre)

	_, pre = splitSections("Seat 1: a (10)\n")
	assert.Equal(t, "Seat 1: a (10)\n", pre)
}
