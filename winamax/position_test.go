package winamax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeroPosition(t *testing.T) {
	tests := []struct {
		name   string
		hero   int
		seats  []int
		button int
		want   string
	}{
		{"not seated", 0, []int{1, 2, 3}, 1, "Unknown"},
		{"unknown seat", 5, []int{1, 2, 3}, 1, "Unknown"},
		{"on the button", 3, []int{1, 2, 3, 4}, 3, "BTN"},
		{"heads up bb", 1, []int{1, 2}, 2, "BB"},
		{"three handed sb", 4, []int{1, 2, 4}, 2, "SB"},
		{"three handed bb", 1, []int{1, 2, 4}, 2, "BB"},
		{"six max utg", 4, []int{1, 2, 3, 4, 5, 6}, 1, "UTG"},
		{"six max wraps", 1, []int{1, 2, 3, 4, 5, 6}, 2, "MP2"},
		{"unsorted seats", 2, []int{6, 2, 4}, 4, "BB"},
		{"full ring co", 8, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 1, "CO"},
		{"overflow", 9, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 1, "MP+5"},
		{"button not seated", 2, []int{1, 2, 3}, 5, "Seat 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeroPosition(tc.hero, tc.seats, tc.button))
		})
	}
}

func TestHeroPositionButtonIsAlwaysBTN(t *testing.T) {
	for n := 2; n <= 10; n++ {
		seats := make([]int, n)
		for i := range seats {
			seats[i] = i + 1
		}
		for _, b := range seats {
			assert.Equal(t, "BTN", HeroPosition(b, seats, b), "n=%d button=%d", n, b)
		}
	}
}

func TestHeroPositionHeadsUpCoversBothSeats(t *testing.T) {
	seats := []int{3, 7}
	for _, button := range seats {
		got := map[string]int{}
		for _, hero := range seats {
			got[HeroPosition(hero, seats, button)]++
		}
		assert.Equal(t, map[string]int{"BTN": 1, "BB": 1}, got)
	}
}

func TestHeroPositionDoesNotMutateSeats(t *testing.T) {
	seats := []int{6, 2, 4}
	HeroPosition(2, seats, 4)
	assert.Equal(t, []int{6, 2, 4}, seats)
}
