package winamax

import (
	"fmt"
	"sort"
)

const PositionUnknown = "Unknown"

var (
	threeHandedPositions = []string{"BTN", "SB", "BB"}
	fullRingPositions    = []string{"BTN", "SB", "BB", "UTG", "MP", "MP2", "MP3", "CO"}
)

// HeroPosition labels heroSeat relative to the button. Offsets are counted
// over the occupied seat numbers in ascending order, so gaps in the seating
// are ignored. heroSeat <= 0 means the hero could not be seated.
func HeroPosition(heroSeat int, seats []int, buttonSeat int) string {
	sorted := append([]int(nil), seats...)
	sort.Ints(sorted)

	heroIdx := indexOf(sorted, heroSeat)
	if heroSeat <= 0 || heroIdx < 0 {
		return PositionUnknown
	}
	if heroSeat == buttonSeat {
		return "BTN"
	}
	buttonIdx := indexOf(sorted, buttonSeat)
	if buttonIdx < 0 {
		return fmt.Sprintf("Seat %d", heroSeat)
	}

	n := len(sorted)
	offset := ((heroIdx-buttonIdx)%n + n) % n
	switch {
	case n == 2:
		if offset == 0 {
			return "BTN"
		}
		return "BB"
	case n == 3:
		return threeHandedPositions[offset]
	case offset < len(fullRingPositions):
		return fullRingPositions[offset]
	default:
		return fmt.Sprintf("MP+%d", offset-3)
	}
}

func indexOf(seats []int, seat int) int {
	for i, s := range seats {
		if s == seat {
			return i
		}
	}
	return -1
}
