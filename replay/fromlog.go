package replay

import (
	"fmt"

	"wmx-replay/winamax"
)

// FromLog parses a raw hand-history file and builds the tape of hand
// number (1-based, in parse order).
func FromLog(text string, number int) (*ReplayTape, error) {
	hands := winamax.ParseHands(text)
	if number < 1 || number > len(hands) {
		return nil, &ReplayError{
			StepIndex: -1,
			Reason:    "hand_not_found",
			Message:   fmt.Sprintf("hand %d not in log (%d hands)", number, len(hands)),
		}
	}
	return BuildTape(&hands[number-1])
}
