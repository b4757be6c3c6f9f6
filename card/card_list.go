package card

import (
	"fmt"
	"strings"
)

type List []Card

// ParseList reads a space separated card run such as "Ah 7d 2c".
// Duplicates are rejected since no board or hand can hold the same card twice.
func ParseList(s string) (List, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(List, 0, len(fields))
	seen := make(map[Card]struct{}, len(fields))
	for i, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("card[%d]: %w", i, err)
		}
		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func (ds List) String() string {
	parts := make([]string, len(ds))
	for i, c := range ds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (ds List) Contains(c Card) bool {
	for _, x := range ds {
		if x == c {
			return true
		}
	}
	return false
}
