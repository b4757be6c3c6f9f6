package winamax

import "strings"

// Sections maps a street to the exact slice of hand text that belongs to it,
// marker line included.
type Sections map[Street]string

var sectionMarkers = []struct {
	street Street
	marker string
}{
	{StreetAnteBlinds, "*** ANTE/BLINDS ***"},
	{StreetPreflop, "*** PRE-FLOP ***"},
	{StreetFlop, "*** FLOP ***"},
	{StreetTurn, "*** TURN ***"},
	{StreetRiver, "*** RIVER ***"},
	{StreetShowdown, "*** SHOW DOWN ***"},
	{StreetSummary, "*** SUMMARY ***"},
}

// SplitSections cuts one hand into its street sections. Only the first
// occurrence of each marker opens a section; a section runs until the next
// marker that opens one, or the end of the text.
func SplitSections(text string) Sections {
	s, _ := splitSections(text)
	return s
}

// splitSections also returns the text ahead of the first marker, which is
// where the table and seat rows live.
func splitSections(text string) (Sections, string) {
	out := make(Sections)
	seen := make(map[Street]bool, len(sectionMarkers))
	cur, start := StreetHeader, -1
	preamble := text
	for pos := 0; pos < len(text); {
		next := len(text)
		if nl := strings.IndexByte(text[pos:], '\n'); nl >= 0 {
			next = pos + nl + 1
		}
		if st, idx, ok := findMarker(text[pos:next], seen); ok {
			if start < 0 {
				preamble = text[:pos+idx]
			} else {
				out[cur] = text[start : pos+idx]
			}
			seen[st] = true
			cur, start = st, pos+idx
		}
		pos = next
	}
	if start >= 0 {
		out[cur] = text[start:]
	}
	return out, preamble
}

func findMarker(line string, seen map[Street]bool) (Street, int, bool) {
	best, at := StreetHeader, -1
	for _, m := range sectionMarkers {
		if seen[m.street] {
			continue
		}
		if i := strings.Index(line, m.marker); i >= 0 && (at < 0 || i < at) {
			best, at = m.street, i
		}
	}
	return best, at, at >= 0
}

// Lines returns the trimmed, non-empty lines of a section.
func (s Sections) Lines(st Street) []string {
	return nonEmptyLines(s[st])
}

func nonEmptyLines(text string) []string {
	out := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
