package winamax

import (
	"errors"
	"fmt"
)

var ErrNoHandID = errors.New("block has no hand identifier")

// HeaderError is fatal for a whole file: without a tournament identity there
// is nothing to attach hands to.
type HeaderError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Snippet string `json:"snippet"`
}

func (e *HeaderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("header error(reason=%s): %s: %q", e.Reason, e.Message, e.Snippet)
}

// HandError describes one dropped block. It never aborts a file.
type HandError struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Snippet string `json:"snippet"`
}

func (e *HandError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("hand error(block=%d reason=%s): %s", e.Index, e.Reason, e.Message)
}

// Warning flags a field that fell back to a default instead of being read.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const snippetLimit = 120

func snippet(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			s = s[:i]
			break
		}
	}
	if len(s) > snippetLimit {
		cut := snippetLimit
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
