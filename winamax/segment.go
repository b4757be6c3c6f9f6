package winamax

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ParseLog parses the header and every hand of a hand-history file. Only a
// bad header is an error; hands that fail are reported in Errors.
func (p *Parser) ParseLog(text string) (*LogResult, error) {
	text = StripBOM(text)
	header, err := p.ParseHeader(text)
	if err != nil {
		p.log.Warn().Err(err).Msg("rejecting hand log")
		return nil, err
	}
	hands, failures := p.parseBlocks(SplitBlocks(text))
	res := &LogResult{
		Header:     header,
		Hands:      hands,
		HandsCount: strings.Count(text, TournamentMarker),
		Skipped:    len(failures),
		Errors:     failures,
	}
	p.log.Info().
		Str("tournament", header.Name).
		Int("hands", len(hands)).
		Int("markers", res.HandsCount).
		Int("skipped", res.Skipped).
		Msg("hand log parsed")
	return res, nil
}

// ParseHands returns the hands of a log in file order, numbered from 1.
// Blocks that do not parse are dropped and do not consume a number.
func (p *Parser) ParseHands(text string) []Hand {
	hands, _ := p.parseBlocks(SplitBlocks(StripBOM(text)))
	return hands
}

// StripBOM drops a leading UTF-8 byte order mark, which some exports carry.
func StripBOM(text string) string { return strings.TrimPrefix(text, "\ufeff") }

// SplitBlocks cuts a log at every tournament marker. The marker stays at the
// head of the block that follows it; blank blocks are dropped.
func SplitBlocks(text string) []string { return SplitAt(text, TournamentMarker) }

// SplitAt cuts text in front of every occurrence of marker and drops blank
// pieces.
func SplitAt(text, marker string) []string {
	var blocks []string
	add := func(b string) {
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
	}
	start := 0
	for start < len(text) {
		i := strings.Index(text[start+1:], marker)
		if i < 0 {
			break
		}
		cut := start + 1 + i
		add(text[start:cut])
		start = cut
	}
	add(text[start:])
	return blocks
}

func (p *Parser) parseBlocks(blocks []string) ([]Hand, []HandError) {
	parsed := make([]*Hand, len(blocks))
	failed := make([]*HandError, len(blocks))

	var g errgroup.Group
	g.SetLimit(max(p.workers, 1))
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failed[i] = &HandError{Index: i, Reason: "panic", Message: fmt.Sprint(r), Snippet: blockSnippet(block)}
				}
			}()
			h, err := p.ParseHand(block, 0)
			if err != nil {
				failed[i] = handError(i, block, err)
				return nil
			}
			parsed[i] = h
			return nil
		})
	}
	_ = g.Wait()

	hands := make([]Hand, 0, len(blocks))
	failures := make([]HandError, 0)
	for i := range blocks {
		if parsed[i] != nil {
			h := parsed[i]
			h.HandNumber = len(hands) + 1
			hands = append(hands, *h)
			continue
		}
		if f := failed[i]; f != nil {
			p.log.Warn().
				Int("block", f.Index).
				Str("reason", f.Reason).
				Str("snippet", f.Snippet).
				Msg(f.Message)
			failures = append(failures, *f)
		}
	}
	return hands, failures
}

func handError(index int, block string, err error) *HandError {
	reason := "bad_field"
	if errors.Is(err, ErrNoHandID) {
		reason = "no_hand_id"
	}
	return &HandError{Index: index, Reason: reason, Message: err.Error(), Snippet: blockSnippet(block)}
}

func blockSnippet(block string) string { return snippet(strings.TrimSpace(block)) }
