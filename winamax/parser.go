package winamax

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Parser turns Winamax export text into structured records. It holds no
// state between calls and is safe for concurrent use.
type Parser struct {
	log     zerolog.Logger
	now     func() time.Time
	workers int
}

type parserOption func(*Parser)

func New(opts ...parserOption) *Parser {
	p := &Parser{
		log:     zerolog.Nop(),
		now:     time.Now,
		workers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithLogger(log zerolog.Logger) parserOption {
	return func(p *Parser) {
		p.log = log.With().Str("component", "winamax").Logger()
	}
}

// WithClock sets the time used when a hand has no readable date.
func WithClock(now func() time.Time) parserOption {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithWorkers parses hand blocks on n goroutines. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) parserOption {
	return func(p *Parser) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		p.workers = n
	}
}

var std = New()

func ParseHeader(text string) (Header, error) { return std.ParseHeader(text) }

func ParseHands(text string) []Hand { return std.ParseHands(text) }

func ParseLog(text string) (*LogResult, error) { return std.ParseLog(text) }
