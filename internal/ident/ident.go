package ident

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out ULIDs and millisecond timestamps that never go
// backwards within one process.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	last    int64
	clock   func() time.Time
}

func New() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		clock:   time.Now,
	}
}

// WithClock is used by tests to drive the timestamp source.
func (g *Generator) WithClock(clock func() time.Time) *Generator {
	g.clock = clock
	return g
}

func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock()), g.entropy).String()
}

// Now returns unix milliseconds, clamped to the last value handed out.
func (g *Generator) Now() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock().UnixMilli()
	if ms < g.last {
		ms = g.last
	}
	g.last = ms
	return ms
}
