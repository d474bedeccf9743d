package ordernum

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fas-supply/backend-wholesale/internal/obs"
)

const numberSpace = 1_000_000

// Store counts existing documents (orders and invoices) carrying a candidate
// number.
type Store interface {
	CountNumber(ctx context.Context, number string) (int64, error)
}

// Policy is the retry policy for number generation.
type Policy struct {
	Prefix      string
	MaxAttempts int
}

// Generator produces short human-readable order numbers of the form
// PREFIX-###### by drawing random 6-digit candidates and checking them against
// the store. The check-then-use window is not atomic; the store's unique
// constraint on order numbers catches the narrow race and callers regenerate
// on conflict.
type Generator struct {
	Store  Store
	Policy Policy

	// Rand returns a value in [0, n). Nil uses the process-wide source.
	Rand func(n int64) int64
	// Now drives the time-derived fallback. Nil uses time.Now.
	Now func() time.Time
}

// Generate returns the first candidate with zero existing matches. When every
// attempt collides, or the collision check itself fails, it falls back to a
// time-derived candidate: liveness is preferred over a hard uniqueness
// guarantee, and the store constraint remains the final arbiter.
func (g Generator) Generate(ctx context.Context) string {
	attempts := g.Policy.MaxAttempts
	if attempts < 1 {
		attempts = 8
	}
	for i := 0; i < attempts; i++ {
		candidate := g.format(g.randInt(numberSpace))
		count, err := g.Store.CountNumber(ctx, candidate)
		if err != nil {
			return g.fallback()
		}
		if count == 0 {
			return candidate
		}
	}
	return g.fallback()
}

func (g Generator) fallback() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	if obs.OrderNumberFallbackTotal != nil {
		obs.OrderNumberFallbackTotal.Inc()
	}
	return g.format(now().UnixMilli() % numberSpace)
}

func (g Generator) format(n int64) string {
	prefix := g.Policy.Prefix
	if prefix == "" {
		prefix = "FAS"
	}
	return fmt.Sprintf("%s-%06d", prefix, n)
}

func (g Generator) randInt(n int64) int64 {
	if g.Rand != nil {
		return g.Rand(n)
	}
	return rand.Int64N(n)
}
