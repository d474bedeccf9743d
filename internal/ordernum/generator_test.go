package ordernum_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/fas-supply/backend-wholesale/internal/ordernum"
)

type memoryStore struct {
	taken map[string]int64
	err   error
	calls int
}

func (m *memoryStore) CountNumber(_ context.Context, number string) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.taken[number], nil
}

var numberPattern = regexp.MustCompile(`^FAS-\d{6}$`)

func TestGenerateFormat(t *testing.T) {
	gen := ordernum.Generator{
		Store:  &memoryStore{},
		Policy: ordernum.Policy{Prefix: "FAS", MaxAttempts: 8},
		Rand:   func(n int64) int64 { return 7 },
	}
	got := gen.Generate(context.Background())
	if got != "FAS-000007" {
		t.Fatalf("number = %q, want FAS-000007", got)
	}
	if !numberPattern.MatchString(got) {
		t.Fatalf("number %q does not match pattern", got)
	}
}

func TestGenerateSkipsCollisions(t *testing.T) {
	store := &memoryStore{taken: map[string]int64{
		"FAS-000001": 1,
		"FAS-000002": 1,
		"FAS-000003": 1,
	}}
	draws := []int64{1, 2, 3, 42}
	i := 0
	gen := ordernum.Generator{
		Store:  store,
		Policy: ordernum.Policy{Prefix: "FAS", MaxAttempts: 8},
		Rand: func(n int64) int64 {
			v := draws[i%len(draws)]
			i++
			return v
		},
	}

	got := gen.Generate(context.Background())
	if got != "FAS-000042" {
		t.Fatalf("number = %q, want FAS-000042", got)
	}
	if _, collided := store.taken[got]; collided {
		t.Fatalf("generator returned a seeded colliding number %q", got)
	}
	if store.calls != 4 {
		t.Fatalf("store consulted %d times, want 4", store.calls)
	}
}

func TestGenerateNeverReturnsSeededNumbers(t *testing.T) {
	taken := map[string]int64{}
	for n := 0; n < 20; n++ {
		taken[fmt.Sprintf("FAS-%06d", n)] = 1
	}
	store := &memoryStore{taken: taken}
	draw := int64(0)
	gen := ordernum.Generator{
		Store:  store,
		Policy: ordernum.Policy{Prefix: "FAS", MaxAttempts: 8},
		Rand: func(n int64) int64 {
			draw++
			return draw % 20 // every draw collides
		},
		Now: func() time.Time { return time.UnixMilli(1_723_456_789_123) },
	}

	got := gen.Generate(context.Background())
	if _, collided := taken[got]; collided {
		t.Fatalf("generator returned seeded number %q", got)
	}
	if store.calls != 8 {
		t.Fatalf("store consulted %d times, want the full 8 attempts", store.calls)
	}
}

func TestGenerateFallbackIsTimeDerived(t *testing.T) {
	store := &memoryStore{taken: map[string]int64{"FAS-000005": 1}}
	gen := ordernum.Generator{
		Store:  store,
		Policy: ordernum.Policy{Prefix: "FAS", MaxAttempts: 3},
		Rand:   func(n int64) int64 { return 5 },
		Now:    func() time.Time { return time.UnixMilli(987_654_321) },
	}

	got := gen.Generate(context.Background())
	want := fmt.Sprintf("FAS-%06d", int64(987_654_321)%1_000_000)
	if got != want {
		t.Fatalf("fallback = %q, want %q", got, want)
	}
}

func TestGenerateStoreErrorFallsBack(t *testing.T) {
	gen := ordernum.Generator{
		Store:  &memoryStore{err: errors.New("unavailable")},
		Policy: ordernum.Policy{Prefix: "FAS", MaxAttempts: 8},
		Now:    func() time.Time { return time.UnixMilli(1_000_123) },
	}

	got := gen.Generate(context.Background())
	if got != "FAS-000123" {
		t.Fatalf("number = %q, want FAS-000123", got)
	}
}

func TestGenerateDefaultPolicy(t *testing.T) {
	store := &memoryStore{taken: map[string]int64{}}
	always := int64(9)
	gen := ordernum.Generator{
		Store: store,
		Rand:  func(n int64) int64 { return always },
	}
	got := gen.Generate(context.Background())
	if got != "FAS-000009" {
		t.Fatalf("number = %q, want default FAS prefix", got)
	}
}
