package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newStubCounter() *stubCounter {
	return &stubCounter{counts: make(map[string]int64), expires: make(map[string]time.Duration)}
}

func (s *stubCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if s.err != nil {
		return redis.NewIntResult(0, s.err)
	}
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *stubCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	s.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func TestQuota_AllowsUpToLimit(t *testing.T) {
	c := newStubCounter()
	q := NewQuota(c, "tags", 2, time.Hour)
	fixed := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		ok, err := q.Allow(context.Background(), "u1")
		if err != nil || !ok {
			t.Fatalf("call %d: expected allowed, got %v %v", i+1, ok, err)
		}
	}
	ok, err := q.Allow(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected third call to be rejected")
	}

	if ok, _ := q.Allow(context.Background(), "u2"); !ok {
		t.Fatalf("other subjects must have their own window")
	}

	key := "quota:tags:u1:" + "1767261600"
	if c.expires[key] != time.Hour {
		t.Fatalf("expected expiry on %s, got %v", key, c.expires)
	}
}

func TestQuota_NewWindowResets(t *testing.T) {
	c := newStubCounter()
	q := NewQuota(c, "tags", 1, time.Hour)
	now := time.Date(2026, 1, 1, 10, 59, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	if ok, _ := q.Allow(context.Background(), "u1"); !ok {
		t.Fatalf("expected first call allowed")
	}
	if ok, _ := q.Allow(context.Background(), "u1"); ok {
		t.Fatalf("expected second call rejected")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := q.Allow(context.Background(), "u1"); !ok {
		t.Fatalf("expected call in next window to be allowed")
	}
}

func TestQuota_PropagatesErrors(t *testing.T) {
	c := newStubCounter()
	c.err = errors.New("connection refused")
	q := NewQuota(c, "tags", 1, time.Hour)

	if _, err := q.Allow(context.Background(), "u1"); err == nil {
		t.Fatalf("expected error")
	}
}
