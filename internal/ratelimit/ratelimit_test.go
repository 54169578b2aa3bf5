package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeStore implements cache.Store in memory; down mimics a lost connection.
type fakeStore struct {
	counts map[string]int64
	down   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool) { return "", false }
func (f *fakeStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
}
func (f *fakeStore) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	if f.down {
		return 0
	}
	f.counts[key]++
	return f.counts[key]
}
func (f *fakeStore) HealthCheck(ctx context.Context) bool { return !f.down }

func TestAllowUpToBudget(t *testing.T) {
	store := newFakeStore()
	limiter := New(store, 60, time.Hour)

	for i := 1; i <= 60; i++ {
		if !limiter.Allow(context.Background(), "1.2.3.4") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if limiter.Allow(context.Background(), "1.2.3.4") {
		t.Fatalf("61st request should be rejected")
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	store := newFakeStore()
	limiter := New(store, 1, time.Hour)

	if !limiter.Allow(context.Background(), "a") {
		t.Fatalf("first request for a should pass")
	}
	if limiter.Allow(context.Background(), "a") {
		t.Fatalf("second request for a should be rejected")
	}
	if !limiter.Allow(context.Background(), "b") {
		t.Fatalf("b should have its own budget")
	}
}

func TestFailsOpenWhenStoreDown(t *testing.T) {
	store := newFakeStore()
	store.down = true
	limiter := New(store, 1, time.Hour)

	for i := 0; i < 10; i++ {
		if !limiter.Allow(context.Background(), "1.2.3.4") {
			t.Fatalf("limiter must be permissive when the store is down")
		}
	}
}

func TestRetryAfter(t *testing.T) {
	limiter := New(newFakeStore(), 60, time.Hour)
	if got := limiter.RetryAfter(); got != 3600 {
		t.Fatalf("expected retry-after 3600, got %d", got)
	}
}
