package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/ratelimit"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/telemetry"
)

// fakeStore implements cache.Store in memory; down mimics a lost connection.
type fakeStore struct {
	data   map[string]string
	counts map[string]int64
	down   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool) {
	if f.down {
		return "", false
	}
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
	if f.down {
		return
	}
	f.data[key] = value
}

func (f *fakeStore) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	if f.down {
		return 0
	}
	f.counts[key]++
	return f.counts[key]
}

func (f *fakeStore) HealthCheck(ctx context.Context) bool { return !f.down }

// fakeRetriever returns fixed passages or a forced failure.
type fakeRetriever struct {
	passages string
	fail     bool
	calls    int
}

func (f *fakeRetriever) Search(ctx context.Context, question string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("vector store unreachable")
	}
	return f.passages, nil
}

// fakeCompleter numbers its replies so tests can tell calls apart, and
// records the last user prompt for assertions on prompt assembly.
type fakeCompleter struct {
	fail       bool
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.fail {
		return "", errors.New("completion model unreachable")
	}
	return fmt.Sprintf("reply %d", f.calls), nil
}

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{}.Normalize()
}

func newTestOrchestrator(store *fakeStore, searcher Retriever, llm Completer, cfg config.ChatConfig) *Orchestrator {
	limiter := ratelimit.New(store, cfg.RateLimitRequests, cfg.RateLimitWindow)
	sessions := NewSessionManager(store, cfg)
	metrics := telemetry.NewMetrics(config.TelemetryConfig{Enabled: true})
	return NewOrchestrator(store, limiter, sessions, searcher, llm, metrics, cfg)
}
