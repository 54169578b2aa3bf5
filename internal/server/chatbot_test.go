package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/chat"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/ratelimit"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/telemetry"
	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

type memStore struct {
	data   map[string]string
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, counts: map[string]int64{}}
}

func (s *memStore) Get(ctx context.Context, key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *memStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
	s.data[key] = value
}

func (s *memStore) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	s.counts[key]++
	return s.counts[key]
}

func (s *memStore) HealthCheck(ctx context.Context) bool { return true }

type staticRetriever struct{ passages string }

func (r staticRetriever) Search(ctx context.Context, question string) (string, error) {
	return r.passages, nil
}

type staticCompleter struct{ answer string }

func (c staticCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.answer, nil
}

func newTestHandler(rateLimit int) *ChatHandler {
	cfg := config.ChatConfig{RateLimitRequests: rateLimit}.Normalize()
	store := newMemStore()
	limiter := ratelimit.New(store, cfg.RateLimitRequests, cfg.RateLimitWindow)
	sessions := chat.NewSessionManager(store, cfg)
	metrics := telemetry.NewMetrics(config.TelemetryConfig{Enabled: true})
	orch := chat.NewOrchestrator(store, limiter, sessions,
		staticRetriever{passages: "Isaac builds full-stack apps."},
		staticCompleter{answer: "Here is what I know."},
		metrics, cfg)
	return &ChatHandler{Orch: orch, RetryAfter: int(cfg.RateLimitWindow.Seconds())}
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.chat(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestChatEndpointSuccess(t *testing.T) {
	h := newTestHandler(60)
	rec := postChat(t, h, `{"question":"Tell me about Nutrivize"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "Here is what I know." {
		t.Fatalf("unexpected answer: %q", resp.Response)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected a session id in the response")
	}
	if resp.SearchMethod != models.SearchMethodVector {
		t.Fatalf("expected vector_search, got %q", resp.SearchMethod)
	}
}

func TestChatEndpointEmptyQuestion(t *testing.T) {
	h := newTestHandler(60)

	for _, body := range []string{`{"question":""}`, `{"question":"   "}`, `{}`} {
		rec := postChat(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestChatEndpointRateLimited(t *testing.T) {
	h := newTestHandler(1)

	if rec := postChat(t, h, `{"question":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	rec := postChat(t, h, `{"question":"hi again"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var resp models.RateLimitedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if resp.RetryAfter != 3600 {
		t.Fatalf("expected retry-after 3600, got %d", resp.RetryAfter)
	}
	if resp.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestChatEndpointInvalidBody(t *testing.T) {
	h := newTestHandler(60)
	rec := postChat(t, h, `{"question": 42}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}
