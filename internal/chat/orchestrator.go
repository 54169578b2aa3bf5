package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/cache"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/entities"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/knowledge"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/ratelimit"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/telemetry"
	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

const responseKeyPrefix = "response:"

// ErrRateLimited is the only error Respond surfaces: every downstream failure
// is converted into a degraded-but-successful reply.
var ErrRateLimited = errors.New("rate limit exceeded")

// Retriever is the semantic search dependency.
type Retriever interface {
	Search(ctx context.Context, question string) (string, error)
}

// Completer is the generative model dependency.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Orchestrator sequences the request pipeline: rate check, session load,
// entity update, cache lookup, retrieval, prompt assembly, completion,
// session update, response caching.
type Orchestrator struct {
	store    cache.Store
	limiter  *ratelimit.Limiter
	sessions *SessionManager
	searcher Retriever
	llm      Completer
	metrics  *telemetry.Metrics
	cfg      config.ChatConfig
	logger   *log.Logger
}

func NewOrchestrator(store cache.Store, limiter *ratelimit.Limiter, sessions *SessionManager,
	searcher Retriever, llm Completer, metrics *telemetry.Metrics, cfg config.ChatConfig) *Orchestrator {
	return &Orchestrator{
		store:    store,
		limiter:  limiter,
		sessions: sessions,
		searcher: searcher,
		llm:      llm,
		metrics:  metrics,
		cfg:      cfg,
		logger:   log.New(log.Writer(), "[CHAT] ", log.LstdFlags),
	}
}

// Respond runs one question through the pipeline. It returns ErrRateLimited
// when the client is over budget; any other failure degrades into a valid
// response carrying the error flag, because the product requirement is
// "always answer something".
func (o *Orchestrator) Respond(ctx context.Context, question, sessionID, clientID string) (*models.ChatResponse, error) {
	if !o.limiter.Allow(ctx, clientID) {
		o.metrics.ObserveRequest("rate_limited")
		return nil, ErrRateLimited
	}

	sess, resumed := o.sessions.Ensure(ctx, sessionID)
	if sessionID != "" && !resumed {
		o.logger.Printf("session %s not found, recreated (lenient resume)", sessionID)
	}

	prior := sess.Entities
	updated, seen := entities.Extract(question, prior)
	instructions := entities.Instructions(question, prior, updated)
	sess.Entities = updated
	sess.Flow = append(sess.Flow, models.FlowEvent{
		Question:  question,
		Timestamp: time.Now(),
		Entities:  seen,
	})

	contextUsed := instructions
	if updated.CurrentTopic != "" {
		contextUsed = append(contextUsed, "current topic: "+updated.CurrentTopic)
	}

	// Cache lookup, guarded by a freshness window independent of store TTL.
	if cached, ok := o.lookupCachedResponse(ctx, question); ok {
		o.sessions.AppendTurn(sess, "user", question, false)
		o.sessions.AppendTurn(sess, "assistant", cached.Response, true)
		o.sessions.Persist(ctx, sess)
		o.metrics.ObserveCacheHit()
		o.metrics.ObserveRequest("cached")
		return &models.ChatResponse{
			Response:           cached.Response,
			SessionID:          sess.ID,
			SearchMethod:       models.SearchMethodCached,
			Cached:             true,
			ConversationLength: len(sess.Messages) / 2,
			ContextUsed:        contextUsed,
			Timestamp:          time.Now().Format(time.RFC3339),
		}, nil
	}

	searchMethod := models.SearchMethodVector
	relevantInfo, err := o.searcher.Search(ctx, question)
	if err != nil || relevantInfo == "" {
		// Swallow retrieval failures: substitute the keyword-matched canned
		// knowledge so the completion still has something on-topic to work with.
		if err != nil {
			o.logger.Printf("retrieval failed, using fallback knowledge: %v", err)
		}
		relevantInfo = knowledge.Fallback(question)
		searchMethod = models.SearchMethodFallback
		o.metrics.ObserveFallback()
	}

	userPrompt := buildUserPrompt(relevantInfo, sess, updated, instructions, question, o.cfg.ContextMessages)

	start := time.Now()
	answer, err := o.llm.Complete(ctx, systemPrompt, userPrompt)
	o.metrics.ObserveCompletion(time.Since(start))
	if err != nil {
		o.logger.Printf("completion failed: %v", err)
		return o.degradedReply(ctx, sess, question, contextUsed), nil
	}

	o.sessions.AppendTurn(sess, "user", question, false)
	o.sessions.AppendTurn(sess, "assistant", answer, false)
	o.sessions.Persist(ctx, sess)

	o.cacheResponse(ctx, question, answer, map[string]string{
		"searchMethod": string(searchMethod),
		"sessionId":    sess.ID,
	})

	o.metrics.ObserveRequest("ok")
	return &models.ChatResponse{
		Response:           answer,
		SessionID:          sess.ID,
		SearchMethod:       searchMethod,
		Cached:             false,
		ConversationLength: len(sess.Messages) / 2,
		ContextUsed:        contextUsed,
		Timestamp:          time.Now().Format(time.RFC3339),
	}, nil
}

// degradedReply answers from the canned table after a completion failure and
// persists the session best-effort, in its own swallow boundary so a second
// failure cannot escape either.
func (o *Orchestrator) degradedReply(ctx context.Context, sess *models.Session, question string, contextUsed []string) *models.ChatResponse {
	answer := knowledge.Fallback(question)

	func() {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Printf("best-effort session update panicked: %v", r)
			}
		}()
		o.sessions.AppendTurn(sess, "user", question, false)
		o.sessions.AppendTurn(sess, "assistant", answer, false)
		o.sessions.Persist(ctx, sess)
	}()

	o.metrics.ObserveRequest("degraded")
	return &models.ChatResponse{
		Response:           answer,
		SessionID:          sess.ID,
		SearchMethod:       models.SearchMethodFallback,
		Cached:             false,
		ConversationLength: len(sess.Messages) / 2,
		ContextUsed:        contextUsed,
		Error:              true,
		Timestamp:          time.Now().Format(time.RFC3339),
	}
}

// lookupCachedResponse reads the response cache. Entries are advisory:
// corrupt or stale entries are ignored, never an error. Staleness is checked
// against the entry's own timestamp in addition to the store TTL.
func (o *Orchestrator) lookupCachedResponse(ctx context.Context, question string) (*models.CachedResponse, bool) {
	raw, ok := o.store.Get(ctx, responseKey(question))
	if !ok {
		return nil, false
	}
	var entry models.CachedResponse
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		o.logger.Printf("corrupt response cache entry, ignoring: %v", err)
		return nil, false
	}
	if time.Since(entry.Timestamp) > o.cfg.FreshnessWindow {
		return nil, false
	}
	return &entry, true
}

func (o *Orchestrator) cacheResponse(ctx context.Context, question, answer string, metadata map[string]string) {
	entry := models.CachedResponse{
		Response:  answer,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		o.logger.Printf("marshal response cache entry: %v", err)
		return
	}
	o.store.SetWithTTL(ctx, responseKey(question), string(data), o.cfg.ResponseCacheTTL)
}

// responseKey hashes the normalized question so trivial phrasing differences
// (case, surrounding whitespace) share a cache entry.
func responseKey(question string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	return fmt.Sprintf("%s%x", responseKeyPrefix, h.Sum64())
}
