// Package retrieval wraps semantic search over the vector store. It embeds
// the query, fetches the nearest passages, and merges them with local keyword
// hits (hybrid search). It only reports success or failure; selecting a
// fallback response is the orchestrator's job.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/knowledge"
)

// ErrNoPassages is returned when search succeeds but nothing relevant comes
// back; callers treat it the same as a transport failure.
var ErrNoPassages = errors.New("no relevant passages found")

// Embedder is the slice of the provider the adapter needs.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Adapter performs hybrid search: vector similarity against qdrant plus
// keyword matches from the in-process knowledge index.
type Adapter struct {
	client     *qdrant.Client
	collection string
	embedder   Embedder
	kb         *knowledge.Base
	topK       int
	logger     *log.Logger
}

// New builds the adapter. A missing or unreachable qdrant endpoint is not an
// error here: the adapter degrades to keyword-only search and the health
// endpoint reports the gap.
func New(cfg config.RetrievalConfig, embedder Embedder, kb *knowledge.Base) *Adapter {
	a := &Adapter{
		collection: cfg.Qdrant.Collection,
		embedder:   embedder,
		kb:         kb,
		topK:       cfg.TopK,
		logger:     log.New(log.Writer(), "[RETRIEVAL] ", log.LstdFlags),
	}
	if strings.TrimSpace(cfg.Qdrant.URL) == "" {
		a.logger.Printf("qdrant not configured, semantic search disabled")
		return a
	}
	client, err := newQdrantClient(cfg.Qdrant)
	if err != nil {
		a.logger.Printf("qdrant client init failed, semantic search disabled: %v", err)
		return a
	}
	a.client = client
	return a
}

func newQdrantClient(cfg config.QdrantConfig) (*qdrant.Client, error) {
	raw := cfg.URL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing qdrant url: %w", err)
	}
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}
	return qdrant.NewClient(&qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
}

// Search returns a concatenated excerpt of the most relevant knowledge for
// the question, or an error when neither the vector store nor the keyword
// index produced anything.
func (a *Adapter) Search(ctx context.Context, question string) (string, error) {
	passages := a.vectorSearch(ctx, question)
	for _, hit := range a.kb.KeywordSearch(question, a.topK) {
		passages = appendUnique(passages, hit)
	}
	if len(passages) == 0 {
		return "", ErrNoPassages
	}
	return strings.Join(passages, "\n\n"), nil
}

func (a *Adapter) vectorSearch(ctx context.Context, question string) []string {
	if a.client == nil {
		return nil
	}
	vecs, err := a.embedder.CreateEmbedding(ctx, []string{question})
	if err != nil || len(vecs) == 0 {
		a.logger.Printf("embedding query failed: %v", err)
		return nil
	}

	limit := uint64(a.topK)
	points, err := a.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: a.collection,
		Query:          qdrant.NewQuery(vecs[0]...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		a.logger.Printf("qdrant query failed: %v", err)
		return nil
	}

	var out []string
	for _, point := range points {
		if point.Payload == nil {
			continue
		}
		for _, key := range []string{"content", "text"} {
			if v, ok := point.Payload[key]; ok {
				if s := v.GetStringValue(); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

// HealthCheck reports vector store connectivity for the status endpoint.
func (a *Adapter) HealthCheck(ctx context.Context) bool {
	if a.client == nil {
		return false
	}
	if _, err := a.client.HealthCheck(ctx); err != nil {
		return false
	}
	return true
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
