package models

import (
	"time"
)

// SearchMethod labels how the response text was produced.
type SearchMethod string

const (
	SearchMethodVector   SearchMethod = "vector_search"
	SearchMethodFallback SearchMethod = "fallback"
	SearchMethodCached   SearchMethod = "cached"
)

// ChatMessage is a single turn inside a session.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached,omitempty"`
}

// EntityState tracks what the conversation is "about". Projects and Topics
// only ever grow for the life of the session; LastMention and CurrentTopic
// are mutable pointers into those sets.
type EntityState struct {
	Projects     []string `json:"projects"`
	Topics       []string `json:"topics"`
	LastMention  string   `json:"last_mention,omitempty"`
	CurrentTopic string   `json:"current_topic,omitempty"`
}

// FlowEvent is one entry of the append-only conversation flow log, kept for
// diagnostics and context assembly.
type FlowEvent struct {
	Question  string    `json:"question"`
	Timestamp time.Time `json:"timestamp"`
	Entities  []string  `json:"entities,omitempty"`
}

// Session is the server-side conversational state keyed by an opaque id.
type Session struct {
	ID          string        `json:"id"`
	Messages    []ChatMessage `json:"messages"`
	Entities    EntityState   `json:"entities"`
	Flow        []FlowEvent   `json:"flow,omitempty"`
	LastUpdated time.Time     `json:"last_updated"`
}

// CachedResponse is the value stored under the response cache namespace.
type CachedResponse struct {
	Response  string            `json:"response"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ChatRequest is the body of POST /api/chatbot.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the reply of POST /api/chatbot.
type ChatResponse struct {
	Response           string       `json:"response"`
	SessionID          string       `json:"sessionId"`
	SearchMethod       SearchMethod `json:"searchMethod"`
	Cached             bool         `json:"cached"`
	ConversationLength int          `json:"conversationLength"`
	ContextUsed        []string     `json:"contextUsed,omitempty"`
	Error              bool         `json:"error,omitempty"`
	Timestamp          string       `json:"timestamp"`
}

// RateLimitedResponse is returned with HTTP 429.
type RateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}
