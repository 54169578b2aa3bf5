package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/cache"
	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

const sessionKeyPrefix = "session:"

// SessionManager owns per-session message history, entity state, the
// truncation policy, and persistence through the store adapter. Sessions die
// only by store TTL expiry; there is no delete path.
type SessionManager struct {
	store       cache.Store
	ttl         time.Duration
	maxMessages int
	logger      *log.Logger
}

func NewSessionManager(store cache.Store, cfg config.ChatConfig) *SessionManager {
	return &SessionManager{
		store:       store,
		ttl:         cfg.SessionTTL,
		maxMessages: cfg.MaxMessages,
		logger:      log.New(log.Writer(), "[SESSION] ", log.LstdFlags),
	}
}

// Load fetches a session by id. A miss, a disconnected store, and a corrupt
// entry all return nil: session state is advisory and never blocks a request.
func (m *SessionManager) Load(ctx context.Context, id string) *models.Session {
	raw, ok := m.store.Get(ctx, sessionKeyPrefix+id)
	if !ok {
		return nil
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		m.logger.Printf("corrupt session %s, starting fresh: %v", id, err)
		return nil
	}
	return &sess
}

// Create returns a fresh session scaffold. An empty id gets a generated one.
func (m *SessionManager) Create(id string) *models.Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &models.Session{
		ID:          id,
		Messages:    []models.ChatMessage{},
		Entities:    models.EntityState{Projects: []string{}, Topics: []string{}},
		LastUpdated: time.Now(),
	}
}

// Ensure implements lenient session resume: a supplied id that does not
// resolve in the store gets a new session under that same id, silently. The
// second return value distinguishes a true resume from a re-creation.
func (m *SessionManager) Ensure(ctx context.Context, id string) (*models.Session, bool) {
	if id == "" {
		return m.Create(""), false
	}
	if sess := m.Load(ctx, id); sess != nil {
		return sess, true
	}
	return m.Create(id), false
}

// AppendTurn pushes a message and trims history to the cap, dropping the
// oldest messages first so the retained window is always the most recent.
func (m *SessionManager) AppendTurn(sess *models.Session, role, text string, cached bool) {
	sess.Messages = append(sess.Messages, models.ChatMessage{
		Role:      role,
		Content:   text,
		Timestamp: time.Now(),
		Cached:    cached,
	})
	if len(sess.Messages) > m.maxMessages {
		sess.Messages = sess.Messages[len(sess.Messages)-m.maxMessages:]
	}
}

// Persist write-throughs the session with a refreshed TTL. There is no
// cross-request locking on the session key: two concurrent requests for the
// same session race on read-modify-write and the last writer wins. Accepted
// weak-consistency tradeoff for a low-traffic conversational UI.
func (m *SessionManager) Persist(ctx context.Context, sess *models.Session) {
	sess.LastUpdated = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		m.logger.Printf("marshal session %s: %v", sess.ID, err)
		return
	}
	m.store.SetWithTTL(ctx, sessionKeyPrefix+sess.ID, string(data), m.ttl)
}
