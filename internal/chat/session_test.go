package chat

import (
	"context"
	"fmt"
	"testing"
)

func TestEnsureGeneratesID(t *testing.T) {
	mgr := NewSessionManager(newFakeStore(), testChatConfig())

	sess, resumed := mgr.Ensure(context.Background(), "")
	if sess.ID == "" {
		t.Fatalf("expected a generated session id")
	}
	if resumed {
		t.Fatalf("fresh session must not report resumed")
	}
}

func TestEnsureLenientResume(t *testing.T) {
	store := newFakeStore()
	mgr := NewSessionManager(store, testChatConfig())

	// Unknown id: recreated silently under the same id.
	sess, resumed := mgr.Ensure(context.Background(), "ghost-id")
	if resumed {
		t.Fatalf("unknown id must not report resumed")
	}
	if sess.ID != "ghost-id" {
		t.Fatalf("recreated session must keep the supplied id, got %q", sess.ID)
	}

	// Persisted id: a true resume.
	mgr.AppendTurn(sess, "user", "hello", false)
	mgr.Persist(context.Background(), sess)
	again, resumed := mgr.Ensure(context.Background(), "ghost-id")
	if !resumed {
		t.Fatalf("persisted session should resume")
	}
	if len(again.Messages) != 1 || again.Messages[0].Content != "hello" {
		t.Fatalf("resumed session lost history: %+v", again.Messages)
	}
}

func TestEnsureCorruptEntryStartsFresh(t *testing.T) {
	store := newFakeStore()
	store.data[sessionKeyPrefix+"bad"] = "{not json"
	mgr := NewSessionManager(store, testChatConfig())

	sess, resumed := mgr.Ensure(context.Background(), "bad")
	if resumed {
		t.Fatalf("corrupt entry must not resume")
	}
	if sess.ID != "bad" || len(sess.Messages) != 0 {
		t.Fatalf("expected a fresh session under the same id, got %+v", sess)
	}
}

func TestAppendTurnTrimsOldest(t *testing.T) {
	cfg := testChatConfig()
	mgr := NewSessionManager(newFakeStore(), cfg)
	sess := mgr.Create("")

	// One message past the cap.
	for i := 0; i < cfg.MaxMessages+1; i++ {
		mgr.AppendTurn(sess, "user", fmt.Sprintf("msg %d", i), false)
	}

	if len(sess.Messages) != cfg.MaxMessages {
		t.Fatalf("expected %d messages after trim, got %d", cfg.MaxMessages, len(sess.Messages))
	}
	if sess.Messages[0].Content != "msg 1" {
		t.Fatalf("oldest message should be dropped first, window starts at %q", sess.Messages[0].Content)
	}
	if last := sess.Messages[len(sess.Messages)-1].Content; last != fmt.Sprintf("msg %d", cfg.MaxMessages) {
		t.Fatalf("newest message must survive, got %q", last)
	}
}

func TestPersistSurvivesStoreOutage(t *testing.T) {
	store := newFakeStore()
	store.down = true
	mgr := NewSessionManager(store, testChatConfig())

	sess := mgr.Create("s1")
	mgr.AppendTurn(sess, "user", "hi", false)
	mgr.Persist(context.Background(), sess) // must not panic or error

	if loaded := mgr.Load(context.Background(), "s1"); loaded != nil {
		t.Fatalf("store is down, load should miss")
	}
}
