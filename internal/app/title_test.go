package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

type titleModel struct {
	reply string
	err   error
	calls int
}

func (m *titleModel) Complete(context.Context, string, []Turn, string) (string, error) {
	m.calls++
	return m.reply, m.err
}

func titleSession(t *testing.T, store SessionStore, texts ...string) ChatSession {
	t.Helper()
	now := time.Now()
	sess, _, err := EnsureSession(store, LangEnglish, now)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	for i, text := range texts {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderAI
		}
		sess.Messages = append(sess.Messages, ChatMessage{ID: NewMessageID(now.Add(time.Duration(i+1) * time.Second)), Text: text, Sender: sender})
	}
	if err := UpdateSession(store, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	return sess
}

func TestGenerateShortTranscript(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	sess := titleSession(t, store, "hi", "hello")
	model := &titleModel{reply: "Should Not Be Used"}
	g := NewTitleGenerator(store, model)

	title, err := g.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != ShortChatTitle {
		t.Errorf("title = %q, want %q", title, ShortChatTitle)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for a short transcript", model.calls)
	}
}

func TestGenerateModelFailureFallsBack(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	sess := titleSession(t, store, "today was genuinely exhausting", "that sounds really heavy, tell me more")
	g := NewTitleGenerator(store, &titleModel{err: errors.New("down")})

	title, err := g.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != FallbackTitle {
		t.Errorf("title = %q, want %q", title, FallbackTitle)
	}
	all, _ := store.LoadSessions()
	if all[0].Title != FallbackTitle {
		t.Errorf("persisted title = %q", all[0].Title)
	}
}

func TestGenerateSanitizesReply(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	sess := titleSession(t, store, "today was genuinely exhausting", "that sounds really heavy, tell me more")
	g := NewTitleGenerator(store, &titleModel{reply: "\"A Long Day\"\nextra line"})

	title, err := g.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != "A Long Day" {
		t.Errorf("title = %q, want %q", title, "A Long Day")
	}
}

func TestGenerateForDeletedSessionIsDropped(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	sess := titleSession(t, store, "today was genuinely exhausting", "that sounds really heavy, tell me more")
	if _, err := DeleteSession(store, sess.ID, LangEnglish, time.Now()); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	g := NewTitleGenerator(store, &titleModel{reply: "Ghost Title"})

	title, err := g.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != "" {
		t.Errorf("title = %q, want empty for a deleted session", title)
	}
	all, _ := store.LoadSessions()
	for _, s := range all {
		if s.Title == "Ghost Title" {
			t.Errorf("stale title landed on session %d", s.ID)
		}
	}
}

func TestGenerateInFlightDrops(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	sess := titleSession(t, store, "today was genuinely exhausting", "that sounds really heavy, tell me more")
	g := NewTitleGenerator(store, &titleModel{reply: "x"})
	g.inFlight = true

	title, err := g.Generate(context.Background(), sess)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if title != "" {
		t.Errorf("title = %q, want empty while in flight", title)
	}
}
