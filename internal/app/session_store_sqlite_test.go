package app

import (
	"errors"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteSessionStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteSessionStore: %v", err)
	}
	defer store.Close()

	now := time.Now()
	sess, _, err := EnsureSession(store, LangEnglish, now)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}

	sess.Messages = append(sess.Messages,
		ChatMessage{ID: NewMessageID(now.Add(time.Second)), Text: "first", Sender: SenderUser},
		ChatMessage{ID: NewMessageID(now.Add(2 * time.Second)), Text: "second", Sender: SenderAI},
	)
	if err := UpdateSession(store, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	all, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1", len(all))
	}
	got := all[0]
	if len(got.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(got.Messages))
	}
	if got.Messages[1].Text != "first" || got.Messages[2].Text != "second" {
		t.Errorf("message order not preserved: %q, %q", got.Messages[1].Text, got.Messages[2].Text)
	}

	if err := store.SaveTitle(sess.ID, "A Hard Day"); err != nil {
		t.Fatalf("SaveTitle: %v", err)
	}
	all, _ = store.LoadSessions()
	if all[0].Title != "A Hard Day" {
		t.Errorf("Title = %q, want %q", all[0].Title, "A Hard Day")
	}

	if err := store.SaveTitle(999, "x"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SaveTitle unknown id: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSQLiteImportsJSONLayout(t *testing.T) {
	dir := t.TempDir()
	legacy := NewJSONSessionStore(dir)
	now := time.Now()
	sess, _, err := EnsureSession(legacy, LangEnglish, now)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}

	store, err := NewSQLiteSessionStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteSessionStore: %v", err)
	}
	defer store.Close()

	all, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(all) != 1 || all[0].ID != sess.ID {
		t.Fatalf("import missed legacy session: %+v", all)
	}
	active, err := store.ActiveSessionID()
	if err != nil {
		t.Fatalf("ActiveSessionID: %v", err)
	}
	if active != sess.ID {
		t.Errorf("active = %d, want %d", active, sess.ID)
	}
}
