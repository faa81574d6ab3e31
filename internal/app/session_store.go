package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists the complete session list as a snapshot on every
// mutation. There is no delta persistence and no concurrency control; the
// app is single-user and last writer wins.
type SessionStore interface {
	LoadSessions() ([]ChatSession, error)
	SaveSessions([]ChatSession) error
	ActiveSessionID() (int64, error)
	SetActiveSessionID(id int64) error
	// SaveTitle updates one session's title in place. Unknown ids return
	// ErrSessionNotFound so a stale async completion cannot resurrect a
	// deleted session.
	SaveTitle(id int64, title string) error
	Close() error
}

// JSONSessionStore is the primary backend.
//
// Layout:
//
//	<root>/sessions.json
//	<root>/active
type JSONSessionStore struct {
	Root string
}

func NewJSONSessionStore(root string) *JSONSessionStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &JSONSessionStore{Root: root}
}

func (s *JSONSessionStore) sessionsPath() string {
	return filepath.Join(s.Root, "sessions.json")
}

func (s *JSONSessionStore) activePath() string {
	return filepath.Join(s.Root, "active")
}

func (s *JSONSessionStore) LoadSessions() ([]ChatSession, error) {
	b, err := os.ReadFile(s.sessionsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []ChatSession{}, nil
		}
		return nil, err
	}
	var sessions []ChatSession
	if err := json.Unmarshal(b, &sessions); err != nil {
		// Malformed data degrades to an empty list rather than failing boot.
		return []ChatSession{}, nil
	}
	return sessions, nil
}

func (s *JSONSessionStore) SaveSessions(sessions []ChatSession) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	if sessions == nil {
		sessions = []ChatSession{}
	}
	b, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.sessionsPath(), b, 0o644)
}

func (s *JSONSessionStore) ActiveSessionID() (int64, error) {
	b, err := os.ReadFile(s.activePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

func (s *JSONSessionStore) SetActiveSessionID(id int64) error {
	if id <= 0 {
		return errors.New("missing session id")
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.activePath(), []byte(fmt.Sprintf("%d", id)), 0o644)
}

func (s *JSONSessionStore) SaveTitle(id int64, title string) error {
	sessions, err := s.LoadSessions()
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sessions[i].Title = strings.TrimSpace(title)
			return s.SaveSessions(sessions)
		}
	}
	return ErrSessionNotFound
}

func (s *JSONSessionStore) Close() error { return nil }

// EnsureSession returns the active session, creating a default session with
// the localized greeting when the store is empty. It is the first-boot path.
func EnsureSession(store SessionStore, lang Lang, now time.Time) (ChatSession, []ChatSession, error) {
	sessions, err := store.LoadSessions()
	if err != nil {
		return ChatSession{}, nil, err
	}
	if len(sessions) == 0 {
		sess := freshSession(lang, now)
		sessions = append(sessions, sess)
		if err := store.SaveSessions(sessions); err != nil {
			return ChatSession{}, nil, err
		}
		if err := store.SetActiveSessionID(sess.ID); err != nil {
			return ChatSession{}, nil, err
		}
		return sess, sessions, nil
	}

	activeID, err := store.ActiveSessionID()
	if err != nil {
		return ChatSession{}, nil, err
	}
	for _, sess := range sessions {
		if sess.ID == activeID {
			return sess, sessions, nil
		}
	}
	// Dangling or missing pointer: fall back to the most recent session.
	last := sessions[len(sessions)-1]
	if err := store.SetActiveSessionID(last.ID); err != nil {
		return ChatSession{}, nil, err
	}
	return last, sessions, nil
}

// NewSession appends a fresh session and makes it active.
func NewSession(store SessionStore, lang Lang, now time.Time) (ChatSession, error) {
	sessions, err := store.LoadSessions()
	if err != nil {
		return ChatSession{}, err
	}
	sess := freshSession(lang, now)
	sessions = append(sessions, sess)
	if err := store.SaveSessions(sessions); err != nil {
		return ChatSession{}, err
	}
	if err := store.SetActiveSessionID(sess.ID); err != nil {
		return ChatSession{}, err
	}
	return sess, nil
}

// DeleteSession removes one session. Deleting the active session falls back
// to the most recent remaining session, or creates a fresh one if none
// remain. Returns the session that is active afterwards.
func DeleteSession(store SessionStore, id int64, lang Lang, now time.Time) (ChatSession, error) {
	sessions, err := store.LoadSessions()
	if err != nil {
		return ChatSession{}, err
	}
	kept := sessions[:0]
	found := false
	for _, sess := range sessions {
		if sess.ID == id {
			found = true
			continue
		}
		kept = append(kept, sess)
	}
	if !found {
		return ChatSession{}, ErrSessionNotFound
	}
	if len(kept) == 0 {
		fresh := freshSession(lang, now)
		kept = append(kept, fresh)
	}
	if err := store.SaveSessions(kept); err != nil {
		return ChatSession{}, err
	}

	activeID, _ := store.ActiveSessionID()
	if activeID == id || activeID == 0 {
		next := kept[len(kept)-1]
		if err := store.SetActiveSessionID(next.ID); err != nil {
			return ChatSession{}, err
		}
		return next, nil
	}
	for _, sess := range kept {
		if sess.ID == activeID {
			return sess, nil
		}
	}
	return kept[len(kept)-1], nil
}

// ClearHistory discards every session and creates one fresh default. The
// confirmation gate lives in the UI, not here.
func ClearHistory(store SessionStore, lang Lang, now time.Time) (ChatSession, error) {
	sess := freshSession(lang, now)
	if err := store.SaveSessions([]ChatSession{sess}); err != nil {
		return ChatSession{}, err
	}
	if err := store.SetActiveSessionID(sess.ID); err != nil {
		return ChatSession{}, err
	}
	return sess, nil
}

// UpdateSession replaces one session's messages and bumps its date, then
// snapshots the whole list. Called once per appended message.
func UpdateSession(store SessionStore, sess ChatSession) error {
	sessions, err := store.LoadSessions()
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			sessions[i] = sess
			return store.SaveSessions(sessions)
		}
	}
	return ErrSessionNotFound
}

func freshSession(lang Lang, now time.Time) ChatSession {
	return ChatSession{
		ID:       now.UnixNano(),
		Title:    DefaultTitle,
		Date:     now,
		Messages: []ChatMessage{Greeting(lang, now)},
	}
}
