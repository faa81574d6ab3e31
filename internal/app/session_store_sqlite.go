package app

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore is the alternative backend selected by `storage: sqlite`.
// It keeps the same snapshot contract as the JSON store: SaveSessions
// rewrites the full list inside one transaction.
type SQLiteSessionStore struct {
	Root   string
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error

	// Used only for one-time import of the JSON layout.
	legacy *JSONSessionStore
}

func NewSQLiteSessionStore(root string) (*SQLiteSessionStore, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	st := &SQLiteSessionStore{
		Root:   root,
		dbPath: filepath.Join(root, "mitra.db"),
		legacy: NewJSONSessionStore(root),
	}
	// Initialize eagerly so callers fail fast.
	if err := st.init(); err != nil {
		return nil, err
	}
	// One-time best-effort import.
	_ = st.importLegacyIfNeeded()
	return st, nil
}

func (s *SQLiteSessionStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

		schema := []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				date_ns INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS messages (
				session_id INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				id INTEGER NOT NULL,
				sender TEXT NOT NULL,
				text TEXT NOT NULL,
				PRIMARY KEY (session_id, seq)
			);`,
			`CREATE TABLE IF NOT EXISTS active_session (
				slot INTEGER PRIMARY KEY CHECK (slot = 1),
				session_id INTEGER NOT NULL
			);`,
		}
		for _, stmt := range schema {
			if _, err := db.Exec(stmt); err != nil {
				s.err = err
				_ = db.Close()
				return
			}
		}
		s.db = db
	})
	return s.err
}

func (s *SQLiteSessionStore) importLegacyIfNeeded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(s.Root, "sessions.json")); err != nil {
		return nil
	}
	sessions, err := s.legacy.LoadSessions()
	if err != nil || len(sessions) == 0 {
		return err
	}
	if err := s.saveLocked(sessions); err != nil {
		return err
	}
	if id, err := s.legacy.ActiveSessionID(); err == nil && id > 0 {
		_, err = s.db.Exec(`INSERT OR REPLACE INTO active_session(slot, session_id) VALUES (1, ?)`, id)
		return err
	}
	return nil
}

func (s *SQLiteSessionStore) LoadSessions() ([]ChatSession, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, title, date_ns FROM sessions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []ChatSession{}
	for rows.Next() {
		var sess ChatSession
		var dateNS int64
		if err := rows.Scan(&sess.ID, &sess.Title, &dateNS); err != nil {
			return nil, err
		}
		sess.Date = time.Unix(0, dateNS)
		sess.Messages = []ChatMessage{}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		mrows, err := s.db.Query(`SELECT id, sender, text FROM messages WHERE session_id = ? ORDER BY seq`, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		for mrows.Next() {
			var m ChatMessage
			if err := mrows.Scan(&m.ID, &m.Sender, &m.Text); err != nil {
				mrows.Close()
				return nil, err
			}
			sessions[i].Messages = append(sessions[i].Messages, m)
		}
		if err := mrows.Err(); err != nil {
			mrows.Close()
			return nil, err
		}
		mrows.Close()
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) SaveSessions(sessions []ChatSession) error {
	if err := s.init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(sessions)
}

func (s *SQLiteSessionStore) saveLocked(sessions []ChatSession) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return err
	}
	for _, sess := range sessions {
		if _, err := tx.Exec(`INSERT INTO sessions(id, title, date_ns) VALUES (?, ?, ?)`,
			sess.ID, sess.Title, sess.Date.UnixNano()); err != nil {
			return err
		}
		for seq, m := range sess.Messages {
			if _, err := tx.Exec(`INSERT INTO messages(session_id, seq, id, sender, text) VALUES (?, ?, ?, ?, ?)`,
				sess.ID, seq, m.ID, string(m.Sender), m.Text); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLiteSessionStore) ActiveSessionID() (int64, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var id int64
	err := s.db.QueryRow(`SELECT session_id FROM active_session WHERE slot = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (s *SQLiteSessionStore) SetActiveSessionID(id int64) error {
	if err := s.init(); err != nil {
		return err
	}
	if id <= 0 {
		return errors.New("missing session id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO active_session(slot, session_id) VALUES (1, ?)`, id)
	return err
}

func (s *SQLiteSessionStore) SaveTitle(id int64, title string) error {
	if err := s.init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`UPDATE sessions SET title = ? WHERE id = ?`, strings.TrimSpace(title), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// OpenSessionStore picks the backend from config.
func OpenSessionStore(cfg Config) (SessionStore, error) {
	if cfg.Storage == "sqlite" {
		return NewSQLiteSessionStore(cfg.Root())
	}
	return NewJSONSessionStore(cfg.Root()), nil
}
