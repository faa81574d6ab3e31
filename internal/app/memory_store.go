package app

import (
	"path/filepath"
	"strings"
	"time"
)

// MemoryFact is one thing the user asked the companion to remember via the
// /remember command. Facts are folded into the system instruction.
type MemoryFact struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// MemoryStore persists remembered facts at <root>/memory.json.
type MemoryStore struct {
	Root string
}

func NewMemoryStore(root string) *MemoryStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &MemoryStore{Root: root}
}

func (s *MemoryStore) path() string {
	return filepath.Join(s.Root, "memory.json")
}

func (s *MemoryStore) List() ([]MemoryFact, error) {
	var facts []MemoryFact
	if err := readSnapshot(s.path(), &facts); err != nil {
		return nil, err
	}
	if facts == nil {
		facts = []MemoryFact{}
	}
	return facts, nil
}

func (s *MemoryStore) Add(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	facts, err := s.List()
	if err != nil {
		return err
	}
	for _, f := range facts {
		if f.Text == text {
			return nil
		}
	}
	facts = append(facts, MemoryFact{Text: text, Date: now})
	return writeSnapshot(s.Root, s.path(), facts)
}

func (s *MemoryStore) Clear() error {
	return writeSnapshot(s.Root, s.path(), []MemoryFact{})
}
