package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
	Date  time.Time `json:"date"`
}

// Mood is the four-state check-in offered after saving a journal entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
	MoodSad      Mood = "sad"
)

// Score maps moods onto an ordinal scale for the trends graph.
func (m Mood) Score() int {
	switch m {
	case MoodHappy:
		return 4
	case MoodNeutral:
		return 3
	case MoodStressed:
		return 2
	case MoodSad:
		return 1
	}
	return 0
}

func (m Mood) Valid() bool {
	return m.Score() > 0
}

func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodNeutral:
		return "😐"
	case MoodStressed:
		return "😰"
	case MoodSad:
		return "😢"
	}
	return " "
}

type MoodEntry struct {
	ID   string    `json:"id"`
	Mood Mood      `json:"mood"`
	Note string    `json:"note,omitempty"`
	Date time.Time `json:"date"`
}

// JournalStore persists journal entries and mood check-ins as snapshot
// lists, newest first, at <root>/journal.json and <root>/moods.json.
type JournalStore struct {
	Root string
}

func NewJournalStore(root string) *JournalStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &JournalStore{Root: root}
}

func (s *JournalStore) journalPath() string {
	return filepath.Join(s.Root, "journal.json")
}

func (s *JournalStore) moodsPath() string {
	return filepath.Join(s.Root, "moods.json")
}

func (s *JournalStore) Entries() ([]JournalEntry, error) {
	var entries []JournalEntry
	if err := readSnapshot(s.journalPath(), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []JournalEntry{}
	}
	return entries, nil
}

// AddEntry prepends a new entry and returns it. Blank text is rejected.
func (s *JournalStore) AddEntry(title, text string, now time.Time) (JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return JournalEntry{}, errors.New("journal entry is empty")
	}
	entries, err := s.Entries()
	if err != nil {
		return JournalEntry{}, err
	}
	entry := JournalEntry{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(title),
		Text:  text,
		Date:  now,
	}
	if entry.Title == "" {
		entry.Title = now.Format("Jan 2, 2006")
	}
	entries = append([]JournalEntry{entry}, entries...)
	if err := writeSnapshot(s.Root, s.journalPath(), entries); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (s *JournalStore) DeleteEntry(id string) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return errors.New("journal entry not found")
	}
	return writeSnapshot(s.Root, s.journalPath(), kept)
}

func (s *JournalStore) Moods() ([]MoodEntry, error) {
	var moods []MoodEntry
	if err := readSnapshot(s.moodsPath(), &moods); err != nil {
		return nil, err
	}
	if moods == nil {
		moods = []MoodEntry{}
	}
	return moods, nil
}

// AddMood prepends a check-in. The note is optional.
func (s *JournalStore) AddMood(mood Mood, note string, now time.Time) (MoodEntry, error) {
	if !mood.Valid() {
		return MoodEntry{}, errors.New("unknown mood")
	}
	moods, err := s.Moods()
	if err != nil {
		return MoodEntry{}, err
	}
	entry := MoodEntry{ID: uuid.NewString(), Mood: mood, Note: strings.TrimSpace(note), Date: now}
	moods = append([]MoodEntry{entry}, moods...)
	if err := writeSnapshot(s.Root, s.moodsPath(), moods); err != nil {
		return MoodEntry{}, err
	}
	return entry, nil
}

// MoodsInMonth filters to one calendar month, keyed by day of month. When a
// day holds several check-ins the most recent wins.
func MoodsInMonth(moods []MoodEntry, year int, month time.Month) map[int]MoodEntry {
	byDay := map[int]MoodEntry{}
	for _, m := range moods {
		if m.Date.Year() != year || m.Date.Month() != month {
			continue
		}
		day := m.Date.Day()
		if prev, ok := byDay[day]; ok && !m.Date.After(prev.Date) {
			continue
		}
		byDay[day] = m
	}
	return byDay
}

// MoodsSince returns check-ins newer than the cutoff in chronological order.
func MoodsSince(moods []MoodEntry, cutoff time.Time) []MoodEntry {
	out := []MoodEntry{}
	for i := len(moods) - 1; i >= 0; i-- {
		if moods[i].Date.After(cutoff) {
			out = append(out, moods[i])
		}
	}
	return out
}

func readSnapshot(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		// Malformed data degrades to empty rather than failing boot.
		return nil
	}
	return nil
}

func writeSnapshot(root, path string, v interface{}) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
