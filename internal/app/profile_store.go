package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EmergencyContact is one trusted person reachable from the crisis modal.
type EmergencyContact struct {
	Relation    string `json:"relation"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

func (c EmergencyContact) Number() string {
	return strings.TrimSpace(c.CountryCode) + strings.TrimSpace(c.Phone)
}

type UserProfile struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Country     string `json:"country"`

	// Up to three contacts. Zero contacts disables crisis detection.
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
}

const MaxEmergencyContacts = 3

// Age derives whole years from DateOfBirth, or -1 when unset or malformed.
func (p UserProfile) Age(now time.Time) int {
	dob, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return -1
	}
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}

// ProfileStore persists the single user profile at <root>/profile.json.
type ProfileStore struct {
	Root string
}

func NewProfileStore(root string) *ProfileStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &ProfileStore{Root: root}
}

func (s *ProfileStore) path() string {
	return filepath.Join(s.Root, "profile.json")
}

// Load returns the saved profile, or ok=false when onboarding has not
// completed yet.
func (s *ProfileStore) Load() (UserProfile, bool, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UserProfile{}, false, nil
		}
		return UserProfile{}, false, err
	}
	var p UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return UserProfile{}, false, nil
	}
	if strings.TrimSpace(p.Name) == "" {
		return UserProfile{}, false, nil
	}
	if len(p.EmergencyContacts) > MaxEmergencyContacts {
		p.EmergencyContacts = p.EmergencyContacts[:MaxEmergencyContacts]
	}
	return p, true, nil
}

func (s *ProfileStore) Save(p UserProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if len(p.EmergencyContacts) > MaxEmergencyContacts {
		return errors.New("at most three emergency contacts")
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o644)
}

func (s *ProfileStore) Delete() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
