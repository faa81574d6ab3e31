package app

import (
	"testing"
	"time"
)

func TestProfileRoundTrip(t *testing.T) {
	store := NewProfileStore(t.TempDir())

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("Load on empty dir: ok=%v err=%v", ok, err)
	}

	p := UserProfile{
		Name:        "Asha",
		Gender:      "Female",
		DateOfBirth: "2001-07-04",
		Country:     "India",
		EmergencyContacts: []EmergencyContact{
			{Relation: "Mom", CountryCode: "+91", Phone: "9876543210"},
		},
	}
	if err := store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Name != "Asha" || got.Country != "India" {
		t.Errorf("got = %+v", got)
	}
	if len(got.EmergencyContacts) != 1 || got.EmergencyContacts[0].Number() != "+919876543210" {
		t.Errorf("contacts = %+v", got.EmergencyContacts)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Errorf("profile survived Delete")
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestProfileSaveValidation(t *testing.T) {
	store := NewProfileStore(t.TempDir())
	if err := store.Save(UserProfile{Name: "  "}); err == nil {
		t.Errorf("blank name accepted")
	}
	p := UserProfile{Name: "A", EmergencyContacts: make([]EmergencyContact, 4)}
	if err := store.Save(p); err == nil {
		t.Errorf("four contacts accepted")
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		dob  string
		want int
	}{
		{"2000-09-01", 26},
		{"2000-09-02", 25},
		{"2000-01-01", 26},
		{"", -1},
		{"not-a-date", -1},
		{"2030-01-01", -1},
	} {
		if got := (UserProfile{DateOfBirth: tc.dob}).Age(now); got != tc.want {
			t.Errorf("Age(%q) = %d, want %d", tc.dob, got, tc.want)
		}
	}
}
