package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestJournal(t *testing.T) (*journalModel, *App) {
	t.Helper()
	a := testApp(t)
	m := newJournalModel(a, NewNoColorTheme())
	m.setSize(100, 30)
	return m, a
}

// runCmd chases a command and any batch it expands to, feeding every message
// back into the model.
func runCmd(t *testing.T, m *journalModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(t, m, c)
		}
		return
	}
	if msg != nil {
		runCmd(t, m, m.update(msg))
	}
}

func reloadNow(t *testing.T, m *journalModel) {
	t.Helper()
	msg := m.reload()()
	if cmd := m.update(msg); cmd != nil {
		m.update(cmd())
	}
}

func TestJournalDeleteNeedsTwoPresses(t *testing.T) {
	m, a := newTestJournal(t)
	if _, err := a.Journal.AddEntry("", "a hard day", time.Now()); err != nil {
		t.Fatal(err)
	}
	reloadNow(t, m)
	m.focusList = true

	// First press arms only.
	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	entries, _ := a.Journal.Entries()
	if len(entries) != 1 {
		t.Fatalf("entry deleted on first press")
	}
	if m.deleteArmedID == "" {
		t.Fatalf("delete not armed")
	}

	// Second press deletes.
	if cmd := m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}); cmd != nil {
		m.update(cmd())
	}
	entries, _ = a.Journal.Entries()
	if len(entries) != 0 {
		t.Errorf("entry not deleted on second press")
	}
}

func TestJournalDeleteWindowExpires(t *testing.T) {
	m, a := newTestJournal(t)
	a.Journal.AddEntry("", "a hard day", time.Now())
	reloadNow(t, m)
	m.focusList = true

	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	gen := m.deleteGen

	// A stale expiry from an earlier arm is ignored.
	m.update(deleteExpiredMsg{gen: gen - 1})
	if m.deleteArmedID == "" {
		t.Fatalf("stale expiry disarmed the delete")
	}

	m.update(deleteExpiredMsg{gen: gen})
	if m.deleteArmedID != "" {
		t.Errorf("delete still armed after expiry")
	}

	// Pressing again after expiry re-arms instead of deleting.
	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	entries, _ := a.Journal.Entries()
	if len(entries) != 1 {
		t.Errorf("entry deleted by a press after the window closed")
	}
}

func TestJournalSaveOpensMoodPick(t *testing.T) {
	m, a := newTestJournal(t)
	m.input.SetValue("writing down my feelings tonight")

	runCmd(t, m, m.update(tea.KeyMsg{Type: tea.KeyCtrlS}))
	entries, _ := a.Journal.Entries()
	if len(entries) != 1 {
		t.Fatalf("entry not saved")
	}
	if !m.moodPick {
		t.Fatalf("mood picker not shown after save")
	}

	// Picking a mood asks for an optional note first.
	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if m.moodPick || !m.moodNote {
		t.Fatalf("note prompt not shown after picking a mood")
	}
	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("deadline week")})
	m.update(tea.KeyMsg{Type: tea.KeyEnter})

	moods, _ := a.Journal.Moods()
	if len(moods) != 1 || moods[0].Mood != app.MoodStressed {
		t.Errorf("moods = %+v", moods)
	}
	if moods[0].Note != "deadline week" {
		t.Errorf("note = %q", moods[0].Note)
	}
	if m.moodNote {
		t.Errorf("note prompt still open")
	}
}

func TestJournalMoodNoteSkip(t *testing.T) {
	m, a := newTestJournal(t)
	m.moodPick = true
	m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m.update(tea.KeyMsg{Type: tea.KeyEsc})

	moods, _ := a.Journal.Moods()
	if len(moods) != 1 || moods[0].Mood != app.MoodHappy || moods[0].Note != "" {
		t.Errorf("moods = %+v", moods)
	}
}

type countingClassifier struct {
	calls   int
	verdict string
}

func (c *countingClassifier) Complete(context.Context, string, []app.Turn, string) (string, error) {
	c.calls++
	return c.verdict, nil
}

func (c *countingClassifier) Online() bool { return true }

func TestJournalSaveRunsCrisisCheck(t *testing.T) {
	m, a := newTestJournal(t)
	model := &countingClassifier{verdict: "CRISIS"}
	a.Profile = app.UserProfile{
		Name:              "Asha",
		EmergencyContacts: []app.EmergencyContact{{Relation: "Mom", CountryCode: "+91", Phone: "9876543210"}},
	}
	a.Companion = app.NewCompanion(a.Sessions, model, a.Memory, a.Profile, a.Lang, a.Log)

	m.input.SetValue("i do not want to be here anymore")
	runCmd(t, m, m.update(tea.KeyMsg{Type: tea.KeyCtrlS}))

	if model.calls != 1 {
		t.Fatalf("classifier calls = %d, want 1", model.calls)
	}
	if !m.crisis {
		t.Fatalf("crisis panel not shown")
	}
	view := m.view()
	if !strings.Contains(view, "1800-599-0019") || !strings.Contains(view, "+919876543210") {
		t.Errorf("crisis view missing support numbers")
	}

	m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.crisis {
		t.Errorf("esc did not close the crisis panel")
	}
	if !m.moodPick {
		t.Errorf("mood picker lost behind the crisis panel")
	}
}

func TestJournalSafeSaveShowsNoCrisis(t *testing.T) {
	m, a := newTestJournal(t)
	model := &countingClassifier{verdict: "SAFE"}
	a.Profile = app.UserProfile{
		Name:              "Asha",
		EmergencyContacts: []app.EmergencyContact{{Relation: "Mom", Phone: "1"}},
	}
	a.Companion = app.NewCompanion(a.Sessions, model, a.Memory, a.Profile, a.Lang, a.Log)

	m.input.SetValue("a calm ordinary evening")
	runCmd(t, m, m.update(tea.KeyMsg{Type: tea.KeyCtrlS}))

	if model.calls != 1 {
		t.Fatalf("classifier calls = %d, want 1", model.calls)
	}
	if m.crisis {
		t.Errorf("safe entry opened the crisis panel")
	}
}

func TestJournalMoodPickSkip(t *testing.T) {
	m, a := newTestJournal(t)
	m.moodPick = true
	m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.moodPick {
		t.Errorf("esc did not close the mood picker")
	}
	moods, _ := a.Journal.Moods()
	if len(moods) != 0 {
		t.Errorf("skip logged a mood")
	}
}
