package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mitra/internal/app"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// deleteWindow is how long a first delete press stays armed before it
// quietly disarms.
const deleteWindow = 4 * time.Second

type journalModel struct {
	app   *App
	theme Theme

	input     textarea.Model
	entries   []app.JournalEntry
	focusList bool
	sel       int

	moodPick   bool
	moodNote   bool
	chosenMood app.Mood
	noteInput  textinput.Model
	notice     string

	crisis    bool
	helplines []app.Helpline

	deleteArmedID string
	deleteGen     int

	width  int
	height int
}

type journalReloadedMsg struct {
	entries []app.JournalEntry
	err     error
}

type deleteExpiredMsg struct {
	gen int
}

type journalCrisisMsg struct {
	crisis bool
}

func newJournalModel(a *App, theme Theme) *journalModel {
	ta := textarea.New()
	ta.Placeholder = app.T(a.Lang, "journalPlaceholder")
	ta.CharLimit = 8000
	ta.SetHeight(6)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	note := textinput.New()
	note.Placeholder = app.T(a.Lang, "addANote")
	note.CharLimit = 200
	return &journalModel{app: a, theme: theme, input: ta, noteInput: note}
}

func (m *journalModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 6)
}

func (m *journalModel) reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.app.Journal.Entries()
		return journalReloadedMsg{entries: entries, err: err}
	}
}

func (m *journalModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case journalReloadedMsg:
		if msg.err != nil {
			m.notice = "Could not load journal: " + msg.err.Error()
			return nil
		}
		m.entries = msg.entries
		if m.sel >= len(m.entries) {
			m.sel = 0
		}
		return nil

	case deleteExpiredMsg:
		if msg.gen == m.deleteGen {
			m.deleteArmedID = ""
			m.notice = ""
		}
		return nil

	case journalCrisisMsg:
		if msg.crisis {
			m.crisis = true
			m.helplines = app.DefaultHelplines(m.app.Lang)
		}
		return nil

	case tea.KeyMsg:
		if m.crisis {
			if msg.String() == "esc" || msg.String() == "enter" {
				m.crisis = false
			}
			return nil
		}
		if m.moodPick {
			return m.handleMoodKey(msg)
		}
		if m.moodNote {
			return m.handleNoteKey(msg)
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *journalModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return navigate(ScreenWelcome)
	case "tab":
		m.focusList = !m.focusList
		if m.focusList {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return nil
	case "ctrl+t":
		return navigate(ScreenTrends)
	case "ctrl+s":
		return m.save()
	}

	if m.focusList {
		switch msg.String() {
		case "up", "k":
			if m.sel > 0 {
				m.sel--
			}
		case "down", "j":
			if m.sel < len(m.entries)-1 {
				m.sel++
			}
		case "d", "backspace":
			return m.deletePress()
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *journalModel) save() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if _, err := m.app.Journal.AddEntry("", text, time.Now()); err != nil {
		m.notice = "Could not save: " + err.Error()
		return nil
	}
	m.input.Reset()
	m.notice = app.T(m.app.Lang, "journalSaved")
	m.moodPick = true
	return tea.Batch(m.reload(), m.crisisCheckCmd(text))
}

// crisisCheckCmd classifies a saved entry in the background; the detector
// itself skips the round trip without contacts or connectivity.
func (m *journalModel) crisisCheckCmd(text string) tea.Cmd {
	companion := m.app.Companion
	if companion == nil {
		return nil
	}
	log := m.app.Log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		crisis, err := companion.Crisis.Check(ctx, text)
		if err != nil {
			log.Warn("journal crisis check failed", map[string]interface{}{"error": err.Error()})
			return journalCrisisMsg{}
		}
		return journalCrisisMsg{crisis: crisis}
	}
}

// deletePress implements the two-press delete: the first press arms, a
// second press on the same entry inside the window deletes.
func (m *journalModel) deletePress() tea.Cmd {
	if m.sel >= len(m.entries) {
		return nil
	}
	id := m.entries[m.sel].ID
	if m.deleteArmedID == id {
		m.deleteArmedID = ""
		m.notice = ""
		if err := m.app.Journal.DeleteEntry(id); err != nil {
			m.notice = "Could not delete: " + err.Error()
			return nil
		}
		return m.reload()
	}
	m.deleteArmedID = id
	m.deleteGen++
	m.notice = app.T(m.app.Lang, "confirmDelete")
	gen := m.deleteGen
	return tickEvery(deleteWindow, func(time.Time) tea.Msg { return deleteExpiredMsg{gen: gen} })
}

func (m *journalModel) handleMoodKey(msg tea.KeyMsg) tea.Cmd {
	var mood app.Mood
	switch msg.String() {
	case "1":
		mood = app.MoodHappy
	case "2":
		mood = app.MoodNeutral
	case "3":
		mood = app.MoodStressed
	case "4":
		mood = app.MoodSad
	case "esc":
		m.moodPick = false
		return nil
	default:
		return nil
	}
	m.moodPick = false
	m.moodNote = true
	m.chosenMood = mood
	m.noteInput.Reset()
	m.noteInput.Focus()
	return textinput.Blink
}

func (m *journalModel) handleNoteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.logMood(m.noteInput.Value())
	case "esc":
		return m.logMood("")
	}
	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return cmd
}

func (m *journalModel) logMood(note string) tea.Cmd {
	m.moodNote = false
	if _, err := m.app.Journal.AddMood(m.chosenMood, note, time.Now()); err != nil {
		m.notice = "Could not log mood: " + err.Error()
	}
	return nil
}

func (m *journalModel) view() string {
	if m.crisis {
		return crisisPanel(m.app, m.theme, m.helplines, m.width, m.height)
	}
	if m.moodPick {
		return m.moodView()
	}
	if m.moodNote {
		return m.noteView()
	}

	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render(app.T(m.app.Lang, "yourSafeSpace")))
	b.WriteString("\n")

	inputBox := m.theme.InputBox
	if !m.focusList {
		inputBox = m.theme.InputBoxF
	}
	b.WriteString(inputBox.Width(m.width - 4).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("ctrl+s " + app.T(m.app.Lang, "saveReflection")))
	b.WriteString("\n\n")

	if len(m.entries) > 0 {
		b.WriteString(m.theme.PaneTitle.Render("Past reflections"))
		b.WriteString("\n")
		for i, e := range m.entries {
			cursor := "  "
			if m.focusList && i == m.sel {
				cursor = "> "
			}
			preview := e.Text
			if len(preview) > 60 {
				preview = preview[:60] + "…"
			}
			preview = strings.ReplaceAll(preview, "\n", " ")
			line := fmt.Sprintf("%s%s — %s", cursor, e.Date.Format("Jan 2"), preview)
			if m.deleteArmedID == e.ID {
				line += "  " + m.theme.Danger.Render("("+app.T(m.app.Lang, "confirmDelete")+")")
			}
			if m.focusList && i == m.sel {
				b.WriteString(m.theme.BubbleUser.Render(line))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + m.theme.Calm.Render(m.notice) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("tab switch focus  |  d delete  |  ctrl+t trends  |  esc home"))
	return b.String()
}

func (m *journalModel) moodView() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render(app.T(m.app.Lang, "howAreYouFeeling")))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  1 %s %s\n", app.MoodHappy.Emoji(), app.T(m.app.Lang, "happy")))
	b.WriteString(fmt.Sprintf("  2 %s %s\n", app.MoodNeutral.Emoji(), app.T(m.app.Lang, "neutral")))
	b.WriteString(fmt.Sprintf("  3 %s %s\n", app.MoodStressed.Emoji(), app.T(m.app.Lang, "stressed")))
	b.WriteString(fmt.Sprintf("  4 %s %s\n", app.MoodSad.Emoji(), app.T(m.app.Lang, "sad")))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("esc skip"))
	return centered(m.width, m.height, m.theme.Modal.Render(b.String()))
}

func (m *journalModel) noteView() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render(m.chosenMood.Emoji() + " " + app.T(m.app.Lang, string(m.chosenMood))))
	b.WriteString("\n\n  ")
	b.WriteString(m.noteInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("enter save  |  esc skip note"))
	return centered(m.width, m.height, m.theme.Modal.Render(b.String()))
}
