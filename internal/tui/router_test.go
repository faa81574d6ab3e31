package tui

import (
	"testing"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

func testApp(t *testing.T) *App {
	t.Helper()
	root := t.TempDir()
	return &App{
		Config:   app.DefaultConfig(),
		Lang:     app.LangEnglish,
		Model:    app.NewGeminiClient("mock", "", "", 0),
		Log:      app.NopLogger(),
		Sessions: app.NewJSONSessionStore(root),
		Profiles: app.NewProfileStore(root),
		Journal:  app.NewJournalStore(root),
		Memory:   app.NewMemoryStore(root),
	}
}

// drive feeds a message and chases the commands it produces, the way the
// runtime pumps them. Messages from outside this package (cursor blinks and
// the like) are dropped so tests stay deterministic.
func drive(t *testing.T, m *RootModel, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 64; i++ {
		msg, queue = queue[0], queue[1:]
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				if cmd != nil {
					queue = append(queue, cmd())
				}
			}
			continue
		}
		switch msg.(type) {
		case bootMsg, profileSavedMsg, navigateMsg,
			sessionLoadedMsg, chatEventMsg, chatClosedMsg,
			journalReloadedMsg, trendsReloadedMsg, helplinesMsg,
			deleteExpiredMsg, breathTickMsg, tea.WindowSizeMsg:
			if _, cmd := m.Update(msg); cmd != nil {
				queue = append(queue, cmd())
			}
		}
	}
}

func TestBootWithoutProfileOpensOnboarding(t *testing.T) {
	m := NewRoot(testApp(t))
	drive(t, m, m.bootCmd()())
	if m.screen != ScreenOnboarding {
		t.Errorf("screen = %d, want onboarding", m.screen)
	}
}

func TestBootWithProfileOpensWelcome(t *testing.T) {
	a := testApp(t)
	profile := app.UserProfile{Name: "Asha"}
	if err := a.Profiles.Save(profile); err != nil {
		t.Fatal(err)
	}

	m := NewRoot(a)
	drive(t, m, m.bootCmd()())
	if m.screen != ScreenWelcome {
		t.Errorf("screen = %d, want welcome", m.screen)
	}
	if a.Companion == nil {
		t.Errorf("companion not built after boot")
	}
	if a.Profile.Name != "Asha" {
		t.Errorf("profile not attached: %+v", a.Profile)
	}
}

func TestProfileSavedNavigatesToWelcome(t *testing.T) {
	m := NewRoot(testApp(t))
	drive(t, m, profileSavedMsg{profile: app.UserProfile{Name: "Dev"}})
	if m.screen != ScreenWelcome {
		t.Errorf("screen = %d, want welcome", m.screen)
	}
	if m.app.Companion == nil {
		t.Errorf("companion not built")
	}
}

func TestNavigateBuildsScreensLazily(t *testing.T) {
	a := testApp(t)
	a.Profile = app.UserProfile{Name: "Asha"}
	m := NewRoot(a)

	drive(t, m, navigateMsg{to: ScreenJournal})
	if m.screen != ScreenJournal || m.journal == nil {
		t.Errorf("journal screen not built")
	}
	drive(t, m, navigateMsg{to: ScreenTrends})
	if m.screen != ScreenTrends || m.trends == nil {
		t.Errorf("trends screen not built")
	}
	if m.chat != nil {
		t.Errorf("chat built without being visited")
	}
}

func TestChatReplyLandsWhileOnAnotherScreen(t *testing.T) {
	a := testApp(t)
	a.Profile = app.UserProfile{Name: "Asha"}
	a.Companion = app.NewCompanion(a.Sessions, a.Model, a.Memory, a.Profile, a.Lang, a.Log)
	m := NewRoot(a)

	drive(t, m, navigateMsg{to: ScreenChat})
	if m.chat == nil || m.chat.session.ID == 0 {
		t.Fatalf("chat not ready")
	}

	m.chat.input.SetValue("i had a rough day")
	sendCmd := m.chat.send()
	if sendCmd == nil {
		t.Fatalf("send returned no command")
	}

	// Leave for the journal while the reply is in flight.
	drive(t, m, navigateMsg{to: ScreenJournal})
	drive(t, m, sendCmd())

	if m.screen != ScreenJournal {
		t.Errorf("screen = %d, want journal", m.screen)
	}
	if m.chat.thinking {
		t.Errorf("chat still thinking after the pipeline closed")
	}
	if len(m.chat.session.Messages) != 4 {
		t.Errorf("messages = %d, want greeting + user + 2 bubbles", len(m.chat.session.Messages))
	}
	all, _ := a.Sessions.LoadSessions()
	if len(all[0].Messages) != len(m.chat.session.Messages) {
		t.Errorf("UI has %d messages, store has %d", len(m.chat.session.Messages), len(all[0].Messages))
	}

	// Coming back shows the full conversation once, and sending still works.
	drive(t, m, navigateMsg{to: ScreenChat})
	if len(m.chat.session.Messages) != 4 {
		t.Errorf("messages after return = %d, want 4", len(m.chat.session.Messages))
	}
	m.chat.input.SetValue("thanks, that helped")
	again := m.chat.send()
	if again == nil {
		t.Fatalf("send blocked after returning to chat")
	}
	drive(t, m, again())
	if len(m.chat.session.Messages) != 7 {
		t.Errorf("messages after second send = %d, want 7", len(m.chat.session.Messages))
	}
}

func TestWindowSizePropagates(t *testing.T) {
	a := testApp(t)
	a.Profile = app.UserProfile{Name: "Asha"}
	a.Companion = app.NewCompanion(a.Sessions, a.Model, a.Memory, a.Profile, a.Lang, a.Log)
	m := NewRoot(a)

	drive(t, m, navigateMsg{to: ScreenChat})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.chat.width != 120 || m.chat.height != 40 {
		t.Errorf("chat size = %dx%d", m.chat.width, m.chat.height)
	}
	// A session should have been loaded for the chat screen.
	if m.chat.session.ID == 0 {
		t.Errorf("chat session not loaded")
	}
}
