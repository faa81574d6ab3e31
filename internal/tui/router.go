package tui

import (
	"time"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies one top-level view. Exactly one screen is visible at a
// time; modals render on top of their owning screen.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenOnboarding
	ScreenWelcome
	ScreenChat
	ScreenJournal
	ScreenBreathing
	ScreenResources
	ScreenTrends
)

// App bundles everything the screens share. The companion is built once the
// profile is known, since the persona is personalized.
type App struct {
	Config app.Config
	// ConfigPath is where preference changes are written; empty disables
	// persistence (tests).
	ConfigPath string
	Lang       app.Lang
	Model      app.Completer
	Log        *app.Logger
	Sessions   app.SessionStore
	Profiles   *app.ProfileStore
	Journal    *app.JournalStore
	Memory     *app.MemoryStore

	Profile   app.UserProfile
	Companion *app.Companion
}

// RootModel owns navigation and window size; each screen keeps its own
// state and is created lazily on first visit.
type RootModel struct {
	app     *App
	theme   Theme
	screen  Screen
	width   int
	height  int
	bootErr error

	onboarding *onboardingModel
	welcome    *welcomeModel
	chat       *chatModel
	journal    *journalModel
	breathing  *breathingModel
	resources  *resourcesModel
	trends     *trendsModel
}

type navigateMsg struct {
	to Screen
}

func navigate(to Screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

type bootMsg struct {
	profile app.UserProfile
	ok      bool
	err     error
}

type profileSavedMsg struct {
	profile app.UserProfile
}

func NewRoot(a *App) *RootModel {
	return &RootModel{
		app:    a,
		theme:  NewTheme(),
		screen: ScreenLoading,
		width:  80,
		height: 24,
	}
}

func (m *RootModel) Init() tea.Cmd {
	return m.bootCmd()
}

func (m *RootModel) bootCmd() tea.Cmd {
	return func() tea.Msg {
		profile, ok, err := m.app.Profiles.Load()
		return bootMsg{profile: profile, ok: ok, err: err}
	}
}

func (m *RootModel) attachProfile(profile app.UserProfile) {
	m.app.Profile = profile
	m.app.Companion = app.NewCompanion(m.app.Sessions, m.app.Model, m.app.Memory, profile, m.app.Lang, m.app.Log)
}

func (m *RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.chat != nil {
			m.chat.setSize(msg.Width, msg.Height)
		}
		if m.journal != nil {
			m.journal.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case bootMsg:
		if msg.err != nil {
			m.bootErr = msg.err
			return m, nil
		}
		if msg.ok {
			m.attachProfile(msg.profile)
			return m, navigate(ScreenWelcome)
		}
		return m, navigate(ScreenOnboarding)

	case profileSavedMsg:
		m.attachProfile(msg.profile)
		return m, navigate(ScreenWelcome)

	case navigateMsg:
		return m.enter(msg.to)

	case chatEventMsg, chatClosedMsg:
		// Pipeline events reach the chat model even when another screen is
		// visible, so a reply keeps landing while the user is away.
		if m.chat != nil {
			return m, m.chat.update(msg)
		}
		return m, nil
	}

	return m.updateScreen(msg)
}

// enter switches screens, building the target model if this is the first
// visit and refreshing data on re-entry where the screen expects it.
func (m *RootModel) enter(to Screen) (tea.Model, tea.Cmd) {
	m.screen = to
	switch to {
	case ScreenOnboarding:
		if m.onboarding == nil {
			m.onboarding = newOnboardingModel(m.app, m.theme)
		}
		return m, m.onboarding.init()
	case ScreenWelcome:
		if m.welcome == nil {
			m.welcome = newWelcomeModel(m.app, m.theme)
		}
		return m, nil
	case ScreenChat:
		if m.chat == nil {
			m.chat = newChatModel(m.app, m.theme)
			m.chat.setSize(m.width, m.height)
			return m, m.chat.init()
		}
		// Re-entry refreshes from the store in case messages landed while
		// another screen was visible.
		return m, tea.Batch(m.chat.refocus(), m.chat.loadSessionCmd())
	case ScreenJournal:
		if m.journal == nil {
			m.journal = newJournalModel(m.app, m.theme)
			m.journal.setSize(m.width, m.height)
		}
		return m, m.journal.reload()
	case ScreenBreathing:
		m.breathing = newBreathingModel(m.app, m.theme)
		return m, nil
	case ScreenResources:
		if m.resources == nil {
			m.resources = newResourcesModel(m.app, m.theme)
			return m, m.resources.init()
		}
		return m, nil
	case ScreenTrends:
		if m.trends == nil {
			m.trends = newTrendsModel(m.app, m.theme)
		}
		return m, m.trends.reload()
	}
	return m, nil
}

func (m *RootModel) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenOnboarding:
		if m.onboarding != nil {
			cmd = m.onboarding.update(msg)
		}
	case ScreenWelcome:
		if m.welcome != nil {
			cmd = m.welcome.update(msg)
		}
	case ScreenChat:
		if m.chat != nil {
			cmd = m.chat.update(msg)
		}
	case ScreenJournal:
		if m.journal != nil {
			cmd = m.journal.update(msg)
		}
	case ScreenBreathing:
		if m.breathing != nil {
			cmd = m.breathing.update(msg)
		}
	case ScreenResources:
		if m.resources != nil {
			cmd = m.resources.update(msg)
		}
	case ScreenTrends:
		if m.trends != nil {
			cmd = m.trends.update(msg)
		}
	}
	return m, cmd
}

func (m *RootModel) View() string {
	if m.bootErr != nil {
		return m.theme.BubbleErr.Render("Failed to start: "+m.bootErr.Error()) + "\n\nPress Ctrl+C to exit.\n"
	}
	var body string
	switch m.screen {
	case ScreenLoading:
		body = m.theme.Spinner.Render("Loading…")
	case ScreenOnboarding:
		body = m.onboarding.view(m.width, m.height)
	case ScreenWelcome:
		body = m.welcome.view(m.width, m.height)
	case ScreenChat:
		body = m.chat.view()
	case ScreenJournal:
		body = m.journal.view()
	case ScreenBreathing:
		body = m.breathing.view(m.width, m.height)
	case ScreenResources:
		body = m.resources.view(m.width)
	case ScreenTrends:
		body = m.trends.view(m.width)
	}
	return body
}

// centered places content in the middle of the window the way the setup
// screens do.
func centered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// tickEvery is shared by the screens that animate.
func tickEvery(d time.Duration, mk func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, mk)
}
