package tui

import (
	"strings"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

const welcomeArt = `
   ╭─────────────────╮
   │      💙         │
   │     Mitra       │
   ╰─────────────────╯
`

type welcomeModel struct {
	app   *App
	theme Theme
}

func newWelcomeModel(a *App, theme Theme) *welcomeModel {
	return &welcomeModel{app: a, theme: theme}
}

func (m *welcomeModel) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", " ":
			return navigate(ScreenChat)
		case "j":
			return navigate(ScreenJournal)
		case "b":
			return navigate(ScreenBreathing)
		case "r":
			return navigate(ScreenResources)
		case "t":
			return navigate(ScreenTrends)
		case "q":
			return tea.Quit
		}
	}
	return nil
}

func (m *welcomeModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarBadge.Render(welcomeArt))
	b.WriteString("\n")

	name := strings.SplitN(m.app.Profile.Name, " ", 2)[0]
	if name != "" {
		b.WriteString(m.theme.TopBarTitle.Render("Hi " + name + " 👋"))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.TopBarMeta.Render(app.T(m.app.Lang, "yourMindsFriend")))
	b.WriteString("\n\n")
	b.WriteString("  " + m.theme.Calm.Render("Enter") + "  " + app.T(m.app.Lang, "startConversation") + "\n\n")
	b.WriteString(m.theme.Footer.Render("j journal  |  b breathe  |  t trends  |  r resources  |  q quit"))

	return centered(width, height, b.String())
}
