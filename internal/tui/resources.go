package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

type resourcesModel struct {
	app   *App
	theme Theme

	helplines []app.Helpline
	looking   bool
}

type helplinesMsg struct {
	lines []app.Helpline
}

func newResourcesModel(a *App, theme Theme) *resourcesModel {
	return &resourcesModel{
		app:       a,
		theme:     theme,
		helplines: app.DefaultHelplines(a.Lang),
	}
}

// init shows the static list immediately and refines it for the user's
// country in the background.
func (m *resourcesModel) init() tea.Cmd {
	country := strings.TrimSpace(m.app.Profile.Country)
	if country == "" {
		return nil
	}
	m.looking = true
	model := m.app.Model
	lang := m.app.Lang
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return helplinesMsg{lines: app.LookupHelplines(ctx, model, country, lang)}
	}
}

func (m *resourcesModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case helplinesMsg:
		m.looking = false
		if len(msg.lines) > 0 {
			m.helplines = msg.lines
		}
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return navigate(ScreenWelcome)
		}
	}
	return nil
}

func (m *resourcesModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render(app.T(m.app.Lang, "youAreNotAlone")))
	b.WriteString("\n\n")

	for _, h := range m.helplines {
		b.WriteString(m.theme.PaneTitle.Render(h.Name))
		b.WriteString("\n")
		if h.Description != "" {
			b.WriteString("  " + m.theme.TopBarMeta.Render(h.Description) + "\n")
		}
		b.WriteString("  " + m.theme.Calm.Render("☎ "+h.Number) + "\n")
		if h.Website != "" {
			b.WriteString("  " + m.theme.TopBarMeta.Render(h.Website) + "\n")
		}
		b.WriteString("\n")
	}

	if m.looking {
		b.WriteString(m.theme.Spinner.Render(fmt.Sprintf("Looking up helplines for %s…", m.app.Profile.Country)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.BubbleSys.Render(app.T(m.app.Lang, "immediateDangerWarning")))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("esc home"))
	return b.String()
}
