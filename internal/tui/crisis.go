package tui

import (
	"fmt"
	"strings"

	"mitra/internal/app"
)

// crisisPanel is the emergency-support interstitial shared by the chat and
// journal screens: the user's own contacts first, then helplines.
func crisisPanel(a *App, theme Theme, helplines []app.Helpline, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Danger.Render(app.T(a.Lang, "crisisTitle")))
	b.WriteString("\n\n")
	b.WriteString(app.T(a.Lang, "crisisBody"))
	b.WriteString("\n\n")
	for _, c := range a.Profile.EmergencyContacts {
		b.WriteString(fmt.Sprintf("  💙 %s  %s\n", c.Relation, c.Number()))
	}
	if len(helplines) > 0 {
		b.WriteString("\n")
		for _, h := range helplines {
			b.WriteString(fmt.Sprintf("  ☎ %s  %s\n", h.Name, h.Number))
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.BubbleSys.Render(app.T(a.Lang, "immediateDangerWarning")))
	b.WriteString("\n\n")
	b.WriteString(theme.Footer.Render("esc " + app.T(a.Lang, "close")))
	return centered(width, height, theme.Modal.Render(b.String()))
}
