package tui

import (
	"fmt"
	"strings"
	"time"

	"mitra/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Onboarding is a one-time stepped wizard. Everything it collects stays on
// disk locally; the emergency contacts feed the crisis modal.
type onboardingModel struct {
	app   *App
	theme Theme

	step      int
	statusMsg string
	input     textinput.Model

	languages []app.Lang
	selLang   int
	genders   []string
	selGender int

	profile      app.UserProfile
	contactField int
	pending      app.EmergencyContact
}

const (
	stepLanguage = iota
	stepName
	stepGender
	stepDOB
	stepCountry
	stepContacts
	stepConfirm
)

func newOnboardingModel(a *App, theme Theme) *onboardingModel {
	m := &onboardingModel{
		app:       a,
		theme:     theme,
		languages: []app.Lang{app.LangEnglish, app.LangHindi},
		genders:   []string{"Female", "Male", "Non-binary", "Prefer not to say"},
		input:     textinput.New(),
	}
	m.input.CharLimit = 120
	return m
}

func (m *onboardingModel) init() tea.Cmd {
	return textinput.Blink
}

func (m *onboardingModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "shift+tab":
			switch m.step {
			case stepLanguage:
				if m.selLang > 0 {
					m.selLang--
				}
			case stepGender:
				if m.selGender > 0 {
					m.selGender--
				}
			default:
				if m.step > stepLanguage {
					m.back()
				}
			}
			return nil
		case "down":
			switch m.step {
			case stepLanguage:
				if m.selLang < len(m.languages)-1 {
					m.selLang++
				}
			case stepGender:
				if m.selGender < len(m.genders)-1 {
					m.selGender++
				}
			}
			return nil
		case "enter":
			return m.advance()
		}
		if m.inputStep() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *onboardingModel) inputStep() bool {
	switch m.step {
	case stepName, stepDOB, stepCountry, stepContacts:
		return true
	}
	return false
}

func (m *onboardingModel) back() {
	m.statusMsg = ""
	m.step--
	m.contactField = 0
	m.pending = app.EmergencyContact{}
	m.prepareInput()
}

func (m *onboardingModel) advance() tea.Cmd {
	m.statusMsg = ""
	switch m.step {
	case stepLanguage:
		m.app.Lang = m.languages[m.selLang]
		m.step = stepName
		m.prepareInput()

	case stepName:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.statusMsg = "Please tell me what to call you"
			return nil
		}
		m.profile.Name = name
		m.step = stepGender

	case stepGender:
		m.profile.Gender = m.genders[m.selGender]
		m.step = stepDOB
		m.prepareInput()

	case stepDOB:
		dob := strings.TrimSpace(m.input.Value())
		if dob != "" {
			if _, err := time.Parse("2006-01-02", dob); err != nil {
				m.statusMsg = "Use YYYY-MM-DD, or leave blank to skip"
				return nil
			}
		}
		m.profile.DateOfBirth = dob
		m.step = stepCountry
		m.prepareInput()

	case stepCountry:
		m.profile.Country = strings.TrimSpace(m.input.Value())
		m.step = stepContacts
		m.contactField = 0
		m.prepareInput()

	case stepContacts:
		return m.advanceContact()

	case stepConfirm:
		return m.save()
	}
	return nil
}

// advanceContact walks relation, country code, phone. An empty relation
// finishes the section, so contacts are optional.
func (m *onboardingModel) advanceContact() tea.Cmd {
	val := strings.TrimSpace(m.input.Value())
	switch m.contactField {
	case 0:
		if val == "" || len(m.profile.EmergencyContacts) >= app.MaxEmergencyContacts {
			m.step = stepConfirm
			return nil
		}
		m.pending.Relation = val
		m.contactField = 1
	case 1:
		m.pending.CountryCode = val
		m.contactField = 2
	case 2:
		if val == "" {
			m.statusMsg = "A phone number is needed, or go up to skip"
			return nil
		}
		m.pending.Phone = val
		m.profile.EmergencyContacts = append(m.profile.EmergencyContacts, m.pending)
		m.pending = app.EmergencyContact{}
		m.contactField = 0
	}
	m.prepareInput()
	return nil
}

func (m *onboardingModel) prepareInput() {
	m.input.Reset()
	switch m.step {
	case stepName:
		m.input.Placeholder = "Your name"
	case stepDOB:
		m.input.Placeholder = "YYYY-MM-DD (optional)"
		m.input.SetValue(m.profile.DateOfBirth)
	case stepCountry:
		m.input.Placeholder = "Country (optional)"
		m.input.SetValue(m.profile.Country)
	case stepContacts:
		switch m.contactField {
		case 0:
			m.input.Placeholder = "Relation, e.g. Mom (blank to finish)"
		case 1:
			m.input.Placeholder = "Country code, e.g. +91"
		case 2:
			m.input.Placeholder = "Phone number"
		}
	}
	m.input.Focus()
}

func (m *onboardingModel) save() tea.Cmd {
	profile := m.profile
	if err := m.app.Profiles.Save(profile); err != nil {
		m.statusMsg = fmt.Sprintf("Could not save your profile: %v", err)
		return nil
	}
	cfg := m.app.Config
	cfg.Language = string(m.app.Lang)
	m.app.Config = cfg
	if m.app.ConfigPath != "" {
		if err := app.SaveConfig(cfg, m.app.ConfigPath); err != nil {
			m.app.Log.Warn("could not persist language preference", map[string]interface{}{"error": err.Error()})
		}
	}
	return func() tea.Msg { return profileSavedMsg{profile: profile} }
}

func (m *onboardingModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render("Welcome to Mitra 💙"))
	b.WriteString("\n")
	b.WriteString(m.theme.TopBarMeta.Render("Let's get to know you a bit. This stays on your device."))
	b.WriteString("\n\n")

	switch m.step {
	case stepLanguage:
		b.WriteString(m.theme.PaneTitle.Render("Which language feels like home?"))
		b.WriteString("\n\n")
		for i, l := range m.languages {
			marker := "○"
			if i == m.selLang {
				marker = "●"
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", marker, l.DisplayName()))
		}
	case stepName:
		b.WriteString(m.theme.PaneTitle.Render("What should I call you?"))
		b.WriteString("\n\n  " + m.input.View() + "\n")
	case stepGender:
		b.WriteString(m.theme.PaneTitle.Render("How do you identify?"))
		b.WriteString("\n\n")
		for i, g := range m.genders {
			marker := "○"
			if i == m.selGender {
				marker = "●"
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", marker, g))
		}
	case stepDOB:
		b.WriteString(m.theme.PaneTitle.Render("When were you born?"))
		b.WriteString("\n\n  " + m.input.View() + "\n")
	case stepCountry:
		b.WriteString(m.theme.PaneTitle.Render("Where do you live?"))
		b.WriteString("\n\n  " + m.input.View() + "\n")
	case stepContacts:
		b.WriteString(m.theme.PaneTitle.Render("Trusted people (up to 3, optional)"))
		b.WriteString("\n")
		b.WriteString(m.theme.TopBarMeta.Render("If things ever feel too heavy, I can show you their numbers."))
		b.WriteString("\n\n")
		for _, c := range m.profile.EmergencyContacts {
			b.WriteString(fmt.Sprintf("  ✓ %s  %s\n", c.Relation, c.Number()))
		}
		b.WriteString("\n  " + m.input.View() + "\n")
	case stepConfirm:
		b.WriteString(m.theme.PaneTitle.Render("All set?"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  ✓ Name:      %s\n", m.profile.Name))
		b.WriteString(fmt.Sprintf("  ✓ Language:  %s\n", m.app.Lang.DisplayName()))
		if m.profile.DateOfBirth != "" {
			b.WriteString(fmt.Sprintf("  ✓ Born:      %s\n", m.profile.DateOfBirth))
		}
		if m.profile.Country != "" {
			b.WriteString(fmt.Sprintf("  ✓ Country:   %s\n", m.profile.Country))
		}
		b.WriteString(fmt.Sprintf("  ✓ Contacts:  %d\n", len(m.profile.EmergencyContacts)))
		b.WriteString("\n  Press Enter to begin.\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + m.theme.BubbleErr.Render(m.statusMsg) + "\n")
	}
	b.WriteString("\n" + m.theme.Footer.Render("↑ back  |  Enter confirm  |  Ctrl+C quit"))

	return centered(width, height, b.String())
}
