package tui

import (
	"fmt"
	"strings"
	"time"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

type breathPhase int

const (
	phaseReady breathPhase = iota
	phaseInhale
	phaseHold
	phaseExhale
	phasePause
)

// The cycle mirrors the guided tones: four seconds in, two held, four out,
// two resting.
var phaseSeconds = map[breathPhase]int{
	phaseInhale: int(app.ToneInhale.Duration.Seconds()),
	phaseHold:   2,
	phaseExhale: int(app.ToneExhale.Duration.Seconds()),
	phasePause:  2,
}

type breathingModel struct {
	app   *App
	theme Theme

	started   bool
	phase     breathPhase
	remaining int
	cycles    int
	gen       int
}

type breathTickMsg struct {
	gen int
}

func newBreathingModel(a *App, theme Theme) *breathingModel {
	return &breathingModel{app: a, theme: theme, phase: phaseReady}
}

func (m *breathingModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return navigate(ScreenWelcome)
		case "enter", " ":
			if !m.started {
				m.started = true
				m.gen++
				m.phase = phaseInhale
				m.remaining = phaseSeconds[phaseInhale]
				return m.tick()
			}
		}
	case breathTickMsg:
		if !m.started || msg.gen != m.gen {
			return nil
		}
		m.remaining--
		if m.remaining <= 0 {
			m.nextPhase()
		}
		return m.tick()
	}
	return nil
}

func (m *breathingModel) nextPhase() {
	switch m.phase {
	case phaseInhale:
		m.phase = phaseHold
	case phaseHold:
		m.phase = phaseExhale
	case phaseExhale:
		m.phase = phasePause
	case phasePause:
		m.phase = phaseInhale
		m.cycles++
	}
	m.remaining = phaseSeconds[m.phase]
}

func (m *breathingModel) tick() tea.Cmd {
	gen := m.gen
	return tickEvery(time.Second, func(time.Time) tea.Msg { return breathTickMsg{gen: gen} })
}

func (m *breathingModel) instruction() (string, string) {
	switch m.phase {
	case phaseInhale:
		return app.T(m.app.Lang, "inhale"), fmt.Sprintf("♪ %.0f Hz", app.ToneInhale.Frequency)
	case phaseHold:
		return app.T(m.app.Lang, "hold"), ""
	case phaseExhale:
		return app.T(m.app.Lang, "exhale"), fmt.Sprintf("♪ %.0f Hz", app.ToneExhale.Frequency)
	case phasePause:
		return app.T(m.app.Lang, "pause"), ""
	}
	return app.T(m.app.Lang, "getReady"), ""
}

// circle grows on the inhale and shrinks on the exhale.
func (m *breathingModel) circle() string {
	size := 1
	total := phaseSeconds[m.phase]
	switch m.phase {
	case phaseInhale:
		size = 1 + (total - m.remaining)
	case phaseHold:
		size = phaseSeconds[phaseInhale]
	case phaseExhale:
		size = 1 + m.remaining
	case phasePause:
		size = 1
	}
	if size < 1 {
		size = 1
	}
	var b strings.Builder
	for i := 0; i < size; i++ {
		pad := strings.Repeat(" ", (phaseSeconds[phaseInhale]-size)+1)
		b.WriteString(pad + strings.Repeat("●", 2*size-1) + "\n")
	}
	return m.theme.Calm.Render(b.String())
}

func (m *breathingModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render(app.T(m.app.Lang, "takeADeepBreath")))
	b.WriteString("\n\n")

	if !m.started {
		b.WriteString(app.T(m.app.Lang, "breathingDescription"))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Calm.Render("Enter ") + app.T(m.app.Lang, "startBreathing"))
	} else {
		instr, note := m.instruction()
		b.WriteString(m.circle())
		b.WriteString("\n")
		b.WriteString(m.theme.ModalTitle.Render(instr))
		if note != "" {
			b.WriteString("  " + m.theme.TopBarMeta.Render(note))
		}
		b.WriteString("\n")
		if m.cycles > 0 {
			b.WriteString(m.theme.TopBarMeta.Render(fmt.Sprintf("%d cycles", m.cycles)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("esc " + app.T(m.app.Lang, "endSessionAndReturn")))
	return centered(width, height, b.String())
}
