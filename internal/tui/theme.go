package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Accent2  lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Warn     lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	// Styles
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style

	BubbleUser lipgloss.Style
	BubbleAI   lipgloss.Style
	BubbleSys  lipgloss.Style
	BubbleErr  lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	Danger     lipgloss.Style
	Calm       lipgloss.Style
}

func NewTheme() Theme {
	name := ThemeName(os.Getenv("MITRA_THEME"))
	if name == "" {
		name = ThemePorcelain
	}

	if os.Getenv("MITRA_NO_COLOR") == "1" {
		return NewNoColorTheme()
	}

	switch name {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func NewNoColorTheme() Theme {
	t := Theme{
		Name:        "no-color",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#bbbbbb"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
	}
	return t.buildStyles()
}

func newPorcelainTheme() Theme {
	t := Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},

		Accent:   lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Success:  lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}
	return t.buildStyles()
}

func newMidnightTheme() Theme {
	t := Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8d8d8d"},

		Accent:   lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#0ea5e9", Dark: "#5cc8ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
	}
	return t.buildStyles()
}

func (t Theme) buildStyles() Theme {
	accent := t.Accent
	if accent.Light == "" {
		accent = t.TextPrimary
	}
	success := t.Success
	if success.Light == "" {
		success = t.TextPrimary
	}
	errCol := t.Error
	if errCol.Light == "" {
		errCol = t.TextPrimary
	}

	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(accent)

	t.BubbleUser = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.BubbleAI = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.BubbleSys = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.BubbleErr = lipgloss.NewStyle().Bold(true).Foreground(errCol)

	t.Modal = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(1, 2)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Danger = lipgloss.NewStyle().Bold(true).Foreground(errCol)
	t.Calm = lipgloss.NewStyle().Foreground(success)
	return t
}
