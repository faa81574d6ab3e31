package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mitra/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

type trendsView int

const (
	trendsCalendar trendsView = iota
	trendsGraph
)

type trendsRange int

const (
	rangeWeek trendsRange = iota
	rangeMonth
	rangeYear
)

type trendsModel struct {
	app   *App
	theme Theme

	moods []app.MoodEntry
	mode  trendsView
	span  trendsRange

	// Calendar cursor.
	year  int
	month time.Month
}

type trendsReloadedMsg struct {
	moods []app.MoodEntry
	err   error
}

func newTrendsModel(a *App, theme Theme) *trendsModel {
	now := time.Now()
	return &trendsModel{app: a, theme: theme, year: now.Year(), month: now.Month()}
}

func (m *trendsModel) reload() tea.Cmd {
	return func() tea.Msg {
		moods, err := m.app.Journal.Moods()
		return trendsReloadedMsg{moods: moods, err: err}
	}
}

func (m *trendsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case trendsReloadedMsg:
		if msg.err == nil {
			m.moods = msg.moods
		}
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return navigate(ScreenWelcome)
		case "tab", "g":
			if m.mode == trendsCalendar {
				m.mode = trendsGraph
			} else {
				m.mode = trendsCalendar
			}
		case "w":
			m.span = rangeWeek
		case "m":
			m.span = rangeMonth
		case "y":
			m.span = rangeYear
		case "left", "p":
			m.month--
			if m.month < time.January {
				m.month = time.December
				m.year--
			}
		case "right", "n":
			m.month++
			if m.month > time.December {
				m.month = time.January
				m.year++
			}
		}
	}
	return nil
}

func (m *trendsModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render(app.T(m.app.Lang, "moodTrends")))
	b.WriteString("\n\n")

	if len(m.moods) == 0 {
		b.WriteString(m.theme.PaneTitle.Render(app.T(m.app.Lang, "noMoodsLogged")))
		b.WriteString("\n")
		b.WriteString(m.theme.TopBarMeta.Render(app.T(m.app.Lang, "logMoodsToSeeTrends")))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Footer.Render("esc home"))
		return b.String()
	}

	if m.mode == trendsCalendar {
		b.WriteString(m.calendarView())
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Render("←/→ month  |  tab " + app.T(m.app.Lang, "graph") + "  |  esc home"))
	} else {
		b.WriteString(m.graphView(width))
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Render("w/m/y range  |  tab " + app.T(m.app.Lang, "calendar") + "  |  esc home"))
	}
	return b.String()
}

func (m *trendsModel) calendarView() string {
	byDay := app.MoodsInMonth(m.moods, m.year, m.month)
	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render(first.Format("January 2006")))
	b.WriteString("\n\n Su Mo Tu We Th Fr Sa\n")

	col := int(first.Weekday())
	b.WriteString(strings.Repeat("   ", col))
	for day := 1; day <= daysInMonth; day++ {
		if e, ok := byDay[day]; ok {
			b.WriteString(" " + e.Mood.Emoji())
		} else {
			b.WriteString(fmt.Sprintf(" %2d", day))
		}
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	// Notes attached to check-ins, listed under the grid.
	var noted []int
	for day, e := range byDay {
		if e.Note != "" {
			noted = append(noted, day)
		}
	}
	sort.Ints(noted)
	for _, day := range noted {
		e := byDay[day]
		b.WriteString(fmt.Sprintf("\n %2d  %s %s", day, e.Mood.Emoji(), e.Note))
	}
	if len(noted) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *trendsModel) graphView(width int) string {
	now := time.Now()
	var cutoff time.Time
	var label string
	switch m.span {
	case rangeWeek:
		cutoff = now.AddDate(0, 0, -7)
		label = app.T(m.app.Lang, "week")
	case rangeMonth:
		cutoff = now.AddDate(0, -1, 0)
		label = app.T(m.app.Lang, "month")
	case rangeYear:
		cutoff = now.AddDate(-1, 0, 0)
		label = app.T(m.app.Lang, "year")
	}
	recent := app.MoodsSince(m.moods, cutoff)

	maxCols := width - 12
	if maxCols < 7 {
		maxCols = 7
	}
	if len(recent) > maxCols {
		recent = recent[len(recent)-maxCols:]
	}

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render(label))
	b.WriteString("\n\n")

	labels := map[int]string{4: app.T(m.app.Lang, "happy"), 3: app.T(m.app.Lang, "neutral"), 2: app.T(m.app.Lang, "stressed"), 1: app.T(m.app.Lang, "sad")}
	for row := 4; row >= 1; row-- {
		b.WriteString(fmt.Sprintf("%9s │", labels[row]))
		for _, e := range recent {
			if e.Mood.Score() >= row {
				b.WriteString(m.theme.Calm.Render("█"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("          └" + strings.Repeat("─", len(recent)) + "\n")
	if len(recent) > 0 {
		b.WriteString(fmt.Sprintf("           %s … %s\n",
			recent[0].Date.Format("Jan 2"), recent[len(recent)-1].Date.Format("Jan 2")))
	}
	return b.String()
}
