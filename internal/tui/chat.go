package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mitra/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type chatModal int

const (
	modalNone chatModal = iota
	modalHistory
	modalCrisis
	modalClearConfirm
)

type chatModel struct {
	app   *App
	theme Theme
	keys  keyMap

	session  app.ChatSession
	sessions []app.SessionSummary
	input    textarea.Model
	vp       viewport.Model
	width    int
	height   int

	thinking   bool
	spinnerPos int
	notice     string

	modal      chatModal
	historySel int
	helplines  []app.Helpline

	eventsCh chan app.Event
}

type sessionLoadedMsg struct {
	sess app.ChatSession
	err  error
}

type chatEventMsg struct {
	ev app.Event
}

type chatClosedMsg struct{}

type chatSpinMsg struct{}

func newChatModel(a *App, theme Theme) *chatModel {
	ta := textarea.New()
	ta.Placeholder = app.T(a.Lang, "typeAMessage")
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	return &chatModel{
		app:   a,
		theme: theme,
		keys:  defaultKeyMap(),
		input: ta,
		vp:    viewport.New(80, 20),
	}
}

func (m *chatModel) init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadSessionCmd())
}

func (m *chatModel) refocus() tea.Cmd {
	m.input.Focus()
	return textarea.Blink
}

func (m *chatModel) loadSessionCmd() tea.Cmd {
	return func() tea.Msg {
		sess, _, err := app.EnsureSession(m.app.Sessions, m.app.Lang, time.Now())
		return sessionLoadedMsg{sess: sess, err: err}
	}
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 6)
	m.vp.Width = width - 4
	m.vp.Height = height - 10
	if m.vp.Height < 3 {
		m.vp.Height = 3
	}
	m.renderTranscript()
}

func (m *chatModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		if msg.err != nil {
			m.notice = "Could not load sessions: " + msg.err.Error()
			return nil
		}
		m.session = msg.sess
		m.renderTranscript()
		return nil

	case chatEventMsg:
		m.applyEvent(msg.ev)
		return m.waitEvent()

	case chatClosedMsg:
		m.eventsCh = nil
		m.thinking = false
		return nil

	case chatSpinMsg:
		if m.thinking {
			m.spinnerPos++
			return m.spinTick()
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *chatModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return navigate(ScreenWelcome)
	case key.Matches(msg, m.keys.NewChat):
		return m.newSessionCmd()
	case key.Matches(msg, m.keys.History):
		return m.openHistory()
	case key.Matches(msg, m.keys.ClearAll):
		m.modal = modalClearConfirm
		return nil
	case key.Matches(msg, m.keys.Journal):
		return navigate(ScreenJournal)
	case key.Matches(msg, m.keys.Breathe):
		return navigate(ScreenBreathing)
	case key.Matches(msg, m.keys.Resources):
		return navigate(ScreenResources)
	case key.Matches(msg, m.keys.Trends):
		return navigate(ScreenTrends)
	case key.Matches(msg, m.keys.Enter):
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *chatModel) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.thinking {
		return nil
	}
	m.input.Reset()
	m.notice = ""

	if rest, ok := strings.CutPrefix(text, "/remember "); ok {
		if err := m.app.Memory.Add(rest, time.Now()); err != nil {
			m.notice = "Could not save that: " + err.Error()
		} else {
			m.notice = "I'll remember that 💙"
		}
		return nil
	}

	m.thinking = true
	m.spinnerPos = 0

	events := make(chan app.Event, 16)
	m.eventsCh = events
	companion := m.app.Companion
	sess := m.session
	go func() {
		err := companion.Send(context.Background(), sess, text, func(ev app.Event) {
			events <- ev
		})
		if err != nil && !errors.Is(err, app.ErrBusy) {
			m.app.Log.Error("send failed", map[string]interface{}{"error": err.Error()})
		}
		close(events)
	}()

	return tea.Batch(m.waitEvent(), m.spinTick())
}

func (m *chatModel) waitEvent() tea.Cmd {
	events := m.eventsCh
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		ev, ok := <-events
		if !ok {
			return chatClosedMsg{}
		}
		return chatEventMsg{ev: ev}
	}
}

// applyEvent folds one pipeline event into the UI. Events for a session
// that is no longer active are dropped; the pipeline already persisted them.
func (m *chatModel) applyEvent(ev app.Event) {
	if ev.SessionID != m.session.ID {
		return
	}
	switch ev.Kind {
	case app.EventUser, app.EventMessage:
		// A re-entry reload may already hold this message from the store.
		for i := len(m.session.Messages) - 1; i >= 0; i-- {
			if m.session.Messages[i].ID == ev.Message.ID {
				return
			}
		}
		m.session.Messages = append(m.session.Messages, ev.Message)
		m.renderTranscript()
	case app.EventTitle:
		m.session.Title = ev.Title
	case app.EventCrisis:
		m.helplines = app.DefaultHelplines(m.app.Lang)
		m.modal = modalCrisis
	case app.EventDone:
		m.thinking = false
	}
}

func (m *chatModel) newSessionCmd() tea.Cmd {
	return func() tea.Msg {
		sess, err := app.NewSession(m.app.Sessions, m.app.Lang, time.Now())
		return sessionLoadedMsg{sess: sess, err: err}
	}
}

func (m *chatModel) openHistory() tea.Cmd {
	sessions, err := m.app.Sessions.LoadSessions()
	if err != nil {
		m.notice = "Could not load history: " + err.Error()
		return nil
	}
	m.sessions = m.sessions[:0]
	// Newest first.
	for i := len(sessions) - 1; i >= 0; i-- {
		m.sessions = append(m.sessions, sessions[i].Summary())
	}
	m.historySel = 0
	m.modal = modalHistory
	return nil
}

func (m *chatModel) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	switch m.modal {
	case modalCrisis:
		if msg.String() == "esc" || msg.String() == "enter" {
			m.modal = modalNone
		}
		return nil

	case modalClearConfirm:
		switch msg.String() {
		case "y":
			m.modal = modalNone
			return func() tea.Msg {
				sess, err := app.ClearHistory(m.app.Sessions, m.app.Lang, time.Now())
				return sessionLoadedMsg{sess: sess, err: err}
			}
		case "n", "esc":
			m.modal = modalNone
		}
		return nil

	case modalHistory:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
		case "up", "k":
			if m.historySel > 0 {
				m.historySel--
			}
		case "down", "j":
			if m.historySel < len(m.sessions)-1 {
				m.historySel++
			}
		case "enter":
			if m.historySel < len(m.sessions) {
				id := m.sessions[m.historySel].ID
				m.modal = modalNone
				return m.switchSessionCmd(id)
			}
		case "d", "backspace":
			if m.historySel < len(m.sessions) {
				id := m.sessions[m.historySel].ID
				m.modal = modalNone
				return func() tea.Msg {
					sess, err := app.DeleteSession(m.app.Sessions, id, m.app.Lang, time.Now())
					return sessionLoadedMsg{sess: sess, err: err}
				}
			}
		}
		return nil
	}
	return nil
}

func (m *chatModel) switchSessionCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Sessions.SetActiveSessionID(id); err != nil {
			return sessionLoadedMsg{err: err}
		}
		sess, _, err := app.EnsureSession(m.app.Sessions, m.app.Lang, time.Now())
		return sessionLoadedMsg{sess: sess, err: err}
	}
}

func (m *chatModel) spinTick() tea.Cmd {
	return tickEvery(100*time.Millisecond, func(time.Time) tea.Msg { return chatSpinMsg{} })
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m *chatModel) renderTranscript() {
	wrap := lipgloss.NewStyle().Width(m.vp.Width - 2)
	var b strings.Builder
	for _, msg := range m.session.Messages {
		if msg.Sender == app.SenderUser {
			b.WriteString(m.theme.BubbleUser.Render("You"))
		} else {
			b.WriteString(m.theme.TopBarBadge.Render("Mitra"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(msg.Text))
		b.WriteString("\n\n")
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m *chatModel) view() string {
	if m.modal == modalCrisis {
		return m.crisisView()
	}

	var b strings.Builder
	title := m.session.Title
	if title == "" {
		title = app.DefaultTitle
	}
	b.WriteString(m.theme.TopBarTitle.Render("Mitra 💙"))
	b.WriteString("  ")
	b.WriteString(m.theme.TopBarMeta.Render(title))
	b.WriteString("\n")
	b.WriteString(m.theme.Pane.Width(m.vp.Width).Render(m.vp.View()))
	b.WriteString("\n")

	if m.thinking {
		frame := spinnerFrames[m.spinnerPos%len(spinnerFrames)]
		b.WriteString(m.theme.Spinner.Render(frame + " " + app.T(m.app.Lang, "thinking")))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(m.theme.BubbleSys.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputBoxF.Width(m.vp.Width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("enter send  |  ctrl+n new  |  ctrl+h history  |  ctrl+j journal  |  esc home"))

	switch m.modal {
	case modalHistory:
		return m.overlay(b.String(), m.historyView())
	case modalClearConfirm:
		return m.overlay(b.String(), m.clearConfirmView())
	}
	return b.String()
}

func (m *chatModel) overlay(_, modal string) string {
	return centered(m.width, m.height, modal)
}

func (m *chatModel) historyView() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render(app.T(m.app.Lang, "chatHistory")))
	b.WriteString("\n\n")
	for i, s := range m.sessions {
		cursor := "  "
		if i == m.historySel {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  (%d)  %s", cursor, s.Title, s.MessageCount, s.Date.Format("Jan 2 15:04"))
		if i == m.historySel {
			b.WriteString(m.theme.BubbleUser.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("enter open  |  d delete  |  esc close"))
	return m.theme.Modal.Render(b.String())
}

func (m *chatModel) clearConfirmView() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render(app.T(m.app.Lang, "clearAllHistory")))
	b.WriteString("\n\n")
	b.WriteString("This removes every conversation and starts fresh.\n\n")
	b.WriteString(m.theme.Footer.Render("y confirm  |  n cancel"))
	return m.theme.Modal.Render(b.String())
}

func (m *chatModel) crisisView() string {
	return crisisPanel(m.app, m.theme, m.helplines, m.width, m.height)
}
