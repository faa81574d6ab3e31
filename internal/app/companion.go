package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

type EventKind string

const (
	// EventUser echoes the persisted user message back to the UI.
	EventUser EventKind = "user"
	// EventMessage is one AI bubble, delivered in order with typing delays.
	EventMessage EventKind = "message"
	// EventCrisis asks the UI to open the support modal.
	EventCrisis EventKind = "crisis"
	// EventTitle carries a freshly generated session title.
	EventTitle EventKind = "title"
	// EventDone closes one send cycle; the UI leaves its thinking state.
	EventDone EventKind = "done"
)

// Event is the unit of delivery from a send cycle to the UI. SessionID lets
// the receiver drop events for a session that is no longer active.
type Event struct {
	Kind      EventKind
	SessionID int64
	Message   ChatMessage
	Title     string
	Err       error
}

// ErrBusy is returned when a send cycle is already running.
var ErrBusy = errors.New("a message is already being sent")

// Companion runs the message pipeline: persist the user message, classify
// for crisis, complete with the model, split the reply into bubbles and
// deliver them in order with typing delays, then maybe generate a title.
type Companion struct {
	Store   SessionStore
	Model   Completer
	Titles  *TitleGenerator
	Crisis  *CrisisDetector
	Memory  *MemoryStore
	Profile UserProfile
	Lang    Lang
	Log     *Logger

	mu      sync.Mutex
	sending bool

	// Injectable for tests.
	sleep func(time.Duration)
	clock func() time.Time
}

func NewCompanion(store SessionStore, model Completer, memory *MemoryStore, profile UserProfile, lang Lang, log *Logger) *Companion {
	if log == nil {
		log = NopLogger()
	}
	return &Companion{
		Store:   store,
		Model:   model,
		Titles:  NewTitleGenerator(store, model),
		Crisis:  NewCrisisDetector(model, profile),
		Memory:  memory,
		Profile: profile,
		Lang:    lang,
		Log:     log,
		sleep:   time.Sleep,
		clock:   time.Now,
	}
}

func (c *Companion) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sending {
		return false
	}
	c.sending = true
	return true
}

func (c *Companion) end() {
	c.mu.Lock()
	c.sending = false
	c.mu.Unlock()
}

// Sending reports whether a send cycle is in flight.
func (c *Companion) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Send runs one full cycle for the given session. It blocks until every
// event has been delivered, so callers run it on their own goroutine and may
// close their event channel once it returns. Empty input is a no-op. A second
// Send while one is running returns ErrBusy without touching the session.
//
// Crisis classification and title generation run beside the reply flow on
// their own goroutines: EventDone marks the end of the bubbles, and their
// events may arrive after it.
func (c *Companion) Send(ctx context.Context, sess ChatSession, text string, emit func(Event)) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if !c.begin() {
		return ErrBusy
	}
	defer c.end()

	// Background goroutines share the caller's emit; serialize it.
	var emitMu sync.Mutex
	deliver := func(ev Event) {
		emitMu.Lock()
		defer emitMu.Unlock()
		emit(ev)
	}
	var background sync.WaitGroup
	defer background.Wait()
	defer deliver(Event{Kind: EventDone, SessionID: sess.ID})

	now := c.clock()
	userMsg := ChatMessage{ID: NewMessageID(now), Text: trimmed, Sender: SenderUser}
	sess.Messages = append(sess.Messages, userMsg)
	sess.Date = now
	if err := UpdateSession(c.Store, sess); err != nil {
		return err
	}
	deliver(Event{Kind: EventUser, SessionID: sess.ID, Message: userMsg})

	// Classification is advisory and must not delay the reply. Failures
	// degrade to SAFE.
	background.Add(1)
	go func() {
		defer background.Done()
		if crisis, err := c.Crisis.Check(ctx, trimmed); err == nil && crisis {
			deliver(Event{Kind: EventCrisis, SessionID: sess.ID})
		}
	}()

	facts := []MemoryFact{}
	if c.Memory != nil {
		if loaded, err := c.Memory.List(); err == nil {
			facts = loaded
		}
	}
	system := SystemInstruction(c.Profile, c.Lang, facts, now)
	history := ModelHistory(sess.Messages[:len(sess.Messages)-1])

	reply, err := c.Model.Complete(ctx, system, history, trimmed)
	if err != nil {
		c.Log.Error("model completion failed", map[string]interface{}{"error": err.Error(), "session": sess.ID})
		apology := T(c.Lang, "sendFailed")
		sess = c.appendAI(sess, apology, deliver)
		return nil
	}

	reply, flagged := StripCrisisMarker(reply)
	if flagged {
		deliver(Event{Kind: EventCrisis, SessionID: sess.ID})
	}

	for i, bubble := range SplitBubbles(reply) {
		if i > 0 {
			c.sleep(bubbleDelay(bubble))
		}
		sess = c.appendAI(sess, bubble, deliver)
	}

	// Generate a title once the session has a real exchange and still
	// carries the placeholder. Runs beside the reply so the UI leaves its
	// thinking state as soon as the last bubble lands.
	if len(sess.Messages) >= 3 && sess.Title == DefaultTitle {
		titleSess := sess
		background.Add(1)
		go func() {
			defer background.Done()
			if title, err := c.Titles.Generate(ctx, titleSess); err == nil && title != "" {
				deliver(Event{Kind: EventTitle, SessionID: titleSess.ID, Title: title})
			}
		}()
	}
	return nil
}

func (c *Companion) appendAI(sess ChatSession, text string, emit func(Event)) ChatSession {
	now := c.clock()
	msg := ChatMessage{ID: NewMessageID(now), Text: text, Sender: SenderAI}
	sess.Messages = append(sess.Messages, msg)
	sess.Date = now
	if err := UpdateSession(c.Store, sess); err != nil {
		c.Log.Error("failed to persist message", map[string]interface{}{"error": err.Error(), "session": sess.ID})
	}
	emit(Event{Kind: EventMessage, SessionID: sess.ID, Message: msg})
	return sess
}

// bubbleDelay simulates typing time for a bubble, proportional to its
// length and capped so long replies never stall the conversation.
func bubbleDelay(text string) time.Duration {
	d := 300*time.Millisecond + time.Duration(utf8.RuneCountInString(text))*15*time.Millisecond
	if d > 1500*time.Millisecond {
		d = 1500 * time.Millisecond
	}
	return d
}
