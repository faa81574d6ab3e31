package app

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is immutable once appended. IDs are creation timestamps in
// nanoseconds; ordering within a session is append order, not ID order.
type ChatMessage struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

type ChatSession struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Date is the last-modified time, bumped on every message append.
	Date     time.Time     `json:"date"`
	Messages []ChatMessage `json:"messages"`
}

type SessionSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	MessageCount int       `json:"message_count"`
}

// DefaultTitle marks a session whose title has not been generated yet.
const DefaultTitle = "New Chat"

func NewMessageID(now time.Time) int64 {
	return now.UnixNano()
}

// Greeting is the synthetic opening message of every fresh session. It is
// excluded from model history and from title transcripts.
func Greeting(lang Lang, now time.Time) ChatMessage {
	return ChatMessage{
		ID:     NewMessageID(now),
		Text:   T(lang, "greeting"),
		Sender: SenderAI,
	}
}

func (s ChatSession) Summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		Date:         s.Date,
		MessageCount: len(s.Messages),
	}
}
