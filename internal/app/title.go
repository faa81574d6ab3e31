package app

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const (
	// ShortChatTitle is used when the transcript is too thin to summarize.
	ShortChatTitle = "A Quick Thought"
	// FallbackTitle is used when the model call fails.
	FallbackTitle = "Chat Reflection"

	minTranscriptLen = 30
)

// TitleGenerator summarizes a session transcript into a short title and
// persists it. At most one generation runs at a time per instance; a second
// request while one is in flight is dropped.
type TitleGenerator struct {
	Store SessionStore
	Model Completer

	mu       sync.Mutex
	inFlight bool
}

func NewTitleGenerator(store SessionStore, model Completer) *TitleGenerator {
	return &TitleGenerator{Store: store, Model: model}
}

// Generate produces and saves a title for the session. The greeting message
// is excluded from the transcript. Returns "" when a generation is already
// in flight or when the session vanished before the title landed.
func (g *TitleGenerator) Generate(ctx context.Context, sess ChatSession) (string, error) {
	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return "", nil
	}
	g.inFlight = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.inFlight = false
		g.mu.Unlock()
	}()

	var transcript []ChatMessage
	if len(sess.Messages) > 1 {
		transcript = sess.Messages[1:]
	}
	prompt, conversation := TitlePrompt(transcript)

	var title string
	if len(conversation) < minTranscriptLen {
		title = ShortChatTitle
	} else {
		raw, err := g.Model.Complete(ctx, "", nil, prompt)
		if err != nil {
			title = FallbackTitle
		} else {
			title = sanitizeTitle(raw)
			if title == "" {
				title = FallbackTitle
			}
		}
	}

	if err := g.Store.SaveTitle(sess.ID, title); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// Session deleted while the model was thinking. Drop the title.
			return "", nil
		}
		return "", err
	}
	return title, nil
}

func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'“”")
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}
