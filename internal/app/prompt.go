package app

import (
	"fmt"
	"strings"
	"time"
)

const (
	// BubbleDelimiter splits one model reply into several chat bubbles.
	BubbleDelimiter = "|||"

	// CrisisMarker may prefix a reply when the model itself flags acute
	// distress. It is stripped before display.
	CrisisMarker = "[CRISIS]"
)

const basePersona = "You are Mitra, an AI wellness companion. Your voice and words should feel like a warm hug for the user's mind. Your persona is that of a deeply empathetic, patient, and wise friend who listens with their whole heart. Your goal is not to solve problems, but to create a safe, non-judgmental space where the user feels heard, understood, and validated. **Crucially, you must respond in the same language the user is writing in. If they use Hindi, you must respond in Hindi. If they use English, respond in English.** Core Principles: 1. Deep Empathy & Validation: Always begin by deeply acknowledging and validating the user's feelings. 2. Reflective Listening: Gently mirror back the user's feelings to show you are truly listening. 3. Heartfelt, Open-Ended Questions: Ask open-ended questions that invite deeper reflection; avoid simple yes/no questions. 4. Gentle Guidance, Not Directives: You don't have the answers; you help the user find their own. 5. Contextual & Gentle Tool Suggestions: If the user seems overwhelmed you may mention the breathing guide, and for tangled thoughts the private journal, always as optional tools with no pressure. Your tone must always be calming, reassuring, and full of heart. Use emojis like 💙, ✨, and 🤗 thoughtfully to add warmth and softness. When a reply naturally falls into more than one short message, separate the parts with " + BubbleDelimiter + " so they can be shown as individual bubbles. If the user expresses intent to harm themselves or others, begin your reply with " + CrisisMarker + " followed by your usual warm response."

// SystemInstruction assembles the persona, personalization from the profile,
// and any remembered facts into one system prompt.
func SystemInstruction(profile UserProfile, lang Lang, facts []MemoryFact, now time.Time) string {
	var b strings.Builder
	name := strings.TrimSpace(profile.Name)
	if name != "" {
		first := strings.SplitN(name, " ", 2)[0]
		fmt.Fprintf(&b, "You are speaking with %s. Address them by their name occasionally to build a strong, personal connection. ", first)
	}
	if age := profile.Age(now); age >= 0 {
		fmt.Fprintf(&b, "They are %d years old. ", age)
	}
	if lang == LangHindi {
		b.WriteString("The user prefers Hindi; default to Hindi unless they switch. ")
	}
	b.WriteString(basePersona)
	if len(facts) > 0 {
		b.WriteString("\n\nThings the user has asked you to remember:\n")
		for _, f := range facts {
			b.WriteString("- ")
			b.WriteString(f.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// TitlePrompt builds the summarization request for a session transcript. The
// greeting is excluded by the caller.
func TitlePrompt(messages []ChatMessage) (string, string) {
	var lines []string
	for _, m := range messages {
		who := "AI"
		if m.Sender == SenderUser {
			who = "User"
		}
		lines = append(lines, who+": "+m.Text)
	}
	conversation := strings.Join(lines, "\n")
	prompt := "Read the following chat between a user and an AI wellness companion. Create a short, gentle title (5 words max) that captures the core feeling or topic. Examples: \"Feeling Overwhelmed at Work,\" \"Reflecting on Friendship,\" \"A Moment of Sadness.\" Do not use quotation marks.\n\nConversation:\n" + conversation
	return prompt, conversation
}

// CrisisPrompt builds the safety classification request for one user message.
func CrisisPrompt(text string) string {
	return "Classify the following text from a wellness chat. Answer with exactly one word: CRISIS if it expresses intent of self-harm, suicide, or harming others, otherwise SAFE. Do not explain.\n\nText:\n" + text
}

// ResourcesPrompt asks for region-appropriate helplines as strict JSON.
func ResourcesPrompt(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		country = "India"
	}
	return "List up to four well-known, currently operating mental health helplines for " + country + ". Respond with ONLY a JSON array, no prose and no code fences, where each element is an object with these string fields: \"name\", \"description\", \"number\", and optionally \"website\". Keep descriptions under twelve words."
}

// SplitBubbles breaks a model reply on the bubble delimiter and drops empty
// segments. A reply with no delimiter yields one bubble.
func SplitBubbles(reply string) []string {
	parts := strings.Split(reply, BubbleDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StripCrisisMarker removes a leading crisis marker and reports whether it
// was present.
func StripCrisisMarker(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, CrisisMarker) {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, CrisisMarker)), true
	}
	return reply, false
}

// ModelHistory converts stored messages into model turns, excluding the
// synthetic greeting at position zero.
func ModelHistory(messages []ChatMessage) []Turn {
	if len(messages) <= 1 {
		return nil
	}
	turns := make([]Turn, 0, len(messages)-1)
	for _, m := range messages[1:] {
		role := "model"
		if m.Sender == SenderUser {
			role = "user"
		}
		turns = append(turns, Turn{Role: role, Text: m.Text})
	}
	return turns
}
