package app

import (
	"context"
	"encoding/json"
	"strings"
)

// Helpline is one crisis support line shown on the resources screen and in
// the crisis modal.
type Helpline struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Number      string `json:"number"`
	Website     string `json:"website,omitempty"`
}

// DefaultHelplines is the static, India-focused set that always works
// offline.
func DefaultHelplines(lang Lang) []Helpline {
	return []Helpline{
		{Name: T(lang, "helplineKiran"), Description: T(lang, "helplineKiranDesc"), Number: "1800-599-0019"},
		{Name: T(lang, "helplineVandrevala"), Description: T(lang, "helplineVandrevalaDesc"), Number: "+91-9999-666-555"},
		{Name: T(lang, "helplineAasra"), Description: T(lang, "helplineAasraDesc"), Number: "+91-98204-66726"},
		{Name: T(lang, "helplineIcall"), Description: T(lang, "helplineIcallDesc"), Number: "+91-9152987821"},
	}
}

// LookupHelplines asks the model for helplines matching the user's country.
// Any failure, malformed JSON included, falls back to the static set.
func LookupHelplines(ctx context.Context, model Completer, country string, lang Lang) []Helpline {
	fallback := DefaultHelplines(lang)
	if model == nil {
		return fallback
	}
	if o, ok := model.(onliner); ok && !o.Online() {
		return fallback
	}
	reply, err := model.Complete(ctx, "", nil, ResourcesPrompt(country))
	if err != nil {
		return fallback
	}
	lines, ok := parseHelplines(reply)
	if !ok {
		return fallback
	}
	return lines
}

// parseHelplines extracts a JSON array from the reply, tolerating prose or
// code fences around it.
func parseHelplines(reply string) ([]Helpline, bool) {
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start < 0 || end <= start {
		return nil, false
	}
	var lines []Helpline
	if err := json.Unmarshal([]byte(reply[start:end+1]), &lines); err != nil {
		return nil, false
	}
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Number) == "" {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == 0 {
		return nil, false
	}
	if len(kept) > 4 {
		kept = kept[:4]
	}
	return kept, true
}
