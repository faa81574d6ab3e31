package app

import (
	"context"
	"strings"
)

// onliner is implemented by model clients that can report reachability.
type onliner interface {
	Online() bool
}

// CrisisDetector classifies user messages for acute distress. Detection is
// advisory only: it is skipped entirely when the profile has no emergency
// contacts (there is nobody to surface) and when the backend is unreachable,
// and any error degrades to SAFE.
type CrisisDetector struct {
	Model   Completer
	Profile UserProfile
}

func NewCrisisDetector(model Completer, profile UserProfile) *CrisisDetector {
	return &CrisisDetector{Model: model, Profile: profile}
}

func (d *CrisisDetector) Check(ctx context.Context, text string) (bool, error) {
	if len(d.Profile.EmergencyContacts) == 0 {
		return false, nil
	}
	if o, ok := d.Model.(onliner); ok && !o.Online() {
		return false, nil
	}
	reply, err := d.Model.Complete(ctx, "", nil, CrisisPrompt(text))
	if err != nil {
		return false, nil
	}
	verdict := strings.ToUpper(strings.TrimSpace(reply))
	return strings.HasPrefix(verdict, "CRISIS"), nil
}
