package model

// Analysis is the structured output of the remote transcription pipeline
// for one recording.
type Analysis struct {
	Summary string      `json:"summary"`
	Blocker string      `json:"blocker"`
	Mood    string      `json:"mood"`
	Tasks   []MicroTask `json:"tasks"`
}

// ProcessResult is the full response of the transcriber for a processed
// recording, including the server's view of the caller's session budget.
type ProcessResult struct {
	Transcript         string   `json:"transcript"`
	Analysis           Analysis `json:"analysis"`
	SessionID          string   `json:"sessionId"`
	SessionsToday      int      `json:"sessionsToday"`
	MaxSessions        int      `json:"maxSessions"`
	IsInTrial          bool     `json:"isInTrial"`
	TrialDaysRemaining int      `json:"trialDaysRemaining"`
	IsPremium          bool     `json:"isPremium"`
}
