package model

const (
	PlanTrial   = "trial"
	PlanPremium = "premium"
	PlanExpired = "expired"
)

const (
	// TrialDurationDays is the fixed trial window from first use.
	TrialDurationDays = 3

	// Trial and premium share the same per-day session cap.
	TrialSessionsPerDay   = 10
	PremiumSessionsPerDay = 10
)

// SessionLimits describes what a plan allows per day.
type SessionLimits struct {
	HasAccess      bool   `json:"hasAccess"`
	Plan           string `json:"plan"`
	SessionsPerDay int    `json:"sessionsPerDay"`
}

// SessionPermission is the access gate's answer to "can this user record
// another session right now". Denial is a normal outcome, not an error.
type SessionPermission struct {
	CanRecord          bool `json:"canRecord"`
	SessionsToday      int  `json:"sessionsToday"`
	MaxSessions        int  `json:"maxSessions"`
	IsInTrial          bool `json:"isInTrial"`
	TrialDaysRemaining int  `json:"trialDaysRemaining"`
	TrialExpired       bool `json:"trialExpired"`
}
