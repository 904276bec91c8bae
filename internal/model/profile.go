package model

import "time"

// Profile carries the per-user gating state consulted by the access gate.
// DailySessionsCount is only meaningful while LastSessionDate equals the
// current local date; after a day rollover it counts as zero.
type Profile struct {
	ID                 string     `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"userId"`
	Name               string     `db:"name" json:"name"`
	IsPremium          bool       `db:"is_premium" json:"isPremium"`
	TrialStartDate     *time.Time `db:"trial_start_date" json:"trialStartDate,omitempty"`
	DailySessionsCount int        `db:"daily_sessions_count" json:"dailySessionsCount"`
	LastSessionDate    string     `db:"last_session_date" json:"lastSessionDate"` // local YYYY-MM-DD
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

func (p *Profile) HasStartedTrial() bool {
	return p.TrialStartDate != nil
}
