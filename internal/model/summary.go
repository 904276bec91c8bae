package model

import "time"

// WeeklySummaryHistoryMax bounds the stored summary history per user.
// Oldest summaries are dropped once the bound is hit.
const WeeklySummaryHistoryMax = 12

// WeeklySummary is a digest of the last seven days of journaling,
// derived entirely from journal store reads.
type WeeklySummary struct {
	ID             string    `json:"id"`
	WeekStart      time.Time `json:"weekStart"`
	EntryCount     int       `json:"entryCount"`
	Streak         int       `json:"streak"`
	TopMood        string    `json:"topMood,omitempty"`
	TasksCompleted int       `json:"tasksCompleted"`
	CreatedAt      time.Time `json:"createdAt"`
}
