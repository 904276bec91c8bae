package model

import (
	"time"
)

// JournalEntry is one recorded and processed voice session. Entries are
// stored newest-first as a single JSON document per user, so the struct
// carries json tags rather than db tags.
type JournalEntry struct {
	ID         string      `json:"id"`
	Date       time.Time   `json:"date"`
	AudioURI   string      `json:"audioUri,omitempty"`
	Transcript string      `json:"transcript,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	Blocker    string      `json:"blocker,omitempty"`
	Mood       string      `json:"mood,omitempty"`
	Tasks      []MicroTask `json:"tasks,omitempty"`
	IsFavorite bool        `json:"isFavorite"`

	// Written by older client schema versions. Kept so legacy entries
	// round-trip through reads without loss.
	Insights string   `json:"insights,omitempty"`
	Actions  []string `json:"actions,omitempty"`
}

// MicroTask is one actionable item inside an entry. IDs are unique within
// the owning entry only. CompletedAt is set on the false->true transition
// and cleared on true->false.
type MicroTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Duration    int        `json:"duration"` // estimated minutes
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// EntryPatch is a shallow merge applied to an existing entry. Nil fields
// are left untouched.
type EntryPatch struct {
	AudioURI   *string      `json:"audioUri,omitempty"`
	Transcript *string      `json:"transcript,omitempty"`
	Summary    *string      `json:"summary,omitempty"`
	Blocker    *string      `json:"blocker,omitempty"`
	Mood       *string      `json:"mood,omitempty"`
	Tasks      *[]MicroTask `json:"tasks,omitempty"`
	IsFavorite *bool        `json:"isFavorite,omitempty"`
}

// TaskPatch updates the editable fields of a micro task.
type TaskPatch struct {
	Title    *string `json:"title,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

// PendingTask is a task flattened out of its entry for the tasks view.
type PendingTask struct {
	Task      MicroTask `json:"task"`
	EntryID   string    `json:"entryId"`
	EntryDate time.Time `json:"entryDate"`
}

// TaskStats aggregates task counts across all entries.
type TaskStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletedToday int `json:"completedToday"`
}
