package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/repository"
)

const (
	weeklyLastShownKeyPrefix = "weekly:last_shown:"
	weeklyHistoryKeyPrefix   = "weekly:history:"

	weeklyInterval = 7 * 24 * time.Hour
)

// SummaryService keeps the weekly-summary bookkeeping: when a summary was
// last shown and a bounded history of past summaries. It only reads the
// journal; it never mutates entries.
type SummaryService struct {
	kv      repository.KVRepository
	journal *JournalService
	now     func() time.Time
}

func NewSummaryService(kv repository.KVRepository, journal *JournalService) *SummaryService {
	return &SummaryService{
		kv:      kv,
		journal: journal,
		now:     time.Now,
	}
}

// ShouldShowWeeklySummary is true when no summary was ever shown or the
// last one is at least a week old. Unreadable bookkeeping counts as never
// shown.
func (s *SummaryService) ShouldShowWeeklySummary(userID string) bool {
	raw, err := s.kv.Get(weeklyLastShownKeyPrefix + userID)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			slog.Error("failed to read last shown timestamp", "error", err, "user_id", userID)
		}
		return true
	}

	lastShown, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		slog.Error("bad last shown timestamp, treating as never shown", "error", err, "user_id", userID)
		return true
	}

	return s.now().Sub(lastShown) >= weeklyInterval
}

// BuildWeeklySummary derives the digest for the trailing seven days from
// journal reads alone.
func (s *SummaryService) BuildWeeklySummary(userID string) *model.WeeklySummary {
	now := s.now()
	weekStart := now.AddDate(0, 0, -7)

	moods := map[string]int{}
	summary := &model.WeeklySummary{
		ID:        uuid.New().String(),
		WeekStart: weekStart,
		Streak:    s.journal.CalculateStreak(userID),
		CreatedAt: now,
	}

	for _, e := range s.journal.Entries(userID) {
		if e.Date.Before(weekStart) {
			// Entries are newest first; everything after this is older.
			break
		}
		summary.EntryCount++
		if e.Mood != "" {
			moods[e.Mood]++
		}
		for _, t := range e.Tasks {
			if t.Completed && t.CompletedAt != nil && !t.CompletedAt.Before(weekStart) {
				summary.TasksCompleted++
			}
		}
	}

	top := 0
	for mood, n := range moods {
		if n > top {
			top = n
			summary.TopMood = mood
		}
	}

	return summary
}

// MarkShown stamps the last-shown time and appends the summary to the
// bounded history, dropping the oldest past the cap.
func (s *SummaryService) MarkShown(userID string, summary *model.WeeklySummary) error {
	err := s.kv.Set(weeklyLastShownKeyPrefix+userID, s.now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record last shown: %w", err)
	}

	history := s.History(userID)
	history = append([]model.WeeklySummary{*summary}, history...)
	if len(history) > model.WeeklySummaryHistoryMax {
		history = history[:model.WeeklySummaryHistoryMax]
	}

	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to serialize summary history: %w", err)
	}

	err = s.kv.Set(weeklyHistoryKeyPrefix+userID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to persist summary history: %w", err)
	}

	return nil
}

// History returns past summaries newest first, empty on any read failure.
func (s *SummaryService) History(userID string) []model.WeeklySummary {
	raw, err := s.kv.Get(weeklyHistoryKeyPrefix + userID)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			slog.Error("failed to read summary history", "error", err, "user_id", userID)
		}
		return nil
	}

	var history []model.WeeklySummary
	err = json.Unmarshal([]byte(raw), &history)
	if err != nil {
		slog.Error("failed to parse summary history, treating as empty", "error", err, "user_id", userID)
		return nil
	}

	return history
}
