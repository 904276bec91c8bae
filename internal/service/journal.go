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

const journalKeyPrefix = "journal:"

// streakLookbackDays caps how far back the streak walk goes.
const streakLookbackDays = 365

// JournalService owns the durable, ordered collection of journal entries.
// Each user's entries live under a single key as one JSON document, and
// every mutation is a read-modify-write of the whole document. Reads
// degrade to empty on storage or parse failure so summary views never
// crash on bad local data; writes propagate failures to the caller.
type JournalService struct {
	kv  repository.KVRepository
	now func() time.Time
}

func NewJournalService(kv repository.KVRepository) *JournalService {
	return &JournalService{
		kv:  kv,
		now: time.Now,
	}
}

func journalKey(userID string) string {
	return journalKeyPrefix + userID
}

// loadEntries is the single internal read path. Missing key means an empty
// journal; any other failure is surfaced so the caller decides the policy.
func (s *JournalService) loadEntries(userID string) ([]model.JournalEntry, error) {
	raw, err := s.kv.Get(journalKey(userID))
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var entries []model.JournalEntry
	err = json.Unmarshal([]byte(raw), &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}

	return entries, nil
}

// entriesOrEmpty collapses read failures to an empty collection. This is
// the only place where the degrade-on-read policy is applied.
func (s *JournalService) entriesOrEmpty(userID string) []model.JournalEntry {
	entries, err := s.loadEntries(userID)
	if err != nil {
		slog.Error("journal read failed, treating as empty", "error", err, "user_id", userID)
		return nil
	}
	return entries
}

func (s *JournalService) persist(userID string, entries []model.JournalEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize journal: %w", err)
	}

	err = s.kv.Set(journalKey(userID), string(raw))
	if err != nil {
		return fmt.Errorf("failed to persist journal: %w", err)
	}

	return nil
}

// SaveEntry assigns a fresh id and timestamp, prepends the entry and
// persists the collection. The stored entry is returned.
func (s *JournalService) SaveEntry(userID string, data model.JournalEntry) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	entry := data
	entry.ID = uuid.New().String()
	entry.Date = s.now()

	entries = append([]model.JournalEntry{entry}, entries...)

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpdateEntry shallow-merges the patch into the entry. Returns nil when no
// entry with that id exists; the stored collection is left untouched.
func (s *JournalService) UpdateEntry(userID, entryID string, patch model.EntryPatch) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}

	e := &entries[i]
	if patch.AudioURI != nil {
		e.AudioURI = *patch.AudioURI
	}
	if patch.Transcript != nil {
		e.Transcript = *patch.Transcript
	}
	if patch.Summary != nil {
		e.Summary = *patch.Summary
	}
	if patch.Blocker != nil {
		e.Blocker = *patch.Blocker
	}
	if patch.Mood != nil {
		e.Mood = *patch.Mood
	}
	if patch.Tasks != nil {
		e.Tasks = *patch.Tasks
	}
	if patch.IsFavorite != nil {
		e.IsFavorite = *patch.IsFavorite
	}

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

// Entries returns the whole collection, newest first. Never fails; an
// unreadable store reads as empty.
func (s *JournalService) Entries(userID string) []model.JournalEntry {
	return s.entriesOrEmpty(userID)
}

func (s *JournalService) Entry(userID, entryID string) *model.JournalEntry {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil
	}

	entry := entries[i]
	return &entry
}

// DeleteEntry removes the entry by rewriting the collection without it.
// Reports whether an entry was removed.
func (s *JournalService) DeleteEntry(userID, entryID string) (bool, error) {
	entries := s.entriesOrEmpty(userID)

	filtered := make([]model.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != entryID {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) == len(entries) {
		return false, nil
	}

	err := s.persist(userID, filtered)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *JournalService) EntryCount(userID string) int {
	return len(s.entriesOrEmpty(userID))
}

func (s *JournalService) ClearAllEntries(userID string) error {
	err := s.kv.Delete(journalKey(userID))
	if err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}

func (s *JournalService) LatestEntry(userID string) *model.JournalEntry {
	entries := s.entriesOrEmpty(userID)
	if len(entries) == 0 {
		return nil
	}

	entry := entries[0]
	return &entry
}

// ToggleTaskComplete flips a task's completed flag, stamping CompletedAt
// on false->true and clearing it on true->false. The whole collection is
// rewritten so the toggle is atomic against the stored document. Returns
// nil when either id is unknown.
func (s *JournalService) ToggleTaskComplete(userID, entryID, taskID string) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}

	j := indexOfTask(entries[i].Tasks, taskID)
	if j < 0 {
		return nil, nil
	}

	task := &entries[i].Tasks[j]
	task.Completed = !task.Completed
	if task.Completed {
		now := s.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

// AddTaskToEntry appends a new task to the entry. Returns nil when the
// entry is unknown.
func (s *JournalService) AddTaskToEntry(userID, entryID, title string, duration int) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}

	entries[i].Tasks = append(entries[i].Tasks, model.MicroTask{
		ID:       uuid.New().String(),
		Title:    title,
		Duration: duration,
	})

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

// RemoveTaskFromEntry drops the task from the entry. Returns nil when
// either id is unknown; the stored collection is left unmodified.
func (s *JournalService) RemoveTaskFromEntry(userID, entryID, taskID string) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}
	if indexOfTask(entries[i].Tasks, taskID) < 0 {
		return nil, nil
	}

	tasks := make([]model.MicroTask, 0, len(entries[i].Tasks)-1)
	for _, t := range entries[i].Tasks {
		if t.ID != taskID {
			tasks = append(tasks, t)
		}
	}
	entries[i].Tasks = tasks

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

// UpdateTask patches a task's title and duration. Completion state is
// only changed through ToggleTaskComplete. Returns nil when either id is
// unknown.
func (s *JournalService) UpdateTask(userID, entryID, taskID string, patch model.TaskPatch) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}

	j := indexOfTask(entries[i].Tasks, taskID)
	if j < 0 {
		return nil, nil
	}

	task := &entries[i].Tasks[j]
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Duration != nil {
		task.Duration = *patch.Duration
	}

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

// AllPendingTasks flattens every incomplete task across all entries,
// entries newest first, tasks in entry order.
func (s *JournalService) AllPendingTasks(userID string) []model.PendingTask {
	var pending []model.PendingTask
	for _, e := range s.entriesOrEmpty(userID) {
		for _, t := range e.Tasks {
			if !t.Completed {
				pending = append(pending, model.PendingTask{
					Task:      t,
					EntryID:   e.ID,
					EntryDate: e.Date,
				})
			}
		}
	}
	return pending
}

// TaskStats aggregates counts over every task in the journal. Entries
// without tasks (legacy schema) contribute zero.
func (s *JournalService) TaskStats(userID string) model.TaskStats {
	var stats model.TaskStats
	today := localDay(s.now())

	for _, e := range s.entriesOrEmpty(userID) {
		for _, t := range e.Tasks {
			stats.Total++
			if t.Completed {
				stats.Completed++
				if t.CompletedAt != nil && localDay(*t.CompletedAt) == today {
					stats.CompletedToday++
				}
			}
		}
	}

	stats.Pending = stats.Total - stats.Completed
	return stats
}

// CalculateStreak counts consecutive calendar days with at least one
// entry, walking backward from today. A miss on today itself does not
// break the walk (and does not count); any later gap ends it. Looks back
// at most a year.
func (s *JournalService) CalculateStreak(userID string) int {
	entries := s.entriesOrEmpty(userID)
	if len(entries) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[localDay(e.Date)] = struct{}{}
	}

	streak := 0
	now := s.now()
	for i := 0; i < streakLookbackDays; i++ {
		day := localDay(now.AddDate(0, 0, -i))
		if _, ok := days[day]; ok {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}

	return streak
}

// ToggleFavorite flips the favorite flag. Returns nil when the entry is
// unknown.
func (s *JournalService) ToggleFavorite(userID, entryID string) (*model.JournalEntry, error) {
	entries := s.entriesOrEmpty(userID)

	i := indexOfEntry(entries, entryID)
	if i < 0 {
		return nil, nil
	}

	entries[i].IsFavorite = !entries[i].IsFavorite

	err := s.persist(userID, entries)
	if err != nil {
		return nil, err
	}

	updated := entries[i]
	return &updated, nil
}

func (s *JournalService) FavoriteEntries(userID string) []model.JournalEntry {
	var favorites []model.JournalEntry
	for _, e := range s.entriesOrEmpty(userID) {
		if e.IsFavorite {
			favorites = append(favorites, e)
		}
	}
	return favorites
}

func (s *JournalService) FavoriteCount(userID string) int {
	return len(s.FavoriteEntries(userID))
}

func indexOfEntry(entries []model.JournalEntry, entryID string) int {
	for i := range entries {
		if entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

func indexOfTask(tasks []model.MicroTask, taskID string) int {
	for i := range tasks {
		if tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// localDay normalizes a timestamp to its local calendar date.
func localDay(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
