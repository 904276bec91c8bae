package service

import (
	"testing"
	"time"

	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", repository.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func newTestJournal(now time.Time) (*JournalService, *fakeKV) {
	kv := newFakeKV()
	svc := NewJournalService(kv)
	svc.now = func() time.Time { return now }
	return svc, kv
}

func TestSaveEntryPrependsNewest(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local)
	svc, _ := newTestJournal(now)

	first, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "first"})
	require.NoError(t, err)
	second, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "second"})
	require.NoError(t, err)

	require.NotEmpty(t, first.ID)
	assert.Equal(t, now, first.Date)

	entries := svc.Entries("u1")
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestUpdateEntryMergesPatch(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	entry, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "original", Mood: "tired"})
	require.NoError(t, err)

	mood := "focused"
	updated, err := svc.UpdateEntry("u1", entry.ID, model.EntryPatch{Mood: &mood})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "focused", updated.Mood)
	assert.Equal(t, "original", updated.Transcript, "unpatched fields stay")
}

func TestUpdateEntryUnknownID(t *testing.T) {
	svc, kv := newTestJournal(time.Now())

	_, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "keep"})
	require.NoError(t, err)
	before := kv.data[journalKey("u1")]

	mood := "calm"
	updated, err := svc.UpdateEntry("u1", "nope", model.EntryPatch{Mood: &mood})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, before, kv.data[journalKey("u1")], "store untouched on miss")
}

func TestDeleteEntryPreservesOrder(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	a, _ := svc.SaveEntry("u1", model.JournalEntry{Transcript: "a"})
	b, _ := svc.SaveEntry("u1", model.JournalEntry{Transcript: "b"})
	c, _ := svc.SaveEntry("u1", model.JournalEntry{Transcript: "c"})

	removed, err := svc.DeleteEntry("u1", b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, svc.Entry("u1", b.ID))

	entries := svc.Entries("u1")
	require.Len(t, entries, 2)
	assert.Equal(t, c.ID, entries[0].ID)
	assert.Equal(t, a.ID, entries[1].ID)

	removed, err = svc.DeleteEntry("u1", "nope")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClearAllEntries(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	_, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "gone"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearAllEntries("u1"))
	assert.Empty(t, svc.Entries("u1"))
	assert.Equal(t, 0, svc.EntryCount("u1"))
}

func TestLatestEntry(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	assert.Nil(t, svc.LatestEntry("u1"))

	_, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "older"})
	require.NoError(t, err)
	newest, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "newest"})
	require.NoError(t, err)

	latest := svc.LatestEntry("u1")
	require.NotNil(t, latest)
	assert.Equal(t, newest.ID, latest.ID)
}

func TestToggleTaskComplete(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local)
	svc, _ := newTestJournal(now)

	entry, err := svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{{ID: "t1", Title: "stretch", Duration: 5}},
	})
	require.NoError(t, err)

	updated, err := svc.ToggleTaskComplete("u1", entry.ID, "t1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.True(t, updated.Tasks[0].Completed)
	require.NotNil(t, updated.Tasks[0].CompletedAt)
	assert.Equal(t, now, *updated.Tasks[0].CompletedAt)

	updated, err = svc.ToggleTaskComplete("u1", entry.ID, "t1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.Tasks[0].Completed)
	assert.Nil(t, updated.Tasks[0].CompletedAt, "timestamp cleared on un-complete")
}

func TestToggleTaskUnknownIDs(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	entry, err := svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{{ID: "t1", Title: "stretch"}},
	})
	require.NoError(t, err)

	updated, err := svc.ToggleTaskComplete("u1", "nope", "t1")
	require.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = svc.ToggleTaskComplete("u1", entry.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestAddAndRemoveTask(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	entry, err := svc.SaveEntry("u1", model.JournalEntry{})
	require.NoError(t, err)

	updated, err := svc.AddTaskToEntry("u1", entry.ID, "walk", 10)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Len(t, updated.Tasks, 1)
	assert.Equal(t, "walk", updated.Tasks[0].Title)
	assert.Equal(t, 10, updated.Tasks[0].Duration)
	assert.NotEmpty(t, updated.Tasks[0].ID)

	updated, err = svc.RemoveTaskFromEntry("u1", entry.ID, updated.Tasks[0].ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, updated.Tasks)

	updated, err = svc.RemoveTaskFromEntry("u1", entry.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateTask(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	entry, err := svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{{ID: "t1", Title: "old", Duration: 5}},
	})
	require.NoError(t, err)

	title := "new"
	updated, err := svc.UpdateTask("u1", entry.ID, "t1", model.TaskPatch{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Tasks[0].Title)
	assert.Equal(t, 5, updated.Tasks[0].Duration, "nil fields untouched")
}

func TestAllPendingTasks(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	older, err := svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{
			{ID: "a1", Title: "done", Completed: true},
			{ID: "a2", Title: "pending old"},
		},
	})
	require.NoError(t, err)
	newer, err := svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{{ID: "b1", Title: "pending new"}},
	})
	require.NoError(t, err)

	pending := svc.AllPendingTasks("u1")
	require.Len(t, pending, 2)
	assert.Equal(t, "b1", pending[0].Task.ID)
	assert.Equal(t, newer.ID, pending[0].EntryID)
	assert.Equal(t, "a2", pending[1].Task.ID)
	assert.Equal(t, older.ID, pending[1].EntryID)
}

func TestTaskStats(t *testing.T) {
	now := time.Date(2026, 2, 10, 18, 0, 0, 0, time.Local)
	svc, _ := newTestJournal(now)

	today := now.Add(-2 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)

	// Legacy entry without tasks contributes zero.
	_, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "legacy"})
	require.NoError(t, err)
	_, err = svc.SaveEntry("u1", model.JournalEntry{
		Tasks: []model.MicroTask{
			{ID: "t1", Completed: true, CompletedAt: &today},
			{ID: "t2", Completed: true, CompletedAt: &yesterday},
			{ID: "t3"},
		},
	})
	require.NoError(t, err)

	stats := svc.TaskStats("u1")
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.CompletedToday)
}

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2026, 2, 10, 20, 0, 0, 0, time.Local)

	entryOn := func(daysAgo int) model.JournalEntry {
		return model.JournalEntry{Date: now.AddDate(0, 0, -daysAgo)}
	}

	tests := []struct {
		name    string
		daysAgo []int
		want    int
	}{
		{"empty journal", nil, 0},
		{"today only", []int{0}, 1},
		{"three consecutive days", []int{0, 1, 2}, 3},
		{"no entry today does not break", []int{1, 2}, 2},
		{"gap after today breaks", []int{0, 2, 3}, 1},
		{"gap after yesterday breaks", []int{1, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestJournal(now)
			var entries []model.JournalEntry
			for _, d := range tt.daysAgo {
				entries = append(entries, entryOn(d))
			}
			if entries != nil {
				require.NoError(t, svc.persist("u1", entries))
			}

			assert.Equal(t, tt.want, svc.CalculateStreak("u1"))
		})
	}
}

func TestToggleFavoriteAndFavorites(t *testing.T) {
	svc, _ := newTestJournal(time.Now())

	entry, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "keep this"})
	require.NoError(t, err)
	_, err = svc.SaveEntry("u1", model.JournalEntry{Transcript: "meh"})
	require.NoError(t, err)

	updated, err := svc.ToggleFavorite("u1", entry.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.IsFavorite)

	favorites := svc.FavoriteEntries("u1")
	require.Len(t, favorites, 1)
	assert.Equal(t, entry.ID, favorites[0].ID)
	assert.Equal(t, 1, svc.FavoriteCount("u1"))

	updated, err = svc.ToggleFavorite("u1", entry.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsFavorite)
	assert.Equal(t, 0, svc.FavoriteCount("u1"))
}

func TestCorruptJournalReadsEmpty(t *testing.T) {
	svc, kv := newTestJournal(time.Now())
	kv.data[journalKey("u1")] = "{not json"

	assert.Empty(t, svc.Entries("u1"))
	assert.Equal(t, 0, svc.CalculateStreak("u1"))

	// Writes start over from the empty view.
	entry, err := svc.SaveEntry("u1", model.JournalEntry{Transcript: "fresh"})
	require.NoError(t, err)

	entries := svc.Entries("u1")
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}
