package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, database *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		CreatedAt: time.Now(),
	}
	require.NoError(t, NewUserRepository(database).Create(user))
	return user
}

func seedProfile(t *testing.T, database *sqlx.DB) *model.Profile {
	t.Helper()

	user := seedUser(t, database)
	start := time.Now()
	profile := &model.Profile{
		UserID:         user.ID,
		Name:           "Sam",
		TrialStartDate: &start,
	}
	require.NoError(t, NewProfileRepository(database).Create(profile))
	return profile
}

func TestProfileCreateAndGet(t *testing.T) {
	database := testDB(t)
	repo := NewProfileRepository(database)
	created := seedProfile(t, database)

	profile, err := repo.ByUserID(created.UserID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, profile.ID)
	assert.Equal(t, "Sam", profile.Name)
	assert.False(t, profile.IsPremium)
	assert.NotNil(t, profile.TrialStartDate)
	assert.Equal(t, 0, profile.DailySessionsCount)
	assert.Equal(t, "", profile.LastSessionDate)
}

func TestProfileNotFound(t *testing.T) {
	repo := NewProfileRepository(testDB(t))

	_, err := repo.ByUserID("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.ErrorIs(t, repo.UpdateName("nobody", "x"), ErrProfileNotFound)
	assert.ErrorIs(t, repo.SetPremium("nobody", true), ErrProfileNotFound)
	assert.ErrorIs(t, repo.UpdateSessionCount("nobody", 1, "2026-02-10"), ErrProfileNotFound)
}

func TestProfileUpdateSessionCount(t *testing.T) {
	database := testDB(t)
	repo := NewProfileRepository(database)
	created := seedProfile(t, database)

	require.NoError(t, repo.UpdateSessionCount(created.UserID, 4, "2026-02-10"))

	profile, err := repo.ByUserID(created.UserID)
	require.NoError(t, err)
	assert.Equal(t, 4, profile.DailySessionsCount)
	assert.Equal(t, "2026-02-10", profile.LastSessionDate, "count and date land together")
}

func TestProfileSetPremium(t *testing.T) {
	database := testDB(t)
	repo := NewProfileRepository(database)
	created := seedProfile(t, database)

	require.NoError(t, repo.SetPremium(created.UserID, true))

	profile, err := repo.ByUserID(created.UserID)
	require.NoError(t, err)
	assert.True(t, profile.IsPremium)
}

func TestUserDuplicateEmail(t *testing.T) {
	database := testDB(t)
	repo := NewUserRepository(database)
	user := seedUser(t, database)

	dup := &model.User{
		ID:        uuid.New().String(),
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	assert.ErrorIs(t, repo.Create(dup), ErrDuplicateEmail)
}

func TestUserByEmail(t *testing.T) {
	database := testDB(t)
	repo := NewUserRepository(database)
	user := seedUser(t, database)

	found, err := repo.ByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.ByID("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
