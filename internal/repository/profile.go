package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/murmurlabs/murmur/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	UpdateName(userID, name string) error
	SetPremium(userID string, premium bool) error
	// UpdateSessionCount persists the rolling counter and the date it
	// applies to as a single statement, so the pair never drifts apart.
	UpdateSessionCount(userID string, count int, date string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, is_premium, trial_start_date, daily_sessions_count, last_session_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, profile.ID, profile.UserID, profile.Name, profile.IsPremium, profile.TrialStartDate,
		profile.DailySessionsCount, profile.LastSessionDate, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) UpdateName(userID, name string) error {
	return r.update(userID, `UPDATE profiles SET name = $1, updated_at = $2 WHERE user_id = $3`, name, time.Now(), userID)
}

func (r *profileRepository) SetPremium(userID string, premium bool) error {
	return r.update(userID, `UPDATE profiles SET is_premium = $1, updated_at = $2 WHERE user_id = $3`, premium, time.Now(), userID)
}

func (r *profileRepository) UpdateSessionCount(userID string, count int, date string) error {
	return r.update(userID, `
		UPDATE profiles
		SET daily_sessions_count = $1, last_session_date = $2, updated_at = $3
		WHERE user_id = $4
	`, count, date, time.Now(), userID)
}

func (r *profileRepository) update(userID, query string, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
