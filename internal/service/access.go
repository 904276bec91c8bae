package service

import (
	"fmt"
	"time"

	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/repository"
)

// AccessService decides whether a user may start a new recording session
// and maintains the per-day counter that enforces the decision. The check
// and the increment are separate calls, so two rapid attempts can both
// pass the check; the transcriber enforces the real limit server-side and
// this gate is an optimistic pre-check only.
type AccessService struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

func NewAccessService(profiles repository.ProfileRepository) *AccessService {
	return &AccessService{
		profiles: profiles,
		now:      time.Now,
	}
}

// CanRecordSession evaluates the gate for the user. An expired trial is a
// hard stop with a zero cap; otherwise trial and premium share the same
// per-day cap and only the rollover-aware counter decides.
func (s *AccessService) CanRecordSession(userID string) (*model.SessionPermission, error) {
	profile, err := s.profiles.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	perm := &model.SessionPermission{
		IsInTrial:          s.IsInTrialPeriod(profile),
		TrialDaysRemaining: s.RemainingTrialDays(profile),
	}

	if !profile.IsPremium && s.trialExpired(profile) {
		perm.TrialExpired = true
		return perm, nil
	}

	perm.MaxSessions = model.PremiumSessionsPerDay
	perm.SessionsToday = s.sessionsToday(profile)
	perm.CanRecord = perm.SessionsToday < perm.MaxSessions

	return perm, nil
}

// IncrementSessionCount re-derives today's usage rollover-aware, adds one
// and persists count and date together. Called after a session is
// accepted, not transactionally linked to the preceding check.
func (s *AccessService) IncrementSessionCount(userID string) error {
	profile, err := s.profiles.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	count := s.sessionsToday(profile) + 1

	err = s.profiles.UpdateSessionCount(userID, count, localDay(s.now()))
	if err != nil {
		return fmt.Errorf("failed to update session count: %w", err)
	}

	return nil
}

// IsInTrialPeriod reports whether the trial has started and fewer than
// the full trial duration of whole days have elapsed. Premium users are
// never "in trial".
func (s *AccessService) IsInTrialPeriod(profile *model.Profile) bool {
	if profile.IsPremium || !profile.HasStartedTrial() {
		return false
	}
	return s.elapsedTrialDays(profile) < model.TrialDurationDays
}

// RemainingTrialDays returns whole days of trial left; the full duration
// when the trial has not started yet.
func (s *AccessService) RemainingTrialDays(profile *model.Profile) int {
	if !profile.HasStartedTrial() {
		return model.TrialDurationDays
	}

	remaining := model.TrialDurationDays - s.elapsedTrialDays(profile)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SessionLimits derives the plan's daily allowance: premium and active
// trial both get the shared cap, an expired trial gets nothing.
func (s *AccessService) SessionLimits(profile *model.Profile) model.SessionLimits {
	if profile.IsPremium {
		return model.SessionLimits{HasAccess: true, Plan: model.PlanPremium, SessionsPerDay: model.PremiumSessionsPerDay}
	}
	if s.IsInTrialPeriod(profile) {
		return model.SessionLimits{HasAccess: true, Plan: model.PlanTrial, SessionsPerDay: model.TrialSessionsPerDay}
	}
	return model.SessionLimits{HasAccess: false, Plan: model.PlanExpired, SessionsPerDay: 0}
}

func (s *AccessService) HasReachedDailyLimit(profile *model.Profile) bool {
	limits := s.SessionLimits(profile)
	if !limits.HasAccess {
		return true
	}
	return s.sessionsToday(profile) >= limits.SessionsPerDay
}

func (s *AccessService) trialExpired(profile *model.Profile) bool {
	if !profile.HasStartedTrial() {
		return false
	}
	return s.elapsedTrialDays(profile) >= model.TrialDurationDays
}

func (s *AccessService) elapsedTrialDays(profile *model.Profile) int {
	return int(s.now().Sub(*profile.TrialStartDate).Hours() / 24)
}

// sessionsToday applies the day rollover: the stored counter only counts
// when its date stamp is today, otherwise usage is zero and the next
// increment re-stamps the date.
func (s *AccessService) sessionsToday(profile *model.Profile) int {
	if profile.LastSessionDate == localDay(s.now()) {
		return profile.DailySessionsCount
	}
	return 0
}
