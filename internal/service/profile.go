package service

import (
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/repository"
)

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.repo.ByUserID(userID)
}

func (s *ProfileService) UpdateName(userID, name string) error {
	return s.repo.UpdateName(userID, name)
}

// SetPremium applies the boolean outcome of the payment flow. The payment
// provider integration itself lives outside this service.
func (s *ProfileService) SetPremium(userID string, premium bool) error {
	return s.repo.SetPremium(userID, premium)
}
