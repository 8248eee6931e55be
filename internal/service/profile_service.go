package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
)

var genders = map[string]bool{"male": true, "female": true}

type ProfileRequest struct {
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	Region          string `json:"region"`
	CulturalContext string `json:"cultural_context"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// Save creates the profile on first use and updates it afterwards.
	Save(ctx context.Context, userID, email string, req ProfileRequest) (*model.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

func (s *profileService) Save(ctx context.Context, userID, email string, req ProfileRequest) (*model.Profile, error) {
	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	if gender != "" && !genders[gender] {
		return nil, invalid("gender must be male or female")
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		profile = &model.Profile{ID: userID}
	case err != nil:
		return nil, err
	}

	if email != "" {
		profile.Email = email
	}
	profile.Name = strings.TrimSpace(req.Name)
	profile.Gender = gender
	profile.Region = strings.ToLower(strings.TrimSpace(req.Region))
	profile.CulturalContext = strings.ToLower(strings.TrimSpace(req.CulturalContext))

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
