package repository

import (
	"context"

	"gorm.io/gorm"

	"lovemirror-backend/internal/model"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	SaveProfile(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, translate(err, "profile")
	}
	return &profile, nil
}

// SaveProfile inserts or updates by primary key.
func (r *profileRepository) SaveProfile(ctx context.Context, profile *model.Profile) error {
	return translate(r.db.WithContext(ctx).Save(profile).Error, "profile")
}
