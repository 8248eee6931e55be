package repository

import (
	"context"

	"gorm.io/gorm"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/scoring"
)

// AssessmentRepository stores self-assessment snapshots. Snapshots are
// append-only.
type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, history *model.AssessmentHistory) error
	GetAssessment(ctx context.Context, id string) (*model.AssessmentHistory, error)
	// GetAssessments lists a user's snapshots, newest first. An empty type
	// matches every type; limit <= 0 means no limit.
	GetAssessments(ctx context.Context, userID string, t scoring.AssessmentType, limit int) ([]model.AssessmentHistory, error)
	// GetLatestAssessment returns the newest snapshot, or ErrNotFound.
	GetLatestAssessment(ctx context.Context, userID string, t scoring.AssessmentType) (*model.AssessmentHistory, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) CreateAssessment(ctx context.Context, history *model.AssessmentHistory) error {
	return translate(r.db.WithContext(ctx).Create(history).Error, "assessment history")
}

func (r *assessmentRepository) GetAssessment(ctx context.Context, id string) (*model.AssessmentHistory, error) {
	var history model.AssessmentHistory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&history).Error
	if err != nil {
		return nil, translate(err, "assessment history")
	}
	return &history, nil
}

func (r *assessmentRepository) GetAssessments(ctx context.Context, userID string, t scoring.AssessmentType, limit int) ([]model.AssessmentHistory, error) {
	var histories []model.AssessmentHistory
	err := r.byUserAndType(ctx, userID, t).Limit(limitOrAll(limit)).Find(&histories).Error
	return histories, translate(err, "assessment history")
}

func (r *assessmentRepository) GetLatestAssessment(ctx context.Context, userID string, t scoring.AssessmentType) (*model.AssessmentHistory, error) {
	var history model.AssessmentHistory
	err := r.byUserAndType(ctx, userID, t).First(&history).Error
	if err != nil {
		return nil, translate(err, "assessment history")
	}
	return &history, nil
}

func (r *assessmentRepository) byUserAndType(ctx context.Context, userID string, t scoring.AssessmentType) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if t != "" {
		q = q.Where("assessment_type = ?", t)
	}
	return q.Order("completed_at DESC")
}

// limitOrAll maps non-positive limits to gorm's "no limit".
func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
