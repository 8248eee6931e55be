package repository

import (
	"context"

	"gorm.io/gorm"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/scoring"
)

type AssessorRepository interface {
	CreateAssessor(ctx context.Context, assessor *model.ExternalAssessor) error
	GetAssessor(ctx context.Context, id string) (*model.ExternalAssessor, error)
	GetAssessorByCode(ctx context.Context, code string) (*model.ExternalAssessor, error)
	GetAssessorsByUser(ctx context.Context, userID string) ([]model.ExternalAssessor, error)
	UpdateAssessor(ctx context.Context, assessor *model.ExternalAssessor) error
	// CompleteAssessor closes a pending invitation and stores the rater's
	// result in one transaction. ErrConflict means the invitation was no
	// longer pending.
	CompleteAssessor(ctx context.Context, assessor *model.ExternalAssessor, result *model.ExternalAssessmentResult) error
	DeleteAssessor(ctx context.Context, id string) error
}

type assessorRepository struct {
	db *gorm.DB
}

func NewAssessorRepository(db *gorm.DB) AssessorRepository {
	return &assessorRepository{db: db}
}

func (r *assessorRepository) CreateAssessor(ctx context.Context, assessor *model.ExternalAssessor) error {
	return translate(r.db.WithContext(ctx).Create(assessor).Error, "external assessor")
}

func (r *assessorRepository) GetAssessor(ctx context.Context, id string) (*model.ExternalAssessor, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *assessorRepository) GetAssessorByCode(ctx context.Context, code string) (*model.ExternalAssessor, error) {
	return r.first(ctx, "invitation_code = ?", code)
}

func (r *assessorRepository) GetAssessorsByUser(ctx context.Context, userID string) ([]model.ExternalAssessor, error) {
	var assessors []model.ExternalAssessor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&assessors).Error
	return assessors, translate(err, "external assessors")
}

func (r *assessorRepository) UpdateAssessor(ctx context.Context, assessor *model.ExternalAssessor) error {
	return translate(r.db.WithContext(ctx).Save(assessor).Error, "external assessor")
}

func (r *assessorRepository) CompleteAssessor(ctx context.Context, assessor *model.ExternalAssessor, result *model.ExternalAssessmentResult) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ExternalAssessor{}).
			Where("id = ? AND status = ?", assessor.ID, model.AssessorPending).
			Updates(map[string]interface{}{
				"status":       model.AssessorCompleted,
				"completed_at": assessor.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrConflict
		}
		return tx.Create(result).Error
	})
	if err != nil {
		return translate(err, "external assessor")
	}
	assessor.Status = model.AssessorCompleted
	return nil
}

func (r *assessorRepository) DeleteAssessor(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ExternalAssessor{})
	if res.Error != nil {
		return translate(res.Error, "external assessor")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "external assessor")
	}
	return nil
}

func (r *assessorRepository) first(ctx context.Context, query string, arg interface{}) (*model.ExternalAssessor, error) {
	var assessor model.ExternalAssessor
	if err := r.db.WithContext(ctx).Where(query, arg).First(&assessor).Error; err != nil {
		return nil, translate(err, "external assessor")
	}
	return &assessor, nil
}

// ExternalResultRepository stores what raters submitted.
type ExternalResultRepository interface {
	CreateResult(ctx context.Context, result *model.ExternalAssessmentResult) error
	// GetResultsByUser lists results about a user, oldest first. An empty
	// type matches every type.
	GetResultsByUser(ctx context.Context, userID string, t scoring.AssessmentType) ([]model.ExternalAssessmentResult, error)
	UpdateGaps(ctx context.Context, ids []string, overall float64, gaps model.CategoryGaps) error
}

type externalResultRepository struct {
	db *gorm.DB
}

func NewExternalResultRepository(db *gorm.DB) ExternalResultRepository {
	return &externalResultRepository{db: db}
}

func (r *externalResultRepository) CreateResult(ctx context.Context, result *model.ExternalAssessmentResult) error {
	return translate(r.db.WithContext(ctx).Create(result).Error, "external result")
}

func (r *externalResultRepository) GetResultsByUser(ctx context.Context, userID string, t scoring.AssessmentType) ([]model.ExternalAssessmentResult, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if t != "" {
		q = q.Where("assessment_type = ?", t)
	}
	var results []model.ExternalAssessmentResult
	err := q.Order("created_at ASC").Find(&results).Error
	return results, translate(err, "external results")
}

func (r *externalResultRepository) UpdateGaps(ctx context.Context, ids []string, overall float64, gaps model.CategoryGaps) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.ExternalAssessmentResult{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"delusional_score": overall,
			"category_gaps":    gaps,
		}).Error
	return translate(err, "external results")
}
