package repository

import (
	"context"

	"gorm.io/gorm"

	"lovemirror-backend/internal/model"
)

type RelationshipRepository interface {
	CreateInvitation(ctx context.Context, invitation *model.PartnerInvitation) error
	GetInvitationByCode(ctx context.Context, code string) (*model.PartnerInvitation, error)
	// GetPendingInvitations lists a sender's pending invitations, newest first.
	GetPendingInvitations(ctx context.Context, senderID string) ([]model.PartnerInvitation, error)
	UpdateInvitation(ctx context.Context, invitation *model.PartnerInvitation) error

	// AcceptInvitation marks a pending invitation accepted and creates the
	// relationship in one transaction. ErrConflict means the invitation was
	// no longer pending.
	AcceptInvitation(ctx context.Context, invitation *model.PartnerInvitation, relationship *model.Relationship) error
	GetRelationship(ctx context.Context, id string) (*model.Relationship, error)
	GetRelationshipsByUser(ctx context.Context, userID string) ([]model.Relationship, error)
	// GetActiveRelationshipBetween returns ErrNotFound when the two users
	// have no active relationship in either direction.
	GetActiveRelationshipBetween(ctx context.Context, userA, userB string) (*model.Relationship, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) CreateInvitation(ctx context.Context, invitation *model.PartnerInvitation) error {
	return translate(r.db.WithContext(ctx).Create(invitation).Error, "partner invitation")
}

func (r *relationshipRepository) GetInvitationByCode(ctx context.Context, code string) (*model.PartnerInvitation, error) {
	var invitation model.PartnerInvitation
	err := r.db.WithContext(ctx).Where("invitation_code = ?", code).First(&invitation).Error
	if err != nil {
		return nil, translate(err, "partner invitation")
	}
	return &invitation, nil
}

func (r *relationshipRepository) GetPendingInvitations(ctx context.Context, senderID string) ([]model.PartnerInvitation, error) {
	var invitations []model.PartnerInvitation
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", senderID, model.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, translate(err, "partner invitations")
}

func (r *relationshipRepository) UpdateInvitation(ctx context.Context, invitation *model.PartnerInvitation) error {
	return translate(r.db.WithContext(ctx).Save(invitation).Error, "partner invitation")
}

func (r *relationshipRepository) AcceptInvitation(ctx context.Context, invitation *model.PartnerInvitation, relationship *model.Relationship) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PartnerInvitation{}).
			Where("id = ? AND status = ?", invitation.ID, model.InvitationPending).
			Update("status", invitation.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrConflict
		}
		return tx.Create(relationship).Error
	})
	return translate(err, "relationship")
}

func (r *relationshipRepository) GetRelationship(ctx context.Context, id string) (*model.Relationship, error) {
	var relationship model.Relationship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&relationship).Error
	if err != nil {
		return nil, translate(err, "relationship")
	}
	return &relationship, nil
}

func (r *relationshipRepository) GetRelationshipsByUser(ctx context.Context, userID string) ([]model.Relationship, error) {
	var relationships []model.Relationship
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&relationships).Error
	return relationships, translate(err, "relationships")
}

func (r *relationshipRepository) GetActiveRelationshipBetween(ctx context.Context, userA, userB string) (*model.Relationship, error) {
	var relationship model.Relationship
	err := r.db.WithContext(ctx).
		Where("status = ?", model.RelationshipActive).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)", userA, userB, userB, userA).
		First(&relationship).Error
	if err != nil {
		return nil, translate(err, "relationship")
	}
	return &relationship, nil
}

type CompatibilityRepository interface {
	CreateCompatibility(ctx context.Context, score *model.CompatibilityScore) error
	GetLatestCompatibility(ctx context.Context, relationshipID string) (*model.CompatibilityScore, error)
	// GetCompatibilities lists every snapshot of a relationship, oldest first.
	GetCompatibilities(ctx context.Context, relationshipID string) ([]model.CompatibilityScore, error)
}

type compatibilityRepository struct {
	db *gorm.DB
}

func NewCompatibilityRepository(db *gorm.DB) CompatibilityRepository {
	return &compatibilityRepository{db: db}
}

func (r *compatibilityRepository) CreateCompatibility(ctx context.Context, score *model.CompatibilityScore) error {
	return translate(r.db.WithContext(ctx).Create(score).Error, "compatibility score")
}

func (r *compatibilityRepository) GetLatestCompatibility(ctx context.Context, relationshipID string) (*model.CompatibilityScore, error) {
	var score model.CompatibilityScore
	err := r.db.WithContext(ctx).
		Where("relationship_id = ?", relationshipID).
		Order("analysis_date DESC").
		First(&score).Error
	if err != nil {
		return nil, translate(err, "compatibility score")
	}
	return &score, nil
}

func (r *compatibilityRepository) GetCompatibilities(ctx context.Context, relationshipID string) ([]model.CompatibilityScore, error) {
	var scores []model.CompatibilityScore
	err := r.db.WithContext(ctx).
		Where("relationship_id = ?", relationshipID).
		Order("analysis_date ASC").
		Find(&scores).Error
	return scores, translate(err, "compatibility scores")
}
