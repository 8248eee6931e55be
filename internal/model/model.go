package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lovemirror-backend/internal/scoring"
)

const (
	AssessorInvitationTTL = 30 * 24 * time.Hour
	PartnerInvitationTTL  = 7 * 24 * time.Hour
)

type AssessorStatus string

const (
	AssessorPending   AssessorStatus = "pending"
	AssessorCompleted AssessorStatus = "completed"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "active"
	RelationshipInactive RelationshipStatus = "inactive"
)

// Profile mirrors the account kept by the hosted auth provider. ID is the
// token subject.
type Profile struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name"`
	Email           string    `json:"email" gorm:"index"`
	Gender          string    `json:"gender"`
	Region          string    `json:"region"`
	CulturalContext string    `json:"cultural_context"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Respondent returns the fields that pick an assessment type.
func (p *Profile) Respondent() scoring.Respondent {
	return scoring.Respondent{Gender: p.Gender, Region: p.Region, CulturalContext: p.CulturalContext}
}

// AssessmentHistory is an immutable snapshot of one completed assessment.
type AssessmentHistory struct {
	ID                string                 `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            string                 `json:"user_id" gorm:"type:uuid;not null;index"`
	AssessmentType    scoring.AssessmentType `json:"assessment_type" gorm:"type:varchar(32);not null;index"`
	Responses         Responses              `json:"responses" gorm:"type:jsonb"`
	CategoryScores    CategoryScores         `json:"category_scores" gorm:"type:jsonb"`
	LowestCategories  CategoryScores         `json:"lowest_categories" gorm:"type:jsonb"`
	OverallScore      float64                `json:"overall_score"`
	OverallPercentage float64                `json:"overall_percentage"`
	Badge             string                 `json:"badge"`
	CompletedAt       time.Time              `json:"completed_at" gorm:"index"`
	CreatedAt         time.Time              `json:"created_at"`
}

func (h *AssessmentHistory) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}

// Result rebuilds the scored result the snapshot was taken from.
func (h *AssessmentHistory) Result() scoring.AssessmentResult {
	return scoring.AssessmentResult{
		CategoryScores:    h.CategoryScores,
		OverallScore:      h.OverallScore,
		OverallPercentage: h.OverallPercentage,
		LowestCategories:  h.LowestCategories,
		AssessmentType:    h.AssessmentType,
		Badge:             h.Badge,
	}
}

// ExternalAssessor is an invitation for a third party to rate a user.
type ExternalAssessor struct {
	ID             string                 `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string                 `json:"user_id" gorm:"type:uuid;not null;index"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email" gorm:"not null"`
	Relationship   string                 `json:"relationship"`
	InvitationCode string                 `json:"invitation_code" gorm:"uniqueIndex;not null"`
	Status         AssessorStatus         `json:"status" gorm:"type:varchar(16);default:'pending'"`
	AssessmentType scoring.AssessmentType `json:"assessment_type" gorm:"type:varchar(32);not null"`
	ExpiresAt      time.Time              `json:"expires_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func (a *ExternalAssessor) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (a *ExternalAssessor) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// ExternalAssessmentResult is what one rater submitted, scored. The gap
// fields hold the latest self-perception comparison for the rated user.
type ExternalAssessmentResult struct {
	ID                string                 `json:"id" gorm:"type:uuid;primaryKey"`
	AssessorID        string                 `json:"assessor_id" gorm:"type:uuid;not null;index"`
	UserID            string                 `json:"user_id" gorm:"type:uuid;not null;index"`
	AssessmentType    scoring.AssessmentType `json:"assessment_type" gorm:"type:varchar(32);not null;index"`
	Responses         Responses              `json:"responses" gorm:"type:jsonb"`
	CategoryScores    CategoryScores         `json:"category_scores" gorm:"type:jsonb"`
	OverallScore      float64                `json:"overall_score"`
	OverallPercentage float64                `json:"overall_percentage"`
	Feedback          string                 `json:"feedback"`
	DelusionalScore   *float64               `json:"delusional_score,omitempty"`
	CategoryGaps      CategoryGaps           `json:"category_gaps,omitempty" gorm:"type:jsonb"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func (r *ExternalAssessmentResult) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// ScoreSet reduces the result to what external summaries need.
func (r *ExternalAssessmentResult) ScoreSet() scoring.ExternalScoreSet {
	return scoring.ExternalScoreSet{
		AssessmentType:    r.AssessmentType,
		CategoryScores:    r.CategoryScores,
		OverallScore:      r.OverallScore,
		OverallPercentage: r.OverallPercentage,
	}
}

type PartnerInvitation struct {
	ID             string           `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID       string           `json:"sender_id" gorm:"type:uuid;not null;index"`
	InvitationCode string           `json:"invitation_code" gorm:"uniqueIndex;not null"`
	RecipientEmail string           `json:"recipient_email"`
	Status         InvitationStatus `json:"status" gorm:"type:varchar(16);default:'pending'"`
	ExpiresAt      time.Time        `json:"expires_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (i *PartnerInvitation) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

func (i *PartnerInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

type Relationship struct {
	ID        string             `json:"id" gorm:"type:uuid;primaryKey"`
	User1ID   string             `json:"user1_id" gorm:"type:uuid;not null;index"`
	User2ID   string             `json:"user2_id" gorm:"type:uuid;not null;index"`
	Status    RelationshipStatus `json:"status" gorm:"type:varchar(16);default:'active'"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (r *Relationship) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// Includes reports whether userID is one of the partners.
func (r *Relationship) Includes(userID string) bool {
	return r.User1ID == userID || r.User2ID == userID
}

// Partner returns the other member of the relationship.
func (r *Relationship) Partner(userID string) string {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}

// CompatibilityScore is one point-in-time comparison. Recomputing inserts a
// new row; the latest row by AnalysisDate is current.
type CompatibilityScore struct {
	ID                string                  `json:"id" gorm:"type:uuid;primaryKey"`
	RelationshipID    string                  `json:"relationship_id" gorm:"type:uuid;not null;index"`
	CategoryScores    CategoryCompatibilities `json:"category_scores" gorm:"type:jsonb"`
	OverallPercentage float64                 `json:"overall_percentage"`
	AnalysisDate      time.Time               `json:"analysis_date" gorm:"index"`
	CreatedAt         time.Time               `json:"created_at"`
}

func (c *CompatibilityScore) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&AssessmentHistory{},
		&ExternalAssessor{},
		&ExternalAssessmentResult{},
		&PartnerInvitation{},
		&Relationship{},
		&CompatibilityScore{},
	}
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
