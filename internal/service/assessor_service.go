package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

const invitationCodeLength = 10

type InviteAssessorRequest struct {
	Name           string                 `json:"name"`
	Email          string                 `json:"email" binding:"required,email"`
	Relationship   string                 `json:"relationship" binding:"required"`
	AssessmentType scoring.AssessmentType `json:"assessment_type"`
}

// ExternalInvitation is what a rater sees when opening an invitation link.
type ExternalInvitation struct {
	AssessorID     string                 `json:"assessor_id"`
	Relationship   string                 `json:"relationship"`
	AssessmentType scoring.AssessmentType `json:"assessment_type"`
	UserName       string                 `json:"user_name"`
	ExpiresAt      time.Time              `json:"expires_at"`
	Questions      *QuestionSet           `json:"questions"`
}

type ExternalSubmission struct {
	Responses []scoring.Response `json:"responses" binding:"required"`
	Feedback  string             `json:"feedback"`
}

type AssessorService interface {
	Invite(ctx context.Context, userID string, req InviteAssessorRequest) (*model.ExternalAssessor, error)
	List(ctx context.Context, userID string) ([]model.ExternalAssessor, error)
	Resend(ctx context.Context, userID, assessorID string) (*model.ExternalAssessor, error)
	Remove(ctx context.Context, userID, assessorID string) error
	ByCode(ctx context.Context, code string) (*ExternalInvitation, error)
	Submit(ctx context.Context, code string, sub ExternalSubmission) (*model.ExternalAssessmentResult, error)
	Results(ctx context.Context, userID string, t scoring.AssessmentType) ([]model.ExternalAssessmentResult, error)
	Summary(ctx context.Context, userID string, t scoring.AssessmentType) (*scoring.ExternalSummary, error)
}

type assessorService struct {
	scorer      *scoring.Scorer
	assessments AssessmentService
	assessors   repository.AssessorRepository
	results     repository.ExternalResultRepository
	profiles    repository.ProfileRepository
	bus         Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewAssessorService(
	scorer *scoring.Scorer,
	assessments AssessmentService,
	assessors repository.AssessorRepository,
	results repository.ExternalResultRepository,
	profiles repository.ProfileRepository,
	bus Publisher,
	log *zap.Logger,
) AssessorService {
	return &assessorService{
		scorer:      scorer,
		assessments: assessments,
		assessors:   assessors,
		results:     results,
		profiles:    profiles,
		bus:         bus,
		log:         log,
		now:         time.Now,
	}
}

// Invite creates a 30-day invitation for a rater. Without an explicit type
// the rater gets the same assessment the user takes.
func (s *assessorService) Invite(ctx context.Context, userID string, req InviteAssessorRequest) (*model.ExternalAssessor, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("a valid rater email is required")
	}
	t, err := s.assessments.ResolveType(ctx, userID, req.AssessmentType)
	if err != nil {
		return nil, err
	}

	assessor := &model.ExternalAssessor{
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Relationship:   strings.TrimSpace(req.Relationship),
		InvitationCode: newInvitationCode(),
		Status:         model.AssessorPending,
		AssessmentType: t,
		ExpiresAt:      s.now().Add(model.AssessorInvitationTTL),
	}
	if err := s.assessors.CreateAssessor(ctx, assessor); err != nil {
		return nil, err
	}

	s.bus.Publish(EventAssessorInvited, AssessorInvitedEvent{
		AssessorID:     assessor.ID,
		UserID:         userID,
		Email:          assessor.Email,
		InvitationCode: assessor.InvitationCode,
	})
	return assessor, nil
}

func (s *assessorService) List(ctx context.Context, userID string) ([]model.ExternalAssessor, error) {
	return s.assessors.GetAssessorsByUser(ctx, userID)
}

// Resend pushes the expiry of a pending invitation 30 days out.
func (s *assessorService) Resend(ctx context.Context, userID, assessorID string) (*model.ExternalAssessor, error) {
	assessor, err := s.owned(ctx, userID, assessorID)
	if err != nil {
		return nil, err
	}
	if assessor.Status == model.AssessorCompleted {
		return nil, ErrInvitationInvalid
	}

	assessor.ExpiresAt = s.now().Add(model.AssessorInvitationTTL)
	if err := s.assessors.UpdateAssessor(ctx, assessor); err != nil {
		return nil, err
	}
	s.bus.Publish(EventAssessorInvited, AssessorInvitedEvent{
		AssessorID:     assessor.ID,
		UserID:         userID,
		Email:          assessor.Email,
		InvitationCode: assessor.InvitationCode,
	})
	return assessor, nil
}

func (s *assessorService) Remove(ctx context.Context, userID, assessorID string) error {
	if _, err := s.owned(ctx, userID, assessorID); err != nil {
		return err
	}
	return s.assessors.DeleteAssessor(ctx, assessorID)
}

func (s *assessorService) ByCode(ctx context.Context, code string) (*ExternalInvitation, error) {
	assessor, err := s.openInvitation(ctx, code)
	if err != nil {
		return nil, err
	}
	questions, err := s.assessments.Questions(assessor.AssessmentType)
	if err != nil {
		return nil, err
	}

	invitation := &ExternalInvitation{
		AssessorID:     assessor.ID,
		Relationship:   assessor.Relationship,
		AssessmentType: assessor.AssessmentType,
		ExpiresAt:      assessor.ExpiresAt,
		Questions:      questions,
	}
	if profile, err := s.profiles.GetProfile(ctx, assessor.UserID); err == nil {
		invitation.UserName = profile.Name
	}
	return invitation, nil
}

// Submit scores a rater's answers and closes the invitation.
func (s *assessorService) Submit(ctx context.Context, code string, sub ExternalSubmission) (*model.ExternalAssessmentResult, error) {
	assessor, err := s.openInvitation(ctx, code)
	if err != nil {
		return nil, err
	}
	normalized, err := NormalizeResponses(s.scorer.Catalog(), assessor.AssessmentType, sub.Responses)
	if err != nil {
		return nil, err
	}

	scored := s.scorer.CalculateScores(normalized, assessor.AssessmentType)
	result := &model.ExternalAssessmentResult{
		AssessorID:        assessor.ID,
		UserID:            assessor.UserID,
		AssessmentType:    assessor.AssessmentType,
		Responses:         normalized,
		CategoryScores:    scored.CategoryScores,
		OverallScore:      scored.OverallScore,
		OverallPercentage: scored.OverallPercentage,
		Feedback:          strings.TrimSpace(sub.Feedback),
	}
	completed := s.now()
	assessor.CompletedAt = &completed
	if err := s.assessors.CompleteAssessor(ctx, assessor, result); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvitationInvalid
		}
		return nil, err
	}

	s.log.Info("external assessment submitted",
		zap.String("assessor_id", assessor.ID),
		zap.String("user_id", assessor.UserID),
	)
	s.bus.Publish(EventExternalSubmitted, ExternalSubmittedEvent{
		AssessorID:     assessor.ID,
		UserID:         assessor.UserID,
		AssessmentType: assessor.AssessmentType,
	})
	return result, nil
}

func (s *assessorService) Results(ctx context.Context, userID string, t scoring.AssessmentType) ([]model.ExternalAssessmentResult, error) {
	return s.results.GetResultsByUser(ctx, userID, t)
}

// Summary averages every rater's result. With no results it returns
// scoring.ErrInsufficientData.
func (s *assessorService) Summary(ctx context.Context, userID string, t scoring.AssessmentType) (*scoring.ExternalSummary, error) {
	results, err := s.results.GetResultsByUser(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	sets := make([]scoring.ExternalScoreSet, 0, len(results))
	for i := range results {
		sets = append(sets, results[i].ScoreSet())
	}
	summary := scoring.SummarizeExternal(sets)
	if summary == nil {
		return nil, scoring.ErrInsufficientData
	}
	return summary, nil
}

func (s *assessorService) owned(ctx context.Context, userID, assessorID string) (*model.ExternalAssessor, error) {
	assessor, err := s.assessors.GetAssessor(ctx, assessorID)
	if err != nil {
		return nil, err
	}
	if assessor.UserID != userID {
		return nil, ErrForbidden
	}
	return assessor, nil
}

// openInvitation loads a pending, unexpired invitation.
func (s *assessorService) openInvitation(ctx context.Context, code string) (*model.ExternalAssessor, error) {
	assessor, err := s.assessors.GetAssessorByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if assessor.Status != model.AssessorPending || assessor.Expired(s.now()) {
		return nil, ErrInvitationInvalid
	}
	return assessor, nil
}

func newInvitationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:invitationCodeLength]
}
