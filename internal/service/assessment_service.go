package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

// QuestionSet is what a client needs to render one assessment.
type QuestionSet struct {
	AssessmentType scoring.AssessmentType `json:"assessment_type"`
	Name           string                 `json:"name"`
	Categories     []scoring.Category     `json:"categories"`
	Questions      []scoring.Question     `json:"questions"`
}

// BridalPriceRequest carries the optional parameters of a bridal price
// estimate. The region defaults to the profile's region.
type BridalPriceRequest struct {
	Region           string  `json:"region"`
	BaseValue        float64 `json:"base_value"`
	PartnerIncome    float64 `json:"partner_income"`
	TargetPercentage float64 `json:"target_percentage"`
}

type AssessmentService interface {
	Questions(t scoring.AssessmentType) (*QuestionSet, error)
	ResolveType(ctx context.Context, userID string, requested scoring.AssessmentType) (scoring.AssessmentType, error)
	Submit(ctx context.Context, userID string, t scoring.AssessmentType, responses []scoring.Response) (*model.AssessmentHistory, error)
	History(ctx context.Context, userID string, t scoring.AssessmentType, limit int) ([]model.AssessmentHistory, error)
	Latest(ctx context.Context, userID string, t scoring.AssessmentType) (*model.AssessmentHistory, error)
	Get(ctx context.Context, userID, id string) (*model.AssessmentHistory, error)
	Suggestions(ctx context.Context, userID, id string) ([]scoring.Suggestion, error)
	Progress(ctx context.Context, userID string, t scoring.AssessmentType) (*ProgressReport, error)
	BridalPrice(ctx context.Context, userID string, req BridalPriceRequest) (*scoring.BridalPriceResult, error)
	Report(ctx context.Context, userID, id string) ([]byte, error)
}

type assessmentService struct {
	scorer      *scoring.Scorer
	assessments repository.AssessmentRepository
	profiles    repository.ProfileRepository
	bus         Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewAssessmentService(
	scorer *scoring.Scorer,
	assessments repository.AssessmentRepository,
	profiles repository.ProfileRepository,
	bus Publisher,
	log *zap.Logger,
) AssessmentService {
	return &assessmentService{
		scorer:      scorer,
		assessments: assessments,
		profiles:    profiles,
		bus:         bus,
		log:         log,
		now:         time.Now,
	}
}

func (s *assessmentService) Questions(t scoring.AssessmentType) (*QuestionSet, error) {
	catalog := s.scorer.Catalog()
	questions := catalog.Questions(t)
	if questions == nil {
		return nil, invalid("unknown assessment type %q", t)
	}
	return &QuestionSet{
		AssessmentType: t,
		Name:           scoring.AssessmentTypeName(t),
		Categories:     catalog.Categories,
		Questions:      questions,
	}, nil
}

// ResolveType picks the assessment for a user from their profile. Without a
// profile only an explicitly requested type is accepted.
func (s *assessmentService) ResolveType(ctx context.Context, userID string, requested scoring.AssessmentType) (scoring.AssessmentType, error) {
	if requested != "" && !requested.Valid() {
		return "", invalid("unknown assessment type %q", requested)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		if requested == "" {
			return "", invalid("complete your profile before taking an assessment")
		}
		return requested, nil
	}
	if err != nil {
		return "", err
	}

	t, ok := scoring.ResolveAssessmentType(profile.Respondent(), requested)
	if !ok {
		if requested == "" {
			return "", invalid("profile gender %q has no assessment", profile.Gender)
		}
		return "", invalid("%s does not apply to this profile", scoring.AssessmentTypeName(requested))
	}
	return t, nil
}

func (s *assessmentService) Submit(ctx context.Context, userID string, t scoring.AssessmentType, responses []scoring.Response) (*model.AssessmentHistory, error) {
	t, err := s.ResolveType(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	normalized, err := NormalizeResponses(s.scorer.Catalog(), t, responses)
	if err != nil {
		return nil, err
	}

	result := s.scorer.CalculateScores(normalized, t)
	history := &model.AssessmentHistory{
		UserID:            userID,
		AssessmentType:    t,
		Responses:         normalized,
		CategoryScores:    result.CategoryScores,
		LowestCategories:  result.LowestCategories,
		OverallScore:      result.OverallScore,
		OverallPercentage: result.OverallPercentage,
		Badge:             result.Badge,
		CompletedAt:       s.now(),
	}
	if err := s.assessments.CreateAssessment(ctx, history); err != nil {
		return nil, err
	}

	s.log.Info("assessment completed",
		zap.String("user_id", userID),
		zap.String("assessment_type", string(t)),
		zap.Float64("overall_percentage", result.OverallPercentage),
	)
	s.bus.Publish(EventAssessmentCompleted, AssessmentCompletedEvent{
		HistoryID:      history.ID,
		UserID:         userID,
		AssessmentType: t,
	})
	return history, nil
}

func (s *assessmentService) History(ctx context.Context, userID string, t scoring.AssessmentType, limit int) ([]model.AssessmentHistory, error) {
	return s.assessments.GetAssessments(ctx, userID, t, limit)
}

func (s *assessmentService) Latest(ctx context.Context, userID string, t scoring.AssessmentType) (*model.AssessmentHistory, error) {
	return s.assessments.GetLatestAssessment(ctx, userID, t)
}

func (s *assessmentService) Get(ctx context.Context, userID, id string) (*model.AssessmentHistory, error) {
	history, err := s.assessments.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if history.UserID != userID {
		return nil, ErrForbidden
	}
	return history, nil
}

func (s *assessmentService) Suggestions(ctx context.Context, userID, id string) ([]scoring.Suggestion, error) {
	history, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return scoring.GenerateSuggestions(history.LowestCategories), nil
}

// BridalPrice prices the user's latest bridal-price assessment.
func (s *assessmentService) BridalPrice(ctx context.Context, userID string, req BridalPriceRequest) (*scoring.BridalPriceResult, error) {
	if req.BaseValue < 0 || req.PartnerIncome < 0 || req.TargetPercentage < 0 || req.TargetPercentage > 100 {
		return nil, invalid("bridal price parameters must be non-negative and the target percentage at most 100")
	}

	history, err := s.assessments.GetLatestAssessment(ctx, userID, scoring.BridalPrice)
	if err != nil {
		return nil, err
	}

	region := req.Region
	if region == "" {
		profile, err := s.profiles.GetProfile(ctx, userID)
		switch {
		case err == nil:
			region = profile.Region
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	result := s.scorer.CalculateBridalPrice(scoring.BridalPriceInput{
		CategoryScores:   history.CategoryScores,
		BaseValue:        req.BaseValue,
		Region:           region,
		PartnerIncome:    req.PartnerIncome,
		TargetPercentage: req.TargetPercentage,
	})
	return &result, nil
}

func (s *assessmentService) Report(ctx context.Context, userID, id string) ([]byte, error) {
	history, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := ""
	if profile, err := s.profiles.GetProfile(ctx, userID); err == nil {
		name = profile.Name
	}
	return renderAssessmentReport(history, name, s.now())
}
