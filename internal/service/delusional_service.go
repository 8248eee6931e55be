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

const recomputeTimeout = 30 * time.Second

// GapFeedback is the explanation of one category gap.
type GapFeedback struct {
	scoring.CategoryGap
	Feedback string `json:"feedback"`
}

// DelusionalReport is a self-perception gap with its explanations.
type DelusionalReport struct {
	AssessmentType          scoring.AssessmentType `json:"assessment_type"`
	OverallScore            scoring.GapScore       `json:"overall_score"`
	Status                  scoring.GapStatus      `json:"status"`
	Feedback                string                 `json:"feedback"`
	CategoryGaps            []GapFeedback          `json:"category_gaps"`
	ExternalAssessmentCount int                    `json:"external_assessment_count"`
}

type DelusionalService interface {
	// Calculate compares the user's latest self-assessment with every
	// external result of the same type. An empty type uses the type of the
	// latest self-assessment. It returns scoring.ErrInsufficientData when
	// there is nothing to compare.
	Calculate(ctx context.Context, userID string, t scoring.AssessmentType) (*DelusionalReport, error)
	// Listen recomputes stored gaps whenever a rater submits or the user
	// retakes an assessment.
	Listen(bus Subscriber)
}

type delusionalService struct {
	scorer      *scoring.Scorer
	assessments repository.AssessmentRepository
	results     repository.ExternalResultRepository
	log         *zap.Logger
}

func NewDelusionalService(
	scorer *scoring.Scorer,
	assessments repository.AssessmentRepository,
	results repository.ExternalResultRepository,
	log *zap.Logger,
) DelusionalService {
	return &delusionalService{
		scorer:      scorer,
		assessments: assessments,
		results:     results,
		log:         log,
	}
}

func (s *delusionalService) Calculate(ctx context.Context, userID string, t scoring.AssessmentType) (*DelusionalReport, error) {
	if t != "" && !t.Valid() {
		return nil, invalid("unknown assessment type %q", t)
	}

	self, err := s.assessments.GetLatestAssessment(ctx, userID, t)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, scoring.ErrInsufficientData
	}
	if err != nil {
		return nil, err
	}
	t = self.AssessmentType

	external, err := s.results.GetResultsByUser(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	raters := make([][]scoring.CategoryScore, 0, len(external))
	ids := make([]string, 0, len(external))
	for _, r := range external {
		raters = append(raters, r.CategoryScores)
		ids = append(ids, r.ID)
	}

	result, err := s.scorer.CalculateDelusionalScore(self.CategoryScores, raters)
	if err != nil {
		return nil, err
	}
	if err := s.results.UpdateGaps(ctx, ids, float64(result.OverallScore), model.CategoryGaps(result.CategoryGaps)); err != nil {
		return nil, err
	}

	report := &DelusionalReport{
		AssessmentType:          t,
		OverallScore:            result.OverallScore,
		Status:                  result.Status,
		Feedback:                s.scorer.OverallDelusionalFeedback(result.OverallScore),
		ExternalAssessmentCount: result.ExternalAssessmentCount,
	}
	for _, gap := range result.CategoryGaps {
		report.CategoryGaps = append(report.CategoryGaps, GapFeedback{
			CategoryGap: gap,
			Feedback:    s.scorer.DelusionalFeedback(gap.Category, gap.Gap, gap.SelfScore, gap.ExternalScore),
		})
	}
	return report, nil
}

func (s *delusionalService) Listen(bus Subscriber) {
	bus.Subscribe(EventExternalSubmitted, func(data interface{}) {
		if ev, ok := data.(ExternalSubmittedEvent); ok {
			s.recompute(ev.UserID, ev.AssessmentType)
		}
	})
	bus.Subscribe(EventAssessmentCompleted, func(data interface{}) {
		if ev, ok := data.(AssessmentCompletedEvent); ok {
			s.recompute(ev.UserID, ev.AssessmentType)
		}
	})
}

func (s *delusionalService) recompute(userID string, t scoring.AssessmentType) {
	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	report, err := s.Calculate(ctx, userID, t)
	switch {
	case errors.Is(err, scoring.ErrInsufficientData):
		s.log.Debug("delusional score not yet available", zap.String("user_id", userID))
	case err != nil:
		s.log.Error("failed to recompute delusional score", zap.String("user_id", userID), zap.Error(err))
	default:
		s.log.Info("delusional score recomputed",
			zap.String("user_id", userID),
			zap.Float64("overall_score", float64(report.OverallScore)),
			zap.String("status", string(report.Status)),
		)
	}
}
