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

// CategoryInsight pairs a category comparison with its advice.
type CategoryInsight struct {
	scoring.CategoryCompatibility
	Suggestion string `json:"suggestion"`
}

// CompatibilityReport is a stored compatibility snapshot, decorated for
// display.
type CompatibilityReport struct {
	ID                string            `json:"id"`
	RelationshipID    string            `json:"relationship_id"`
	OverallPercentage float64           `json:"overall_percentage"`
	Badge             string            `json:"badge"`
	Categories        []CategoryInsight `json:"category_scores"`
	AnalysisDate      time.Time         `json:"analysis_date"`
}

// CompatibilityTrend averages every snapshot of a relationship.
type CompatibilityTrend struct {
	scoring.CompatibilitySummary
	RelationshipID string    `json:"relationship_id"`
	Badge          string    `json:"badge"`
	FirstAnalysis  time.Time `json:"first_analysis"`
	LatestAnalysis time.Time `json:"latest_analysis"`
}

type CompatibilityService interface {
	// Calculate compares both partners' latest self-assessments and stores
	// the result as a new snapshot. It returns scoring.ErrInsufficientData
	// when either partner has no assessment or they share no category.
	Calculate(ctx context.Context, relationshipID, callerID string) (*CompatibilityReport, error)
	Latest(ctx context.Context, relationshipID, callerID string) (*CompatibilityReport, error)
	// Summary averages every stored snapshot. With none it returns
	// scoring.ErrInsufficientData.
	Summary(ctx context.Context, relationshipID, callerID string) (*CompatibilityTrend, error)
}

type compatibilityService struct {
	scorer        *scoring.Scorer
	relationships repository.RelationshipRepository
	assessments   repository.AssessmentRepository
	compatibility repository.CompatibilityRepository
	log           *zap.Logger
	now           func() time.Time
}

func NewCompatibilityService(
	scorer *scoring.Scorer,
	relationships repository.RelationshipRepository,
	assessments repository.AssessmentRepository,
	compatibility repository.CompatibilityRepository,
	log *zap.Logger,
) CompatibilityService {
	return &compatibilityService{
		scorer:        scorer,
		relationships: relationships,
		assessments:   assessments,
		compatibility: compatibility,
		log:           log,
		now:           time.Now,
	}
}

func (s *compatibilityService) Calculate(ctx context.Context, relationshipID, callerID string) (*CompatibilityReport, error) {
	relationship, err := memberOf(ctx, s.relationships, callerID, relationshipID)
	if err != nil {
		return nil, err
	}

	user1, err := s.latestScores(ctx, relationship.User1ID)
	if err != nil {
		return nil, err
	}
	user2, err := s.latestScores(ctx, relationship.User2ID)
	if err != nil {
		return nil, err
	}

	result, err := scoring.CalculateCompatibility(user1, user2)
	if err != nil {
		return nil, err
	}

	snapshot := &model.CompatibilityScore{
		RelationshipID:    relationship.ID,
		CategoryScores:    result.Categories,
		OverallPercentage: float64(result.OverallPercentage),
		AnalysisDate:      s.now(),
	}
	if err := s.compatibility.CreateCompatibility(ctx, snapshot); err != nil {
		return nil, err
	}

	s.log.Info("compatibility calculated",
		zap.String("relationship_id", relationship.ID),
		zap.Float64("overall_percentage", snapshot.OverallPercentage),
	)
	return s.report(snapshot), nil
}

func (s *compatibilityService) Latest(ctx context.Context, relationshipID, callerID string) (*CompatibilityReport, error) {
	if _, err := memberOf(ctx, s.relationships, callerID, relationshipID); err != nil {
		return nil, err
	}
	snapshot, err := s.compatibility.GetLatestCompatibility(ctx, relationshipID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, scoring.ErrInsufficientData
	}
	if err != nil {
		return nil, err
	}
	return s.report(snapshot), nil
}

func (s *compatibilityService) Summary(ctx context.Context, relationshipID, callerID string) (*CompatibilityTrend, error) {
	if _, err := memberOf(ctx, s.relationships, callerID, relationshipID); err != nil {
		return nil, err
	}
	snapshots, err := s.compatibility.GetCompatibilities(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, scoring.ErrInsufficientData
	}

	results := make([]scoring.CompatibilityResult, 0, len(snapshots))
	for _, snapshot := range snapshots {
		results = append(results, scoring.CompatibilityResult{
			Categories:        snapshot.CategoryScores,
			OverallPercentage: scoring.MatchPercentage(snapshot.OverallPercentage),
		})
	}
	summary := scoring.SummarizeCompatibility(results)
	return &CompatibilityTrend{
		CompatibilitySummary: *summary,
		RelationshipID:       relationshipID,
		Badge:                s.scorer.CompatibilityBadge(summary.OverallPercentage),
		FirstAnalysis:        snapshots[0].AnalysisDate,
		LatestAnalysis:       snapshots[len(snapshots)-1].AnalysisDate,
	}, nil
}

func (s *compatibilityService) latestScores(ctx context.Context, userID string) ([]scoring.CategoryScore, error) {
	history, err := s.assessments.GetLatestAssessment(ctx, userID, "")
	if errors.Is(err, repository.ErrNotFound) {
		return nil, scoring.ErrInsufficientData
	}
	if err != nil {
		return nil, err
	}
	return history.CategoryScores, nil
}

func (s *compatibilityService) report(snapshot *model.CompatibilityScore) *CompatibilityReport {
	overall := scoring.MatchPercentage(snapshot.OverallPercentage)
	report := &CompatibilityReport{
		ID:                snapshot.ID,
		RelationshipID:    snapshot.RelationshipID,
		OverallPercentage: snapshot.OverallPercentage,
		Badge:             s.scorer.CompatibilityBadge(overall),
		AnalysisDate:      snapshot.AnalysisDate,
	}
	for _, c := range snapshot.CategoryScores {
		report.Categories = append(report.Categories, CategoryInsight{
			CategoryCompatibility: c,
			Suggestion:            scoring.CompatibilitySuggestion(c.Category, c.MatchPercentage),
		})
	}
	return report
}
