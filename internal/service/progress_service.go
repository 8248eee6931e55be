package service

import (
	"context"

	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

// CategoryProgress compares one category between the first and the latest
// attempt.
type CategoryProgress struct {
	Category string  `json:"category"`
	Initial  float64 `json:"initial_percentage"`
	Latest   float64 `json:"latest_percentage"`
	Change   float64 `json:"change"`
}

// ProgressReport holds the metrics for the progress view.
type ProgressReport struct {
	AssessmentType    scoring.AssessmentType `json:"assessment_type"`
	Attempts          int                    `json:"attempts"`
	InitialPercentage float64                `json:"initial_percentage"`
	LatestPercentage  float64                `json:"latest_percentage"`
	Improvement       float64                `json:"improvement"`
	Categories        []CategoryProgress     `json:"categories"`
}

// Progress compares the user's oldest and newest attempt of one type.
// Categories missing from either attempt are left out.
func (s *assessmentService) Progress(ctx context.Context, userID string, t scoring.AssessmentType) (*ProgressReport, error) {
	if !t.Valid() {
		return nil, invalid("unknown assessment type %q", t)
	}
	histories, err := s.assessments.GetAssessments(ctx, userID, t, 0)
	if err != nil {
		return nil, err
	}
	if len(histories) == 0 {
		return nil, repository.ErrNotFound
	}

	latest, initial := histories[0], histories[len(histories)-1]

	before := make(map[string]float64, len(initial.CategoryScores))
	for _, cs := range initial.CategoryScores {
		before[cs.Category] = cs.Percentage
	}
	var categories []CategoryProgress
	for _, cs := range latest.CategoryScores {
		p, ok := before[cs.Category]
		if !ok {
			continue
		}
		categories = append(categories, CategoryProgress{
			Category: cs.Category,
			Initial:  p,
			Latest:   cs.Percentage,
			Change:   cs.Percentage - p,
		})
	}

	return &ProgressReport{
		AssessmentType:    t,
		Attempts:          len(histories),
		InitialPercentage: initial.OverallPercentage,
		LatestPercentage:  latest.OverallPercentage,
		Improvement:       latest.OverallPercentage - initial.OverallPercentage,
		Categories:        categories,
	}, nil
}
