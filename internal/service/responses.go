package service

import (
	"math"

	"lovemirror-backend/internal/scoring"
)

// NormalizeResponses checks submitted answers against the catalog and fills
// category and weight from the question. Every question of the type must be
// answered exactly once with a finite rating on the 1-5 scale.
func NormalizeResponses(catalog *scoring.Catalog, t scoring.AssessmentType, responses []scoring.Response) ([]scoring.Response, error) {
	if len(responses) == 0 {
		return nil, invalid("no responses submitted")
	}

	catalogQuestions := catalog.Questions(t)
	questions := make(map[string]scoring.Question, len(catalogQuestions))
	for _, q := range catalogQuestions {
		questions[q.ID] = q
	}

	seen := make(map[string]bool, len(responses))
	out := make([]scoring.Response, 0, len(responses))
	for _, r := range responses {
		q, ok := questions[r.QuestionID]
		if !ok {
			return nil, invalid("unknown question %q for %s", r.QuestionID, t)
		}
		if seen[r.QuestionID] {
			return nil, invalid("question %q answered twice", r.QuestionID)
		}
		seen[r.QuestionID] = true
		if math.IsNaN(r.Score) || r.Score < 1 || r.Score > scoring.MaxRating {
			return nil, invalid("score for %q must be between 1 and %d", r.QuestionID, scoring.MaxRating)
		}
		out = append(out, scoring.Response{
			QuestionID: q.ID,
			Category:   q.Category,
			Score:      r.Score,
			Weight:     q.Weight,
		})
	}
	if len(out) != len(catalogQuestions) {
		return nil, invalid("%d of %d questions unanswered", len(catalogQuestions)-len(out), len(catalogQuestions))
	}
	return out, nil
}
