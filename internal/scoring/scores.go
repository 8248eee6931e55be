// Package scoring turns quiz ratings into category percentages, combines two
// partners' scores into a compatibility percentage and measures the gap
// between a self-assessment and external raters' perception.
//
// Every function is pure: results depend only on the arguments, the catalog
// and the tables of the Scorer. Malformed numbers are not validated and
// propagate as NaN.
package scoring

import (
	"math"
	"sort"
)

// Response is one answered question.
type Response struct {
	QuestionID string  `json:"questionId"`
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight,omitempty"`
}

// CategoryScore is the scored snapshot of one category.
type CategoryScore struct {
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
	Weight     float64 `json:"weight"`
}

// AssessmentResult is the outcome of one completed assessment attempt.
type AssessmentResult struct {
	CategoryScores    []CategoryScore `json:"categoryScores"`
	OverallScore      float64         `json:"overallScore"`
	OverallPercentage float64         `json:"overallPercentage"`
	LowestCategories  []CategoryScore `json:"lowestCategories"`
	AssessmentType    AssessmentType  `json:"assessmentType"`
	Badge             string          `json:"badge"`
}

// Scorer binds the arithmetic to a catalog and a set of tables.
type Scorer struct {
	catalog *Catalog
	tables  *Tables
}

// New returns a Scorer. Nil arguments fall back to the built-in data.
func New(catalog *Catalog, tables *Tables) *Scorer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if tables == nil {
		tables = DefaultTables()
	}
	return &Scorer{catalog: catalog, tables: tables}
}

var defaultScorer = New(nil, nil)

// Default returns the Scorer backed by the embedded catalog and default tables.
func Default() *Scorer {
	return defaultScorer
}

// Catalog returns the catalog the scorer uses.
func (s *Scorer) Catalog() *Catalog {
	return s.catalog
}

// Tables returns the tables the scorer uses.
func (s *Scorer) Tables() *Tables {
	return s.tables
}

// CalculateScores scores the responses of one assessment attempt. It does
// not check that every question was answered.
func CalculateScores(responses []Response, t AssessmentType) AssessmentResult {
	return defaultScorer.CalculateScores(responses, t)
}

// CalculateScores scores the responses of one assessment attempt.
func (s *Scorer) CalculateScores(responses []Response, t AssessmentType) AssessmentResult {
	grouped := make(map[string][]Response)
	var seen []string
	for _, r := range responses {
		if _, ok := grouped[r.Category]; !ok {
			seen = append(seen, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	categoryScores := make([]CategoryScore, 0, len(grouped))
	for _, name := range s.categoryOrder(seen) {
		rs, ok := grouped[name]
		if !ok {
			continue
		}
		var total, maxScore float64
		for _, r := range rs {
			w := r.Weight
			if w == 0 {
				w = 1
			}
			total += r.Score * w
			maxScore += MaxRating * w
		}
		categoryScores = append(categoryScores, CategoryScore{
			Category:   name,
			Score:      total,
			Percentage: clampPercentage(100 * total / maxScore),
			Weight:     s.tables.categoryWeight(t, name),
		})
	}

	var overallScore, percentageSum float64
	for _, cs := range categoryScores {
		overallScore += cs.Score
		percentageSum += cs.Percentage
	}
	overallPercentage := percentageSum / float64(len(categoryScores))

	return AssessmentResult{
		CategoryScores:    categoryScores,
		OverallScore:      overallScore,
		OverallPercentage: overallPercentage,
		LowestCategories:  lowestCategories(categoryScores, 2),
		AssessmentType:    t,
		Badge:             s.BadgeForScore(overallPercentage, t),
	}
}

// BadgeForScore maps an overall percentage to the badge of t.
func BadgeForScore(percentage float64, t AssessmentType) string {
	return defaultScorer.BadgeForScore(percentage, t)
}

// BadgeForScore maps an overall percentage to the badge of t.
func (s *Scorer) BadgeForScore(percentage float64, t AssessmentType) string {
	return lookupBand(s.tables.Badges[t], percentage, UnratedBadge)
}

// categoryOrder lists catalog categories first, then any other category in
// the order it was first seen in the responses.
func (s *Scorer) categoryOrder(seen []string) []string {
	order := s.catalog.CategoryNames()
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}
	for _, name := range seen {
		if !known[name] {
			order = append(order, name)
			known[name] = true
		}
	}
	return order
}

func lowestCategories(scores []CategoryScore, n int) []CategoryScore {
	sorted := make([]CategoryScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percentage < sorted[j].Percentage
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// clampPercentage keeps p within [0, 100]. NaN passes through.
func clampPercentage(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Min(100, math.Max(0, p))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
