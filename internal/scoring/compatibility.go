package scoring

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrInsufficientData means there is nothing to compare: no shared
// categories between two partners, or no external rating for a user.
// Callers render an empty state instead of a number.
var ErrInsufficientData = errors.New("insufficient data for a result")

// MatchPercentage is a closeness score. Higher means more aligned.
type MatchPercentage float64

// normalizationDenominator scales a percentage onto the 0-2 range the
// compatibility rows have always stored.
const normalizationDenominator = 50

// CategoryCompatibility compares two partners in one category.
type CategoryCompatibility struct {
	Category        string          `json:"category"`
	User1Score      float64         `json:"user1_score"`
	User2Score      float64         `json:"user2_score"`
	NormalizedUser1 float64         `json:"normalized_user1"`
	NormalizedUser2 float64         `json:"normalized_user2"`
	MatchPercentage MatchPercentage `json:"match_percentage"`
}

// CompatibilityResult is a point-in-time comparison of two partners.
type CompatibilityResult struct {
	Categories        []CategoryCompatibility `json:"category_scores"`
	OverallPercentage MatchPercentage         `json:"overall_percentage"`
}

// CalculateCompatibility compares two partners' category scores. Only
// categories present on both sides count; a category missing from one side
// is skipped rather than scored as zero.
func CalculateCompatibility(user1, user2 []CategoryScore) (CompatibilityResult, error) {
	index2 := make(map[string]CategoryScore, len(user2))
	for _, cs := range user2 {
		key := categoryKey(cs.Category)
		if _, ok := index2[key]; !ok {
			index2[key] = cs
		}
	}

	var (
		categories []CategoryCompatibility
		matches    []float64
		done       = make(map[string]bool)
	)
	for _, c1 := range user1 {
		key := categoryKey(c1.Category)
		if done[key] {
			continue
		}
		done[key] = true
		c2, ok := index2[key]
		if !ok {
			continue
		}
		match := MatchPercentage(math.Max(0, 100-math.Abs(c1.Percentage-c2.Percentage)))
		categories = append(categories, CategoryCompatibility{
			Category:        c1.Category,
			User1Score:      c1.Percentage,
			User2Score:      c2.Percentage,
			NormalizedUser1: c1.Percentage / normalizationDenominator,
			NormalizedUser2: c2.Percentage / normalizationDenominator,
			MatchPercentage: match,
		})
		matches = append(matches, float64(match))
	}

	if len(categories) == 0 {
		return CompatibilityResult{}, ErrInsufficientData
	}
	return CompatibilityResult{
		Categories:        categories,
		OverallPercentage: MatchPercentage(mean(matches)),
	}, nil
}

// CompatibilityBadge labels an overall compatibility percentage.
func CompatibilityBadge(p MatchPercentage) string {
	return defaultScorer.CompatibilityBadge(p)
}

// CompatibilityBadge labels an overall compatibility percentage.
func (s *Scorer) CompatibilityBadge(p MatchPercentage) string {
	return lookupBand(s.tables.CompatibilityBands, float64(p), UnratedBadge)
}

type tieredCopy struct {
	high, medium, low string
}

var compatibilitySuggestions = map[string]tieredCopy{
	"Mental Traits": {
		high:   "You both have similar thought processes and intellectual approaches.",
		medium: "Your thinking styles differ somewhat. Focus on understanding each other's perspectives.",
		low:    "Your mental approaches differ significantly. Consider working on communication techniques.",
	},
	"Emotional Traits": {
		high:   "You're emotionally in sync and likely understand each other's feelings well.",
		medium: "You have some emotional differences. Practice active listening and validation.",
		low:    "Your emotional styles differ greatly. Consider learning about emotional intelligence together.",
	},
	"Physical Traits": {
		high:   "You have similar physical priorities and expectations.",
		medium: "Your physical preferences have some differences. Open communication is important.",
		low:    "Your physical expectations differ significantly. Have honest conversations about needs.",
	},
	"Financial Traits": {
		high:   "You share similar financial values and approaches to money.",
		medium: "Your financial styles have some differences. Consider creating shared financial goals.",
		low:    "Your approaches to finances differ greatly. Consider financial counseling.",
	},
	"Family & Cultural Compatibility": {
		high:   "You share similar family values and cultural expectations.",
		medium: "Your family and cultural backgrounds have some differences. Respect and learn from each other.",
		low:    "Your family and cultural approaches differ significantly. Work on building bridges between traditions.",
	},
	"Conflict Resolution Style": {
		high:   "You resolve conflicts in similar ways, which minimizes friction.",
		medium: "Your conflict styles have some differences. Learn each other's needs during disagreements.",
		low:    "Your approaches to conflict differ greatly. Consider learning conflict resolution techniques.",
	},
}

var defaultCompatibilitySuggestion = tieredCopy{
	high:   "You are highly compatible in this area.",
	medium: "You have moderate compatibility in this area.",
	low:    "You have significant differences in this area.",
}

// CompatibilitySuggestion returns advice for one category's match percentage.
func CompatibilitySuggestion(category string, p MatchPercentage) string {
	tiers, ok := compatibilitySuggestions[category]
	if !ok {
		tiers = defaultCompatibilitySuggestion
	}
	switch {
	case p >= 75:
		return tiers.high
	case p >= 50:
		return tiers.medium
	default:
		return tiers.low
	}
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
