package scoring

import (
	"fmt"
	"math"
)

// GapScore is a distance between self-perception and others' perception.
// Higher means a larger divergence, the opposite sense of MatchPercentage.
type GapScore float64

// GapStatus is the qualitative band of a gap.
type GapStatus string

const (
	SelfAware  GapStatus = "self-aware"
	BlindSpot  GapStatus = "blind-spot"
	Delusional GapStatus = "delusional"
)

// CategoryGap compares a self score with the average external score.
type CategoryGap struct {
	Category      string    `json:"category"`
	SelfScore     float64   `json:"self_score"`
	ExternalScore float64   `json:"external_score"`
	Gap           GapScore  `json:"gap"`
	Status        GapStatus `json:"status"`
}

// DelusionalResult is the gap between a self-assessment and its raters.
type DelusionalResult struct {
	OverallScore            GapScore      `json:"overall_score"`
	Status                  GapStatus     `json:"status"`
	CategoryGaps            []CategoryGap `json:"category_gaps"`
	ExternalAssessmentCount int           `json:"external_assessment_count"`
}

// CalculateDelusionalScore measures how far a self-assessment sits from the
// averaged perception of external raters.
func CalculateDelusionalScore(self []CategoryScore, externals [][]CategoryScore) (DelusionalResult, error) {
	return defaultScorer.CalculateDelusionalScore(self, externals)
}

// CalculateDelusionalScore measures how far a self-assessment sits from the
// averaged perception of external raters. Each rater counts once per
// category; a self category no rater scored is left out. With no self
// scores, no raters or no overlapping category the result is unavailable.
func (s *Scorer) CalculateDelusionalScore(self []CategoryScore, externals [][]CategoryScore) (DelusionalResult, error) {
	if len(self) == 0 || len(externals) == 0 {
		return DelusionalResult{}, ErrInsufficientData
	}

	var (
		gaps     []CategoryGap
		distance []float64
	)
	for _, sc := range self {
		key := categoryKey(sc.Category)
		var total float64
		var count int
		for _, rater := range externals {
			for _, ec := range rater {
				if categoryKey(ec.Category) == key {
					total += ec.Percentage
					count++
					break
				}
			}
		}
		if count == 0 {
			continue
		}
		external := total / float64(count)
		gap := math.Abs(sc.Percentage - external)
		gaps = append(gaps, CategoryGap{
			Category:      sc.Category,
			SelfScore:     sc.Percentage,
			ExternalScore: external,
			Gap:           GapScore(gap),
			Status:        s.tables.gapStatus(gap),
		})
		distance = append(distance, gap)
	}

	if len(gaps) == 0 {
		return DelusionalResult{}, ErrInsufficientData
	}
	overall := mean(distance)
	return DelusionalResult{
		OverallScore:            GapScore(overall),
		Status:                  s.tables.gapStatus(overall),
		CategoryGaps:            gaps,
		ExternalAssessmentCount: len(externals),
	}, nil
}

// StatusForGap bands a gap with the default thresholds.
func StatusForGap(gap GapScore) GapStatus {
	return defaultScorer.StatusForGap(gap)
}

// StatusForGap bands a gap with the scorer's gap bands.
func (s *Scorer) StatusForGap(gap GapScore) GapStatus {
	return s.tables.gapStatus(float64(gap))
}

var delusionalFeedback = map[string]func(perception string) tieredCopy{
	"Mental Traits": func(p string) tieredCopy {
		return tieredCopy{
			low:    "You have a clear understanding of your mental traits.",
			medium: fmt.Sprintf("You rate yourself %s others see your mental flexibility and accountability.", p),
			high:   "There's a significant gap between how you view your mental traits and how others perceive them. Consider seeking specific feedback in this area.",
		}
	},
	"Emotional Traits": func(p string) tieredCopy {
		return tieredCopy{
			low:    "Your emotional self-awareness matches how others see you.",
			medium: fmt.Sprintf("You assess your emotional intelligence %s others experience it. Consider reflecting on your emotional expressions.", p),
			high:   "There's a major disconnect between your perception of your emotional traits and how others experience them. This is an important area for growth.",
		}
	},
	"Physical Traits": func(p string) tieredCopy {
		return tieredCopy{
			low:    "Your physical self-perception aligns with external perceptions.",
			medium: fmt.Sprintf("You view your physical presentation %s others observe it. Consider how your appearance and presence comes across to others.", p),
			high:   "There's a significant mismatch between how you see your physical traits and how others perceive them. This could be affecting your relationships.",
		}
	},
	"Financial Traits": func(p string) tieredCopy {
		return tieredCopy{
			low:    "Your financial self-assessment matches external perception.",
			medium: fmt.Sprintf("You rate your financial habits %s others perceive them. Consider if you're being realistic about your financial discipline.", p),
			high:   "There's a major disconnect between how you view your financial traits and how others see them. This area might need serious recalibration.",
		}
	},
	"Family & Cultural Compatibility": func(p string) tieredCopy {
		return tieredCopy{
			low:    "Your assessment of your cultural adaptability matches others' perceptions.",
			medium: fmt.Sprintf("You rate your family and cultural compatibility %s others see it. Consider how your actions may be interpreted differently.", p),
			high:   "There's a significant gap between how you view your cultural adaptability and how others experience it. This could be causing relationship friction.",
		}
	},
	"Conflict Resolution Style": func(p string) tieredCopy {
		return tieredCopy{
			low:    "Your conflict resolution self-assessment aligns with how others see you.",
			medium: fmt.Sprintf("You perceive your conflict resolution abilities %s others experience them. Reflect on how you handle disagreements.", p),
			high:   "There's a major disconnect between how you view your conflict resolution style and how others experience it. This is a critical area for improvement.",
		}
	},
}

var defaultDelusionalFeedback = tieredCopy{
	low:    "Your self-perception in this area matches how others see you.",
	medium: "There's a moderate gap between your self-perception and others' perception in this area.",
	high:   "There's a significant gap between how you see yourself and how others perceive you in this area.",
}

func DelusionalFeedback(category string, gap GapScore, selfScore, externalScore float64) string {
	return defaultScorer.DelusionalFeedback(category, gap, selfScore, externalScore)
}

// DelusionalFeedback explains one category gap. The direction of the gap
// only shows up here, in the wording.
func (s *Scorer) DelusionalFeedback(category string, gap GapScore, selfScore, externalScore float64) string {
	perception := "lower than"
	if selfScore > externalScore {
		perception = "higher than"
	}
	tiers := defaultDelusionalFeedback
	if build, ok := delusionalFeedback[category]; ok {
		tiers = build(perception)
	}
	switch s.StatusForGap(gap) {
	case SelfAware:
		return tiers.low
	case BlindSpot:
		return tiers.medium
	default:
		return tiers.high
	}
}

func OverallDelusionalFeedback(score GapScore) string {
	return defaultScorer.OverallDelusionalFeedback(score)
}

// OverallDelusionalFeedback explains an overall gap score.
func (s *Scorer) OverallDelusionalFeedback(score GapScore) string {
	switch s.StatusForGap(score) {
	case SelfAware:
		return "You have exceptional self-awareness! Your perception of yourself closely aligns with how others see you, which is a strong foundation for personal growth and authentic relationships."
	case BlindSpot:
		return "You have some blind spots in how you see yourself compared to how others perceive you. This is normal, and being aware of these gaps is the first step toward greater self-awareness."
	default:
		return "There are significant differences between your self-perception and how others see you. This disconnect could be affecting your relationships and personal growth. Consider open conversations with trusted friends for honest feedback."
	}
}
