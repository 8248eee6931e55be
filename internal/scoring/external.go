package scoring

// ExternalScoreSet is what one rater produced for a user.
type ExternalScoreSet struct {
	AssessmentType    AssessmentType
	CategoryScores    []CategoryScore
	OverallScore      float64
	OverallPercentage float64
}

// CategoryAverage is the mean of one category across raters.
type CategoryAverage struct {
	Category          string  `json:"category"`
	AverageScore      float64 `json:"average_score"`
	AveragePercentage float64 `json:"average_percentage"`
}

// ExternalSummary averages every rater's result for a user.
type ExternalSummary struct {
	AssessmentType    AssessmentType    `json:"assessment_type"`
	Count             int               `json:"count"`
	AverageScore      float64           `json:"average_score"`
	AveragePercentage float64           `json:"average_percentage"`
	CategoryAverages  []CategoryAverage `json:"category_averages"`
}

// SummarizeExternal averages external results. It returns nil when there
// are none. The assessment type is taken from the first result.
func SummarizeExternal(results []ExternalScoreSet) *ExternalSummary {
	if len(results) == 0 {
		return nil
	}

	type acc struct {
		score, percentage float64
		count             int
	}
	var (
		order  []string
		totals = make(map[string]*acc)
		sum    acc
	)
	for _, r := range results {
		sum.score += r.OverallScore
		sum.percentage += r.OverallPercentage
		for _, cs := range r.CategoryScores {
			a, ok := totals[cs.Category]
			if !ok {
				a = &acc{}
				totals[cs.Category] = a
				order = append(order, cs.Category)
			}
			a.score += cs.Score
			a.percentage += cs.Percentage
			a.count++
		}
	}

	averages := make([]CategoryAverage, 0, len(order))
	for _, name := range order {
		a := totals[name]
		averages = append(averages, CategoryAverage{
			Category:          name,
			AverageScore:      a.score / float64(a.count),
			AveragePercentage: a.percentage / float64(a.count),
		})
	}

	n := float64(len(results))
	return &ExternalSummary{
		AssessmentType:    results[0].AssessmentType,
		Count:             len(results),
		AverageScore:      sum.score / n,
		AveragePercentage: sum.percentage / n,
		CategoryAverages:  averages,
	}
}
