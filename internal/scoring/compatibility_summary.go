package scoring

// CompatibilitySummary averages every stored comparison of one couple.
type CompatibilitySummary struct {
	Count             int                     `json:"count"`
	OverallPercentage MatchPercentage         `json:"overall_percentage"`
	Categories        []CategoryCompatibility `json:"category_scores"`
}

// SummarizeCompatibility averages compatibility results. Each category is
// averaged over the results that contain it, matched by normalized name and
// listed in first-seen order. It returns nil when there are no results.
func SummarizeCompatibility(results []CompatibilityResult) *CompatibilitySummary {
	if len(results) == 0 {
		return nil
	}

	type acc struct {
		sum   CategoryCompatibility
		count int
	}
	var (
		order   []string
		totals  = make(map[string]*acc)
		overall float64
	)
	for _, r := range results {
		overall += float64(r.OverallPercentage)
		for _, c := range r.Categories {
			key := categoryKey(c.Category)
			a, ok := totals[key]
			if !ok {
				a = &acc{sum: CategoryCompatibility{Category: c.Category}}
				totals[key] = a
				order = append(order, key)
			}
			a.sum.User1Score += c.User1Score
			a.sum.User2Score += c.User2Score
			a.sum.NormalizedUser1 += c.NormalizedUser1
			a.sum.NormalizedUser2 += c.NormalizedUser2
			a.sum.MatchPercentage += c.MatchPercentage
			a.count++
		}
	}

	categories := make([]CategoryCompatibility, 0, len(order))
	for _, key := range order {
		a := totals[key]
		n := float64(a.count)
		categories = append(categories, CategoryCompatibility{
			Category:        a.sum.Category,
			User1Score:      a.sum.User1Score / n,
			User2Score:      a.sum.User2Score / n,
			NormalizedUser1: a.sum.NormalizedUser1 / n,
			NormalizedUser2: a.sum.NormalizedUser2 / n,
			MatchPercentage: a.sum.MatchPercentage / MatchPercentage(n),
		})
	}

	return &CompatibilitySummary{
		Count:             len(results),
		OverallPercentage: MatchPercentage(overall / float64(len(results))),
		Categories:        categories,
	}
}
