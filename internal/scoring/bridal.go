package scoring

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultBaseValue = 10000
	DefaultRegion    = "global"
)

// BridalPriceInput parameterizes the bridal price estimate. When both
// PartnerIncome and TargetPercentage are non-zero the estimate is a share of
// the partner's income instead of the regional base value.
type BridalPriceInput struct {
	CategoryScores   []CategoryScore `json:"category_scores"`
	BaseValue        float64         `json:"base_value"`
	Region           string          `json:"region"`
	PartnerIncome    float64         `json:"partner_income"`
	TargetPercentage float64         `json:"target_percentage"`
}

// CategoryValue is one category's share of the estimate.
type CategoryValue struct {
	Category       string  `json:"category"`
	Value          float64 `json:"value"`
	Percentage     float64 `json:"percentage"`
	FormattedValue string  `json:"formatted_value"`
}

// BridalPriceResult is a monetary estimate with a per-category breakdown.
type BridalPriceResult struct {
	TotalPrice       float64         `json:"total_price"`
	FormattedPrice   string          `json:"formatted_price"`
	CategoryValues   []CategoryValue `json:"category_values"`
	CurrencySymbol   string          `json:"currency_symbol"`
	RegionMultiplier float64         `json:"region_multiplier"`
	Region           string          `json:"region"`
	BaseValue        float64         `json:"base_value"`
	SalaryBased      bool            `json:"salary_based"`
}

// CalculateBridalPrice estimates a bridal price with the default tables.
func CalculateBridalPrice(in BridalPriceInput) BridalPriceResult {
	return defaultScorer.CalculateBridalPrice(in)
}

// CalculateBridalPrice estimates a bridal price. Inputs are not sanitized:
// negative or NaN numbers carry through to the output.
func (s *Scorer) CalculateBridalPrice(in BridalPriceInput) BridalPriceResult {
	if in.BaseValue == 0 {
		in.BaseValue = DefaultBaseValue
	}
	if in.Region == "" {
		in.Region = DefaultRegion
	}
	multiplier := s.tables.regionMultiplier(in.Region)

	var weighted, weightedMax, percentagePoints float64
	for _, cs := range in.CategoryScores {
		weighted += cs.Percentage * cs.Weight
		weightedMax += 100 * cs.Weight
		percentagePoints += cs.Percentage
	}

	salaryBased := in.PartnerIncome != 0 && in.TargetPercentage != 0
	var total float64
	if salaryBased {
		total = in.PartnerIncome * (in.TargetPercentage / 100)
	} else {
		total = in.BaseValue * multiplier * (weighted / weightedMax)
	}

	values := make([]CategoryValue, 0, len(in.CategoryScores))
	for _, cs := range in.CategoryScores {
		v := total * cs.Percentage / percentagePoints
		values = append(values, CategoryValue{
			Category:       cs.Category,
			Value:          v,
			Percentage:     cs.Percentage,
			FormattedValue: FormatCurrency(v),
		})
	}

	return BridalPriceResult{
		TotalPrice:       total,
		FormattedPrice:   FormatCurrency(total),
		CategoryValues:   values,
		CurrencySymbol:   "$",
		RegionMultiplier: multiplier,
		Region:           in.Region,
		BaseValue:        in.BaseValue,
		SalaryBased:      salaryBased,
	}
}

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole US dollars with thousands separators.
func FormatCurrency(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "$NaN"
	case math.IsInf(amount, 1):
		return "$∞"
	case math.IsInf(amount, -1):
		return "-$∞"
	}
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + currencyPrinter.Sprintf("%d", -rounded)
	}
	return "$" + currencyPrinter.Sprintf("%d", rounded)
}
