package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBridalPriceRegionalBase(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores: []CategoryScore{
			{Category: "Mental Traits", Percentage: 100, Weight: 1},
			{Category: "Emotional Traits", Percentage: 100, Weight: 1},
		},
		Region: "west_africa",
	})

	assert.False(t, result.SalaryBased)
	assert.Equal(t, 1.3, result.RegionMultiplier)
	assert.Equal(t, float64(DefaultBaseValue), result.BaseValue)
	assert.InDelta(t, 13000, result.TotalPrice, 1e-6)
	assert.Equal(t, "$13,000", result.FormattedPrice)
	assert.Equal(t, "$", result.CurrencySymbol)
	require.Len(t, result.CategoryValues, 2)
	assert.InDelta(t, 6500, result.CategoryValues[0].Value, 1e-6)
	assert.Equal(t, "$6,500", result.CategoryValues[1].FormattedValue)
}

func TestCalculateBridalPriceBreakdownIsProportional(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores: []CategoryScore{
			{Category: "Mental Traits", Percentage: 80, Weight: 1},
			{Category: "Financial Traits", Percentage: 20, Weight: 1},
		},
	})

	assert.Equal(t, DefaultRegion, result.Region)
	assert.Equal(t, 1.0, result.RegionMultiplier)
	assert.InDelta(t, 5000, result.TotalPrice, 1e-9)
	require.Len(t, result.CategoryValues, 2)
	assert.InDelta(t, 4000, result.CategoryValues[0].Value, 1e-9)
	assert.InDelta(t, 1000, result.CategoryValues[1].Value, 1e-9)

	var sum float64
	for _, v := range result.CategoryValues {
		sum += v.Value
	}
	assert.InDelta(t, result.TotalPrice, sum, 1e-9)
}

func TestCalculateBridalPriceUnknownRegion(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores: []CategoryScore{{Category: "Mental Traits", Percentage: 50, Weight: 1}},
		BaseValue:      2000,
		Region:         "atlantis",
	})

	assert.Equal(t, "atlantis", result.Region)
	assert.Equal(t, 1.0, result.RegionMultiplier)
	assert.InDelta(t, 1000, result.TotalPrice, 1e-9)
}

func TestCalculateBridalPriceSalaryBased(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores: []CategoryScore{
			{Category: "Mental Traits", Percentage: 60, Weight: 1.3},
			{Category: "Physical Traits", Percentage: 40, Weight: 0.8},
		},
		Region:           "europe",
		PartnerIncome:    50000,
		TargetPercentage: 20,
	})

	assert.True(t, result.SalaryBased)
	assert.InDelta(t, 10000, result.TotalPrice, 1e-6)
	assert.Equal(t, "$10,000", result.FormattedPrice)
	assert.InDelta(t, 6000, result.CategoryValues[0].Value, 1e-6)
	assert.InDelta(t, 4000, result.CategoryValues[1].Value, 1e-6)
}

func TestCalculateBridalPriceSalaryNeedsBothInputs(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores: []CategoryScore{{Category: "Mental Traits", Percentage: 100, Weight: 1}},
		PartnerIncome:  50000,
	})

	assert.False(t, result.SalaryBased)
	assert.InDelta(t, 10000, result.TotalPrice, 1e-9)
}

func TestCalculateBridalPriceNaNPropagates(t *testing.T) {
	result := CalculateBridalPrice(BridalPriceInput{
		CategoryScores:   []CategoryScore{{Category: "Mental Traits", Percentage: 50, Weight: 1}},
		PartnerIncome:    math.NaN(),
		TargetPercentage: 20,
	})

	assert.True(t, math.IsNaN(result.TotalPrice))
	assert.Equal(t, "$NaN", result.FormattedPrice)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "$999", FormatCurrency(999.4))
	assert.Equal(t, "$12,346", FormatCurrency(12345.5))
	assert.Equal(t, "$1,234,567", FormatCurrency(1234567.4))
	assert.Equal(t, "-$1,500", FormatCurrency(-1500))
	assert.Equal(t, "$NaN", FormatCurrency(math.NaN()))
	assert.Equal(t, "$∞", FormatCurrency(math.Inf(1)))
	assert.Equal(t, "-$∞", FormatCurrency(math.Inf(-1)))
}
