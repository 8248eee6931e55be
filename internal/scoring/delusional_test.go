package scoring

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDelusionalScoreAveragesRaters(t *testing.T) {
	self := []CategoryScore{{Category: "Emotional Traits", Percentage: 40}}
	externals := [][]CategoryScore{
		{{Category: "Emotional Traits", Percentage: 70}},
		{{Category: "Emotional Traits", Percentage: 90}},
	}

	result, err := CalculateDelusionalScore(self, externals)

	require.NoError(t, err)
	require.Len(t, result.CategoryGaps, 1)
	gap := result.CategoryGaps[0]
	assert.Equal(t, 80.0, gap.ExternalScore)
	assert.Equal(t, 40.0, gap.SelfScore)
	assert.Equal(t, GapScore(40), gap.Gap)
	assert.Equal(t, Delusional, gap.Status)
	assert.Equal(t, GapScore(40), result.OverallScore)
	assert.Equal(t, Delusional, result.Status)
	assert.Equal(t, 2, result.ExternalAssessmentCount)
}

func TestCalculateDelusionalScoreOverallIsMeanGap(t *testing.T) {
	self := []CategoryScore{
		{Category: "Mental Traits", Percentage: 90},
		{Category: "Financial Traits", Percentage: 50},
	}
	externals := [][]CategoryScore{{
		{Category: "Mental Traits", Percentage: 85},
		{Category: "Financial Traits", Percentage: 70},
	}}

	result, err := CalculateDelusionalScore(self, externals)

	require.NoError(t, err)
	assert.Equal(t, GapScore(12.5), result.OverallScore)
	assert.Equal(t, BlindSpot, result.Status)
	assert.Equal(t, SelfAware, result.CategoryGaps[0].Status)
	assert.Equal(t, BlindSpot, result.CategoryGaps[1].Status)
}

func TestCalculateDelusionalScoreSkipsUnratedCategories(t *testing.T) {
	self := []CategoryScore{
		{Category: "Mental Traits", Percentage: 60},
		{Category: "Physical Traits", Percentage: 20},
	}
	externals := [][]CategoryScore{
		{{Category: "Mental Traits", Percentage: 60}},
		{{Category: "Financial Traits", Percentage: 10}},
	}

	result, err := CalculateDelusionalScore(self, externals)

	require.NoError(t, err)
	require.Len(t, result.CategoryGaps, 1)
	assert.Equal(t, 60.0, result.CategoryGaps[0].ExternalScore)
	assert.Equal(t, GapScore(0), result.OverallScore)
	assert.Equal(t, SelfAware, result.Status)
	assert.Equal(t, 2, result.ExternalAssessmentCount)
}

func TestCalculateDelusionalScoreUnavailable(t *testing.T) {
	self := []CategoryScore{{Category: "Mental Traits", Percentage: 60}}

	_, err := CalculateDelusionalScore(self, nil)
	assert.True(t, errors.Is(err, ErrInsufficientData), "no raters")

	_, err = CalculateDelusionalScore(nil, [][]CategoryScore{{{Category: "Mental Traits", Percentage: 60}}})
	assert.True(t, errors.Is(err, ErrInsufficientData), "no self assessment")

	_, err = CalculateDelusionalScore(self, [][]CategoryScore{{{Category: "Physical Traits", Percentage: 60}}})
	assert.True(t, errors.Is(err, ErrInsufficientData), "no overlap")
}

func TestStatusForGapBoundaries(t *testing.T) {
	assert.Equal(t, SelfAware, StatusForGap(0))
	assert.Equal(t, SelfAware, StatusForGap(10))
	assert.Equal(t, BlindSpot, StatusForGap(10.01))
	assert.Equal(t, BlindSpot, StatusForGap(25))
	assert.Equal(t, Delusional, StatusForGap(25.01))
}

func TestDelusionalFeedback(t *testing.T) {
	assert.Equal(t, "You have a clear understanding of your mental traits.",
		DelusionalFeedback("Mental Traits", 5, 80, 75))
	assert.Contains(t, DelusionalFeedback("Financial Traits", 15, 80, 65), "higher than")
	assert.Contains(t, DelusionalFeedback("Financial Traits", 15, 50, 65), "lower than")
	assert.Equal(t, "There's a significant gap between how you see yourself and how others perceive you in this area.",
		DelusionalFeedback("Hobbies", 40, 90, 50))
}

func TestOverallDelusionalFeedback(t *testing.T) {
	assert.Contains(t, OverallDelusionalFeedback(3), "exceptional self-awareness")
	assert.Contains(t, OverallDelusionalFeedback(20), "blind spots")
	assert.Contains(t, OverallDelusionalFeedback(60), "significant differences")
}

func TestDelusionalFeedbackFollowsScorerTables(t *testing.T) {
	tables := DefaultTables()
	tables.GapBands = []GapBand{{Max: 50, Status: SelfAware}}
	s := New(nil, tables)

	result, err := s.CalculateDelusionalScore(
		[]CategoryScore{{Category: "Mental Traits", Percentage: 40}},
		[][]CategoryScore{{{Category: "Mental Traits", Percentage: 80}}},
	)
	require.NoError(t, err)
	assert.Equal(t, SelfAware, result.Status)
	assert.Equal(t, SelfAware, s.StatusForGap(result.OverallScore))
	assert.Contains(t, s.OverallDelusionalFeedback(result.OverallScore), "exceptional self-awareness")

	gap := result.CategoryGaps[0]
	assert.Equal(t, "You have a clear understanding of your mental traits.",
		s.DelusionalFeedback(gap.Category, gap.Gap, gap.SelfScore, gap.ExternalScore))

	assert.Equal(t, Delusional, StatusForGap(result.OverallScore), "package helpers keep the default bands")
	assert.Contains(t, OverallDelusionalFeedback(result.OverallScore), "significant differences")
}

func TestSummarizeExternal(t *testing.T) {
	assert.Nil(t, SummarizeExternal(nil))

	summary := SummarizeExternal([]ExternalScoreSet{
		{
			AssessmentType:    HighValueMan,
			OverallScore:      200,
			OverallPercentage: 60,
			CategoryScores: []CategoryScore{
				{Category: "Mental Traits", Score: 30, Percentage: 60},
			},
		},
		{
			AssessmentType:    HighValueMan,
			OverallScore:      100,
			OverallPercentage: 80,
			CategoryScores: []CategoryScore{
				{Category: "Mental Traits", Score: 40, Percentage: 80},
				{Category: "Physical Traits", Score: 20, Percentage: 40},
			},
		},
	})

	require.NotNil(t, summary)
	assert.Equal(t, HighValueMan, summary.AssessmentType)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 150.0, summary.AverageScore)
	assert.Equal(t, 70.0, summary.AveragePercentage)
	require.Len(t, summary.CategoryAverages, 2)
	assert.Equal(t, CategoryAverage{Category: "Mental Traits", AverageScore: 35, AveragePercentage: 70}, summary.CategoryAverages[0])
	assert.Equal(t, CategoryAverage{Category: "Physical Traits", AverageScore: 20, AveragePercentage: 40}, summary.CategoryAverages[1])
}
