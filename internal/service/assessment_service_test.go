package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

func TestSubmitScoresAndStoresSnapshot(t *testing.T) {
	f := newFixture()
	f.addProfile("u1", "female", "europe", "")
	ctx := context.Background()

	history, err := f.assessments.Submit(ctx, "u1", "", answers(scoring.WifeMaterial, flat(4)))
	require.NoError(t, err)

	assert.NotEmpty(t, history.ID)
	assert.Equal(t, scoring.WifeMaterial, history.AssessmentType)
	assert.InDelta(t, 80, history.OverallPercentage, 1e-9)
	assert.Equal(t, "Strong Life Partner", history.Badge)
	assert.Len(t, history.LowestCategories, 2)
	for _, r := range history.Responses {
		assert.NotEmpty(t, r.Category, "category filled from the catalog")
		assert.NotZero(t, r.Weight)
	}

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, EventAssessmentCompleted, f.bus.events[0])
	ev := f.bus.data[0].(AssessmentCompletedEvent)
	assert.Equal(t, history.ID, ev.HistoryID)

	latest, err := f.assessments.Latest(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, history.ID, latest.ID)
}

func TestSubmitRejectsBadResponses(t *testing.T) {
	good := answers(scoring.HighValueMan, flat(3))
	tests := []struct {
		name      string
		responses []scoring.Response
	}{
		{"empty", nil},
		{"unknown question", []scoring.Response{{QuestionID: "nope", Score: 3}}},
		{"zero score", []scoring.Response{{QuestionID: good[0].QuestionID, Score: 0}}},
		{"above scale", []scoring.Response{{QuestionID: good[0].QuestionID, Score: 6}}},
		{"nan", []scoring.Response{{QuestionID: good[0].QuestionID, Score: math.NaN()}}},
		{"duplicate", []scoring.Response{good[0], good[0]}},
		{"partial", good[:1]},
		{"one missing", good[1:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addProfile("u1", "male", "", "")
			_, err := f.assessments.Submit(context.Background(), "u1", "", tt.responses)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.store.histories)
			assert.Empty(t, f.bus.events)
		})
	}
}

func TestResolveType(t *testing.T) {
	f := newFixture()
	f.addProfile("man", "male", "", "")
	f.addProfile("bride", "female", "africa", "african")
	f.addProfile("unset", "", "", "")
	ctx := context.Background()

	got, err := f.assessments.ResolveType(ctx, "man", "")
	require.NoError(t, err)
	assert.Equal(t, scoring.HighValueMan, got)

	got, err = f.assessments.ResolveType(ctx, "bride", "")
	require.NoError(t, err)
	assert.Equal(t, scoring.BridalPrice, got)

	_, err = f.assessments.ResolveType(ctx, "man", scoring.WifeMaterial)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.assessments.ResolveType(ctx, "unset", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.assessments.ResolveType(ctx, "ghost", "")
	assert.ErrorIs(t, err, ErrInvalidInput, "no profile and no requested type")

	got, err = f.assessments.ResolveType(ctx, "ghost", scoring.WifeMaterial)
	require.NoError(t, err)
	assert.Equal(t, scoring.WifeMaterial, got)

	_, err = f.assessments.ResolveType(ctx, "man", "astrology")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuestions(t *testing.T) {
	f := newFixture()

	set, err := f.assessments.Questions(scoring.HighValueMan)
	require.NoError(t, err)
	assert.Equal(t, "High-Value Man Assessment", set.Name)
	assert.NotEmpty(t, set.Questions)
	assert.Len(t, set.Categories, 6)

	_, err = f.assessments.Questions("astrology")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetChecksOwnership(t *testing.T) {
	f := newFixture()
	f.addProfile("u1", "male", "", "")
	ctx := context.Background()

	history, err := f.assessments.Submit(ctx, "u1", "", answers(scoring.HighValueMan, flat(3)))
	require.NoError(t, err)

	_, err = f.assessments.Get(ctx, "u2", history.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.assessments.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	suggestions, err := f.assessments.Suggestions(ctx, "u1", history.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}

func TestProgress(t *testing.T) {
	f := newFixture()
	f.addProfile("u1", "male", "", "")
	ctx := context.Background()

	_, err := f.assessments.Progress(ctx, "u1", scoring.HighValueMan)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	for _, score := range []float64{3, 2, 4} {
		_, err := f.assessments.Submit(ctx, "u1", "", answers(scoring.HighValueMan, flat(score)))
		require.NoError(t, err)
	}

	report, err := f.assessments.Progress(ctx, "u1", scoring.HighValueMan)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Attempts)
	assert.InDelta(t, 60, report.InitialPercentage, 1e-9)
	assert.InDelta(t, 80, report.LatestPercentage, 1e-9)
	assert.InDelta(t, 20, report.Improvement, 1e-9)
	require.Len(t, report.Categories, 6)
	for _, c := range report.Categories {
		assert.InDelta(t, 20, c.Change, 1e-9, c.Category)
	}

	_, err = f.assessments.Progress(ctx, "u1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBridalPrice(t *testing.T) {
	f := newFixture()
	f.addProfile("u1", "female", "africa", "african")
	ctx := context.Background()

	_, err := f.assessments.BridalPrice(ctx, "u1", BridalPriceRequest{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.assessments.Submit(ctx, "u1", "", answers(scoring.BridalPrice, flat(5)))
	require.NoError(t, err)

	result, err := f.assessments.BridalPrice(ctx, "u1", BridalPriceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "africa", result.Region, "region comes from the profile")
	assert.InDelta(t, 1.2, result.RegionMultiplier, 1e-9)
	assert.InDelta(t, scoring.DefaultBaseValue*1.2, result.TotalPrice, 1e-6)
	assert.False(t, result.SalaryBased)

	result, err = f.assessments.BridalPrice(ctx, "u1", BridalPriceRequest{
		Region:           "europe",
		PartnerIncome:    50000,
		TargetPercentage: 10,
	})
	require.NoError(t, err)
	assert.True(t, result.SalaryBased)
	assert.InDelta(t, 5000, result.TotalPrice, 1e-9)
	assert.Equal(t, "$5,000", result.FormattedPrice)

	_, err = f.assessments.BridalPrice(ctx, "u1", BridalPriceRequest{TargetPercentage: 120})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.assessments.BridalPrice(ctx, "u1", BridalPriceRequest{BaseValue: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReportRendersPDF(t *testing.T) {
	f := newFixture()
	f.addProfile("u1", "male", "", "")
	ctx := context.Background()

	history, err := f.assessments.Submit(ctx, "u1", "", answers(scoring.HighValueMan, flat(4)))
	require.NoError(t, err)

	pdf, err := f.assessments.Report(ctx, "u1", history.ID)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	_, err = f.assessments.Report(ctx, "u2", history.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
