package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

func TestCompatibilityCalculate(t *testing.T) {
	f := newFixture()
	f.addProfile("alice", "female", "", "")
	f.addProfile("bob", "male", "", "")
	ctx := context.Background()
	relationship := partner(t, f, "alice", "bob")

	_, err := f.compatibility.Calculate(ctx, relationship.ID, "alice")
	assert.ErrorIs(t, err, scoring.ErrInsufficientData)

	_, err = f.compatibility.Latest(ctx, relationship.ID, "alice")
	assert.ErrorIs(t, err, scoring.ErrInsufficientData)

	_, err = f.assessments.Submit(ctx, "alice", "", answers(scoring.WifeMaterial, flat(4)))
	require.NoError(t, err)

	_, err = f.compatibility.Calculate(ctx, relationship.ID, "alice")
	assert.ErrorIs(t, err, scoring.ErrInsufficientData, "bob has not taken an assessment")

	_, err = f.assessments.Submit(ctx, "bob", "", answers(scoring.HighValueMan, flat(4)))
	require.NoError(t, err)

	report, err := f.compatibility.Calculate(ctx, relationship.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, relationship.ID, report.RelationshipID)
	assert.InDelta(t, 100, report.OverallPercentage, 1e-9)
	assert.Equal(t, "Perfect Match", report.Badge)
	require.Len(t, report.Categories, 6)
	for _, c := range report.Categories {
		assert.NotEmpty(t, c.Suggestion, c.Category)
	}

	latest, err := f.compatibility.Latest(ctx, relationship.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, report.ID, latest.ID)
}

func TestCompatibilityRecalculationKeepsHistory(t *testing.T) {
	f := newFixture()
	f.addProfile("alice", "female", "", "")
	f.addProfile("bob", "male", "", "")
	ctx := context.Background()
	relationship := partner(t, f, "alice", "bob")

	_, err := f.assessments.Submit(ctx, "alice", "", answers(scoring.WifeMaterial, flat(5)))
	require.NoError(t, err)
	_, err = f.assessments.Submit(ctx, "bob", "", answers(scoring.HighValueMan, flat(5)))
	require.NoError(t, err)

	first, err := f.compatibility.Calculate(ctx, relationship.ID, "alice")
	require.NoError(t, err)

	_, err = f.assessments.Submit(ctx, "bob", "", answers(scoring.HighValueMan, flat(3)))
	require.NoError(t, err)
	second, err := f.compatibility.Calculate(ctx, relationship.ID, "alice")
	require.NoError(t, err)

	assert.Len(t, f.store.compatibility, 2)
	assert.Less(t, second.OverallPercentage, first.OverallPercentage)

	latest, err := f.compatibility.Latest(ctx, relationship.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	trend, err := f.compatibility.Summary(ctx, relationship.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, trend.Count)
	assert.Equal(t, relationship.ID, trend.RelationshipID)
	assert.InDelta(t, (first.OverallPercentage+second.OverallPercentage)/2, float64(trend.OverallPercentage), 1e-9)
	assert.Equal(t, first.AnalysisDate, trend.FirstAnalysis)
	assert.Equal(t, second.AnalysisDate, trend.LatestAnalysis)
	assert.Len(t, trend.Categories, len(second.Categories))
	assert.NotEmpty(t, trend.Badge)
}

func TestCompatibilityMembership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	relationship := partner(t, f, "alice", "bob")

	_, err := f.compatibility.Calculate(ctx, relationship.ID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.compatibility.Latest(ctx, relationship.ID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.compatibility.Summary(ctx, relationship.ID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.compatibility.Summary(ctx, relationship.ID, "alice")
	assert.ErrorIs(t, err, scoring.ErrInsufficientData, "nothing calculated yet")

	_, err = f.compatibility.Calculate(ctx, "missing", "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
