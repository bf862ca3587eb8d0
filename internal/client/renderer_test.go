package client

import (
	"testing"

	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage_WelcomeState(t *testing.T) {
	page := NewPage("2024-01-01")

	assert.Equal(t, "2024-01-01", page.Field(FieldDate))
	assert.False(t, page.WelcomeHidden)
	assert.True(t, page.Result.Hidden)
	assert.True(t, page.BreakdownHidden)
	assert.Empty(t, page.Breakdown)
}

func TestRender_EndToEndScenario(t *testing.T) {
	page := NewPage("2024-01-01")

	NewRenderer(page).Render(theftResponse())

	assert.True(t, page.WelcomeHidden)
	assert.False(t, page.Result.Hidden)
	assert.False(t, page.BreakdownHidden)
	assert.Equal(t, "THEFT", page.Result.Category)
	assert.Equal(t, []string{"GRAND LARCENY"}, page.Result.Subcategories)
	assert.Equal(t, "72.0%", page.Result.ConfidenceLabel)
	assert.Equal(t, "72.0%", page.Result.ProgressWidth)

	require.Len(t, page.Breakdown, 2)
	assert.Equal(t, RiskCard{
		Name: "THEFT", Value: "72.0%", BarWidth: "72.0%", Tier: domain.TierHigh, Class: "risk-item-card high card",
	}, page.Breakdown[0])
	assert.Equal(t, RiskCard{
		Name: "ASSAULT", Value: "25.0%", BarWidth: "25.0%", Tier: domain.TierLow, Class: "risk-item-card low card",
	}, page.Breakdown[1])
}

func TestRender_TruncatesSubcategoriesToEight(t *testing.T) {
	page := NewPage("2024-01-01")
	resp := domain.PredictionResponse{
		TopPrediction: &domain.CategoryPrediction{
			Category:   "PROPERTY",
			Confidence: 0.55,
			Subcategories: []string{
				"BURGLARY", "PETIT LARCENY", "GRAND LARCENY", "ROBBERY", "THEFT-FRAUD",
				"GRAND LARCENY OF MOTOR VEHICLE", "FORGERY", "JOSTLING", "ARSON",
			},
		},
	}

	NewRenderer(page).Render(resp)

	assert.Len(t, page.Result.Subcategories, 8)
	assert.Equal(t, "JOSTLING", page.Result.Subcategories[7])
}

func TestRender_IsIdempotentAndReplacesPreviousResult(t *testing.T) {
	page := NewPage("2024-01-01")
	r := NewRenderer(page)

	r.Render(theftResponse())
	r.Render(theftResponse())
	require.Len(t, page.Breakdown, 2, "breakdown is rebuilt, not appended")

	r.Render(domain.PredictionResponse{
		TopPrediction: &domain.CategoryPrediction{Category: "SEXUAL", Confidence: 0.45},
		AllPredictions: []domain.CategoryPrediction{
			{Category: "SEXUAL", Confidence: 0.45},
		},
	})

	assert.Equal(t, "SEXUAL", page.Result.Category)
	assert.Empty(t, page.Result.Subcategories)
	assert.Equal(t, "45.0%", page.Result.ConfidenceLabel)
	require.Len(t, page.Breakdown, 1)
	assert.Equal(t, domain.TierMedium, page.Breakdown[0].Tier)
}

func TestRender_TierBoundaries(t *testing.T) {
	page := NewPage("2024-01-01")
	resp := domain.PredictionResponse{
		TopPrediction: &domain.CategoryPrediction{Category: "A", Confidence: 0.61},
		AllPredictions: []domain.CategoryPrediction{
			{Category: "A", Confidence: 0.61},
			{Category: "B", Confidence: 0.60},
			{Category: "C", Confidence: 0.31},
			{Category: "D", Confidence: 0.30},
		},
	}

	NewRenderer(page).Render(resp)

	tiers := make([]domain.Tier, len(page.Breakdown))
	for i, c := range page.Breakdown {
		tiers[i] = c.Tier
	}
	assert.Equal(t, []domain.Tier{domain.TierHigh, domain.TierMedium, domain.TierMedium, domain.TierLow}, tiers)
}
