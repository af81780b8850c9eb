package insights_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/analytics/engine/aggregate"
	"github.com/salesboard/analytics/engine/insights"
	"github.com/salesboard/analytics/engine/models"
)

func rows(stat string, values map[string]float64) []aggregate.Row {
	out := make([]aggregate.Row, 0, len(values))
	for label, v := range values {
		out = append(out, aggregate.Row{
			Key:   []string{label},
			Label: label,
			Stats: map[string]float64{stat: v},
		})
	}
	return out
}

func fullInputs() insights.Inputs {
	customers := make(map[string]float64, 10)
	for i := 0; i < 10; i++ {
		customers[fmt.Sprintf("c%d", i)] = float64((i + 1) * 1000)
	}
	return insights.Inputs{
		Country:       rows("revenue", map[string]float64{"United States": 5e6, "Germany": 1e6, "France": 2e6}),
		ProductProfit: rows("profit", map[string]float64{"Mountain-100": 80000, "Road-250": 50000}),
		CustomerValue: customers,
		Channel:       rows("revenue", map[string]float64{"Internet": 4e6, "Reseller": 3e6}),
		Seasonal:      rows("avg_revenue", map[string]float64{"December": 900000, "June": 400000}),
		Summary: &models.Summary{
			TotalProfit:     2.5e6,
			AvgProfitMargin: models.Float(41.2),
		},
	}
}

func TestBuild_FullDatasetYieldsEveryCategoryInOrder(t *testing.T) {
	recs := insights.Build(fullInputs())
	require.Len(t, recs, 6)

	wantOrder := []string{
		models.CategoryGeographic,
		models.CategoryProduct,
		models.CategoryRetention,
		models.CategoryChannel,
		models.CategorySeasonal,
		models.CategoryProfitability,
	}
	for i, rec := range recs {
		assert.Equal(t, wantOrder[i], rec.Category)
		assert.NotEmpty(t, rec.Priority)
		assert.NotEmpty(t, rec.Finding)
		assert.NotEmpty(t, rec.Impact)
	}
}

func TestBuild_GeographicNamesExtremes(t *testing.T) {
	recs := insights.Build(fullInputs())
	geo := recs[0]

	assert.Contains(t, geo.Finding, "Germany", "weakest market drives the finding")
	assert.Contains(t, geo.Finding, "United States", "strongest market is the benchmark")
	assert.Equal(t, models.PriorityHigh, geo.Priority)
}

func TestBuild_SingleChannelSkipsChannelCategory(t *testing.T) {
	in := fullInputs()
	in.Channel = rows("revenue", map[string]float64{"Internet": 4e6})

	recs := insights.Build(in)
	require.Len(t, recs, 5)
	for _, rec := range recs {
		assert.NotEqual(t, models.CategoryChannel, rec.Category)
	}
}

func TestBuild_SingleCountrySkipsGeographic(t *testing.T) {
	in := fullInputs()
	in.Country = rows("revenue", map[string]float64{"United States": 5e6})

	recs := insights.Build(in)
	for _, rec := range recs {
		assert.NotEqual(t, models.CategoryGeographic, rec.Category)
	}
}

func TestBuild_UndefinedMarginSkipsProfitability(t *testing.T) {
	in := fullInputs()
	in.Summary = &models.Summary{TotalProfit: 0}

	recs := insights.Build(in)
	for _, rec := range recs {
		assert.NotEqual(t, models.CategoryProfitability, rec.Category)
	}
}

func TestBuild_EmptyInputsYieldNothing(t *testing.T) {
	recs := insights.Build(insights.Inputs{})
	assert.Empty(t, recs, "no category errors out on an empty dataset")
}
