// Package insights turns the computed metrics into the ranked list of
// business recommendations. Categories are evaluated independently in
// a fixed declaration order with fixed priorities; a category whose
// supporting aggregation is too thin is omitted, never an error.
package insights

import (
	"fmt"
	"sort"

	"github.com/salesboard/analytics/engine/aggregate"
	"github.com/salesboard/analytics/engine/models"
)

// Inputs are the metric products one run feeds into the synthesizer.
type Inputs struct {
	// Country revenue aggregate, stat "revenue".
	Country []aggregate.Row
	// Per-product profit aggregate, stat "profit".
	ProductProfit []aggregate.Row
	// Lifetime revenue per customer key.
	CustomerValue map[string]float64
	// Channel revenue aggregate, stat "revenue".
	Channel []aggregate.Row
	// Mean revenue per month name, stat "avg_revenue".
	Seasonal []aggregate.Row
	Summary  *models.Summary
}

type builder func(Inputs) (models.Recommendation, bool)

// Build produces the recommendation list in category order.
func Build(in Inputs) []models.Recommendation {
	builders := []builder{
		geographic,
		product,
		retention,
		channel,
		seasonal,
		profitability,
	}

	out := make([]models.Recommendation, 0, len(builders))
	for _, build := range builders {
		if rec, ok := build(in); ok {
			out = append(out, rec)
		}
	}
	return out
}

func geographic(in Inputs) (models.Recommendation, bool) {
	rows := withStat(in.Country, "revenue")
	if len(rows) < 2 {
		return models.Recommendation{}, false
	}
	aggregate.SortByStatDesc(rows, "revenue")
	top, bottom := rows[0], rows[len(rows)-1]
	topRev := top.Stats["revenue"]
	bottomRev := bottom.Stats["revenue"]

	return models.Recommendation{
		Category: models.CategoryGeographic,
		Priority: models.PriorityHigh,
		Finding: fmt.Sprintf("Focus expansion efforts on the %s market - currently only %s vs %s in %s",
			bottom.Label, millions(bottomRev), millions(topRev), top.Label),
		Impact: fmt.Sprintf("%s revenue opportunity", millions(topRev-bottomRev)),
	}, true
}

func product(in Inputs) (models.Recommendation, bool) {
	rows := withStat(in.ProductProfit, "profit")
	if len(rows) == 0 {
		return models.Recommendation{}, false
	}
	aggregate.SortByStatDesc(rows, "profit")
	top := rows[0]

	return models.Recommendation{
		Category: models.CategoryProduct,
		Priority: models.PriorityHigh,
		Finding: fmt.Sprintf("Expand inventory and marketing for %q - highest profit generator at %s",
			top.Label, thousands(top.Stats["profit"])),
		Impact: "Increase focus on the top 20% of products driving 80% of profits",
	}, true
}

func retention(in Inputs) (models.Recommendation, bool) {
	if len(in.CustomerValue) < 2 {
		return models.Recommendation{}, false
	}

	values := make([]float64, 0, len(in.CustomerValue))
	for _, v := range in.CustomerValue {
		values = append(values, v)
	}
	sort.Float64s(values)
	cut := quantile(values, 0.8)

	highValue := 0
	for _, v := range in.CustomerValue {
		if v > cut {
			highValue++
		}
	}
	if highValue == 0 {
		return models.Recommendation{}, false
	}

	return models.Recommendation{
		Category: models.CategoryRetention,
		Priority: models.PriorityMedium,
		Finding: fmt.Sprintf("Implement a VIP program for the top %d customers (top 20%% by value)",
			highValue),
		Impact: fmt.Sprintf("Protect %s in high-value customer revenue", millions(cut*float64(highValue))),
	}, true
}

func channel(in Inputs) (models.Recommendation, bool) {
	rows := withStat(in.Channel, "revenue")
	// Single-channel datasets have no mix to optimize.
	if len(rows) < 2 {
		return models.Recommendation{}, false
	}
	aggregate.SortByStatDesc(rows, "revenue")
	top := rows[0]

	return models.Recommendation{
		Category: models.CategoryChannel,
		Priority: models.PriorityMedium,
		Finding: fmt.Sprintf("Optimize %s channel performance - currently generating %s",
			top.Label, millions(top.Stats["revenue"])),
		Impact: "Balance channel mix for maximum reach and efficiency",
	}, true
}

func seasonal(in Inputs) (models.Recommendation, bool) {
	rows := withStat(in.Seasonal, "avg_revenue")
	if len(rows) < 2 {
		return models.Recommendation{}, false
	}
	aggregate.SortByStatDesc(rows, "avg_revenue")
	peak, low := rows[0], rows[len(rows)-1]

	return models.Recommendation{
		Category: models.CategorySeasonal,
		Priority: models.PriorityMedium,
		Finding: fmt.Sprintf("Prepare for peak season in %s and boost marketing in %s",
			peak.Label, low.Label),
		Impact: fmt.Sprintf("Level seasonal variations - %s average monthly difference",
			thousands(peak.Stats["avg_revenue"]-low.Stats["avg_revenue"])),
	}, true
}

func profitability(in Inputs) (models.Recommendation, bool) {
	if in.Summary == nil || !in.Summary.AvgProfitMargin.Valid {
		return models.Recommendation{}, false
	}

	return models.Recommendation{
		Category: models.CategoryProfitability,
		Priority: models.PriorityHigh,
		Finding: fmt.Sprintf("Focus on products with >20%% profit margin (current average: %.1f%%)",
			in.Summary.AvgProfitMargin.Float64),
		Impact: fmt.Sprintf("Improve overall profitability from %s current profit",
			millions(in.Summary.TotalProfit)),
	}, true
}

// withStat filters rows down to those that produced the statistic.
func withStat(rows []aggregate.Row, stat string) []aggregate.Row {
	out := make([]aggregate.Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := r.Stat(stat); ok {
			out = append(out, r)
		}
	}
	return out
}

// quantile interpolates the q-th quantile of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func millions(v float64) string {
	return fmt.Sprintf("$%.1fM", v/1e6)
}

func thousands(v float64) string {
	return fmt.Sprintf("$%.0fK", v/1e3)
}
