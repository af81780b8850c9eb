package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salesboard/analytics/engine/aggregate"
	"github.com/salesboard/analytics/engine/correlate"
	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/engine/enrich"
	"github.com/salesboard/analytics/engine/insights"
	"github.com/salesboard/analytics/utils"
)

// Analyzer runs the full pipeline over a populated table registry.
type Analyzer struct {
	logger         *utils.Logger
	forecastMonths int
}

// NewAnalyzer creates an analyzer. forecastMonths is clamped to at
// least 1.
func NewAnalyzer(logger *utils.Logger, forecastMonths int) *Analyzer {
	if forecastMonths < 1 {
		forecastMonths = 1
	}
	return &Analyzer{logger: logger, forecastMonths: forecastMonths}
}

// Run enriches the dataset and computes every metric section. The
// enriched records are read-only after the join phase, so the four
// metric families run on their own goroutines and meet at a barrier
// before synthesis.
func (a *Analyzer) Run(registry *dataset.Registry) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	a.logger.LogRunStart(runID.String())

	enricher := enrich.NewEnricher(registry, a.logger)
	records, err := enricher.Enrich(enrich.DefaultPlan())
	if err != nil {
		a.logger.Error("Enrichment failed: %v", err)
		return nil, err
	}

	views := make([]aggregate.Record, len(records))
	for i, rec := range records {
		views[i] = rec
	}

	var (
		wg        sync.WaitGroup
		aggs      *AggregateSet
		customers *CustomerAnalytics
		value     map[string]float64
		trendRep  *TrendReport
		matrix    *correlate.Matrix
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		aggs = a.buildAggregates(views)
	}()
	go func() {
		defer wg.Done()
		customers, value = a.buildCustomerAnalytics(records)
	}()
	go func() {
		defer wg.Done()
		trendRep = a.buildTrend(views)
	}()
	go func() {
		defer wg.Done()
		matrix = a.buildCorrelation(views)
	}()
	wg.Wait()

	summary := a.buildSummary(records, views)

	recommendations := insights.Build(insights.Inputs{
		Country:       aggs.Country,
		ProductProfit: aggs.Product,
		CustomerValue: value,
		Channel:       aggs.Channel,
		Seasonal:      aggs.Seasonal,
		Summary:       summary,
	})

	result := &Result{
		RunID:           runID,
		GeneratedAt:     time.Now(),
		Duration:        time.Since(start),
		Records:         len(records),
		Summary:         summary,
		Aggregates:      aggs,
		Customers:       customers,
		Trend:           trendRep,
		Correlation:     matrix,
		Recommendations: recommendations,
	}

	a.logger.LogRunComplete(runID.String(), start, len(records), len(recommendations))
	return result, nil
}
