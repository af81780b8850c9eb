// Package engine coordinates a full analysis run: enrichment, the
// concurrent metric computations, and recommendation synthesis.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/salesboard/analytics/engine/aggregate"
	"github.com/salesboard/analytics/engine/correlate"
	"github.com/salesboard/analytics/engine/models"
	"github.com/salesboard/analytics/engine/trend"
)

// AggregateSet is the standard groupings every run computes.
type AggregateSet struct {
	// Monthly is chronological; the ranked sections are sorted by
	// revenue, largest first.
	Monthly      []aggregate.Row `json:"monthly"`
	Country      []aggregate.Row `json:"country"`
	Region       []aggregate.Row `json:"region"`
	Category     []aggregate.Row `json:"category"`
	Product      []aggregate.Row `json:"product"`
	Customer     []aggregate.Row `json:"customer"`
	Channel      []aggregate.Row `json:"channel"`
	BusinessType []aggregate.Row `json:"businessType"`
	// Seasonal holds mean revenue per calendar month, January first.
	Seasonal []aggregate.Row `json:"seasonal"`
}

// CustomerAnalytics is the segmentation view over the customer base.
// The segment distributions are nil when the base is too small or too
// uniform to cut into the requested number of buckets.
type CustomerAnalytics struct {
	Customers         int            `json:"customers"`
	SpendingSegments  map[string]int `json:"spendingSegments,omitempty"`
	FrequencySegments map[string]int `json:"frequencySegments,omitempty"`
	ChurnRisk         map[string]int `json:"churnRisk"`
}

// ForecastPoint is one projected month of revenue.
type ForecastPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

// TrendReport is the fitted monthly revenue trend plus its forecast.
// Model is nil when the dataset spans fewer than two months.
type TrendReport struct {
	Model    *trend.Model    `json:"model"`
	Forecast []ForecastPoint `json:"forecast,omitempty"`
}

// Result is the complete output of one analysis run.
type Result struct {
	RunID           uuid.UUID               `json:"runId"`
	GeneratedAt     time.Time               `json:"generatedAt"`
	Duration        time.Duration           `json:"duration"`
	Records         int                     `json:"records"`
	Summary         *models.Summary         `json:"summary"`
	Aggregates      *AggregateSet           `json:"aggregates"`
	Customers       *CustomerAnalytics      `json:"customers"`
	Trend           *TrendReport            `json:"trend"`
	Correlation     *correlate.Matrix       `json:"correlation"`
	Recommendations []models.Recommendation `json:"recommendations"`
}
