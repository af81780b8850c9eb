// Package trend fits an ordinary-least-squares line over an ordered
// series and extrapolates it. Forecasts are deterministic point
// estimates; the engine intentionally carries no confidence bounds.
package trend

import (
	"math"

	"github.com/salesboard/analytics/engine/dataset"
)

// Model is a fitted trend line over the implicit index 0..n-1.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
	N         int     `json:"n"`
}

// roundToThousandth rounds to 3 decimal places.
func roundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// Fit computes the least-squares line through (i, values[i]).
// A constant series has zero total variance; the flat line explains
// all of it, so R² is defined as 1 rather than dividing by zero.
// Fewer than two points cannot determine a line.
func Fit(values []float64) (*Model, error) {
	n := len(values)
	if n < 2 {
		return nil, &dataset.InsufficientDataError{Op: "trend fit", Need: 2, Got: n}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	fn := float64(n)
	// The index is always 0..n-1, so the denominator cannot vanish.
	slope := (fn*sumXY - sumX*sumY) / (fn*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssRes, ssTot float64
	for i, y := range values {
		pred := slope*float64(i) + intercept
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - meanY) * (y - meanY)
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return &Model{
		Slope:     roundToThousandth(slope),
		Intercept: roundToThousandth(intercept),
		R2:        roundToThousandth(r2),
		N:         n,
	}, nil
}

// At evaluates the fitted line at index x.
func (m *Model) At(x float64) float64 {
	return roundToThousandth(m.Slope*x + m.Intercept)
}

// Forecast extrapolates the line to the next horizon indices
// n, n+1, ... n+horizon-1.
func Forecast(m *Model, horizon int) []float64 {
	out := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		out[i] = m.At(float64(m.N + i))
	}
	return out
}
