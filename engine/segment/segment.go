// Package segment assigns entities to named buckets: quantile-based
// binning for scores (customer value, purchase frequency) and
// rule-based bucketing over fixed thresholds (churn risk).
package segment

import (
	"fmt"
	"sort"

	"github.com/salesboard/analytics/engine/dataset"
)

// Churn risk labels, ordered by recency of last activity.
const (
	ChurnActive   = "Active"
	ChurnAtRisk   = "At Risk"
	ChurnHighRisk = "High Risk"
	ChurnChurned  = "Churned"
)

// churnThresholds are days since last purchase; <=30 is still active,
// beyond 180 the customer counts as churned.
var churnThresholds = []float64{30, 90, 180}

var churnLabels = []string{ChurnActive, ChurnAtRisk, ChurnHighRisk, ChurnChurned}

// Quantile segments entities into len(labels) equal-sized buckets by
// the quantile boundaries of the full score distribution. Boundary
// ties always land in the lower segment, and boundaries are computed
// from the sorted score slice, so the assignment never depends on map
// iteration order.
//
// Fewer distinct scores than buckets cannot produce non-degenerate
// boundaries and yield an InsufficientDataError.
func Quantile(scores map[string]float64, labels []string) (map[string]string, error) {
	n := len(labels)
	if n < 2 {
		return nil, fmt.Errorf("quantile segmentation needs at least 2 labels, got %d", n)
	}

	sorted := make([]float64, 0, len(scores))
	for _, s := range scores {
		sorted = append(sorted, s)
	}
	sort.Float64s(sorted)

	distinct := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			distinct++
		}
	}
	if distinct < n {
		return nil, &dataset.InsufficientDataError{Op: "quantile segmentation", Need: n, Got: distinct}
	}

	// Upper cut of segment i is the largest value of the ideal i-th
	// bucket; every score <= cut belongs to segment i or lower.
	cuts := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		cuts[i] = sorted[(i+1)*len(sorted)/n-1]
	}

	out := make(map[string]string, len(scores))
	for id, s := range scores {
		out[id] = Rule(s, cuts, labels)
	}
	return out, nil
}

// Rule maps a value onto the label of the first threshold it does not
// exceed; values beyond every threshold get the last label. Thresholds
// must be ascending and one shorter than labels. The function is total:
// any value, including negative and zero, maps to exactly one label.
func Rule(value float64, thresholds []float64, labels []string) string {
	for i, t := range thresholds {
		if value <= t {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}

// ChurnRisk classifies a customer by days since the last purchase.
func ChurnRisk(daysSinceLast int) string {
	return Rule(float64(daysSinceLast), churnThresholds, churnLabels)
}
