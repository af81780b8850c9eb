// Package correlate computes pairwise Pearson correlation across a
// fixed set of numeric columns, producing a symmetric matrix.
package correlate

import (
	"encoding/json"
	"math"
)

// Record is the read-only numeric view this engine consumes.
type Record interface {
	Measure(name string) (float64, bool)
}

// Cell is one matrix coefficient. A pair with fewer than two jointly
// present observations, or with zero variance in either column, has no
// defined correlation; such cells are explicitly invalid rather than
// coerced to 0.
type Cell struct {
	Coefficient float64
	Valid       bool
}

// MarshalJSON encodes undefined coefficients as JSON null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Coefficient)
}

// UnmarshalJSON decodes JSON null as an undefined coefficient.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Cell{Coefficient: v, Valid: true}
	return nil
}

// Matrix is a square symmetric correlation matrix over named columns.
type Matrix struct {
	Columns []string `json:"columns"`
	Cells   [][]Cell `json:"cells"`
}

// At returns the coefficient for a column pair.
func (m *Matrix) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, false
	}
	cell := m.Cells[ia][ib]
	return cell.Coefficient, cell.Valid
}

// ComputeMatrix builds the correlation matrix for the given columns.
// Only the upper triangle is computed; the lower is mirrored, so the
// matrix is symmetric by construction. The diagonal is exactly 1 for
// every column regardless of its null pattern.
func ComputeMatrix(records []Record, columns []string) *Matrix {
	n := len(columns)
	m := &Matrix{Columns: append([]string{}, columns...), Cells: make([][]Cell, n)}
	for i := range m.Cells {
		m.Cells[i] = make([]Cell, n)
	}

	for i := 0; i < n; i++ {
		m.Cells[i][i] = Cell{Coefficient: 1, Valid: true}
		for j := i + 1; j < n; j++ {
			cell := pearson(records, columns[i], columns[j])
			m.Cells[i][j] = cell
			m.Cells[j][i] = cell
		}
	}
	return m
}

// pearson correlates two columns over the rows where both are present.
func pearson(records []Record, colA, colB string) Cell {
	var n float64
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, rec := range records {
		x, ok := rec.Measure(colA)
		if !ok {
			continue
		}
		y, ok := rec.Measure(colB)
		if !ok {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}
	if n < 2 {
		return Cell{}
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator < 1e-10 {
		// Zero variance in at least one column.
		return Cell{}
	}

	r := numerator / denominator
	// Guard against floating-point drift past the [-1, 1] bounds.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Cell{Coefficient: r, Valid: true}
}
