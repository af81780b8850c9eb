// Package aggregate implements the generic group-by/reduce primitive
// used by every metric computation: records are bucketed by a value
// tuple and each bucket reduced with the requested statistics.
package aggregate

import (
	"sort"
	"strings"
)

// nullKey marks a missing dimension value in a group key. Null values
// form their own bucket and never merge with a real value.
const nullKey = "\x00null"

// Record is the read-only view the engine needs of an enriched row.
type Record interface {
	// Dimension returns a grouping attribute; false means missing.
	Dimension(name string) (string, bool)
	// Measure returns a numeric field; false means missing.
	Measure(name string) (float64, bool)
}

// Reducer selects the statistic computed for one spec.
type Reducer int

const (
	Sum Reducer = iota
	Mean
	// Count counts every row in the group, including null measures.
	Count
	// CountNonNull counts rows whose measure is present.
	CountNonNull
	// CountDistinct counts distinct dimension values in the group.
	CountDistinct
	Min
	Max
	// First takes the first present measure in record order.
	First
)

// Spec requests one statistic over one column.
type Spec struct {
	Name   string
	Column string
	Reduce Reducer
}

// Row is one aggregation bucket: the group key values plus the
// computed statistics. A statistic a group could not produce (all
// inputs null) is simply absent.
type Row struct {
	Key   []string           `json:"key"`
	Label string             `json:"label"`
	Stats map[string]float64 `json:"stats"`
}

// Stat returns a computed statistic, false when the group has none.
func (r *Row) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// Ratio computes a secondary metric from two already-aggregated
// statistics. Ratios of aggregates are always derived this way, never
// by averaging per-row ratios: groups with uneven row sizes would
// otherwise weight small rows the same as large ones.
func (r *Row) Ratio(numerator, denominator string, scale float64) (float64, bool) {
	num, ok := r.Stats[numerator]
	if !ok {
		return 0, false
	}
	den, ok := r.Stats[denominator]
	if !ok || den == 0 {
		return 0, false
	}
	return num / den * scale, true
}

// Aggregate groups records by the dimension tuple and reduces each
// group per the specs. An empty input yields an empty result. Output
// order is the first-seen order of groups; callers that need a ranking
// sort explicitly afterwards.
func Aggregate(records []Record, groupBy []string, specs []Spec) []Row {
	if len(records) == 0 {
		return nil
	}

	buckets := make(map[string][]Record)
	keys := make(map[string][]string)
	order := make([]string, 0)

	for _, rec := range records {
		parts := make([]string, len(groupBy))
		for i, dim := range groupBy {
			v, ok := rec.Dimension(dim)
			if !ok {
				v = nullKey
			}
			parts[i] = v
		}
		id := strings.Join(parts, "\x1f")
		if _, seen := buckets[id]; !seen {
			order = append(order, id)
			keys[id] = parts
		}
		buckets[id] = append(buckets[id], rec)
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		row := Row{
			Key:   displayKey(keys[id]),
			Stats: make(map[string]float64, len(specs)),
		}
		row.Label = strings.Join(row.Key, " / ")
		for _, spec := range specs {
			if v, ok := reduce(buckets[id], spec); ok {
				row.Stats[spec.Name] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func displayKey(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		if p == nullKey {
			out[i] = ""
			continue
		}
		out[i] = p
	}
	return out
}

func reduce(group []Record, spec Spec) (float64, bool) {
	switch spec.Reduce {
	case Count:
		return float64(len(group)), true
	case CountDistinct:
		seen := make(map[string]bool)
		for _, rec := range group {
			if v, ok := rec.Dimension(spec.Column); ok {
				seen[v] = true
			}
		}
		return float64(len(seen)), true
	case First:
		for _, rec := range group {
			if v, ok := rec.Measure(spec.Column); ok {
				return v, true
			}
		}
		return 0, false
	}

	var (
		sum   float64
		count int
		min   float64
		max   float64
	)
	for _, rec := range group {
		v, ok := rec.Measure(spec.Column)
		if !ok {
			continue
		}
		if count == 0 {
			min, max = v, v
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		sum += v
		count++
	}

	switch spec.Reduce {
	case CountNonNull:
		return float64(count), true
	case Sum:
		if count == 0 {
			return 0, false
		}
		return sum, true
	case Mean:
		if count == 0 {
			return 0, false
		}
		return sum / float64(count), true
	case Min:
		if count == 0 {
			return 0, false
		}
		return min, true
	case Max:
		if count == 0 {
			return 0, false
		}
		return max, true
	}
	return 0, false
}

// SortByStatDesc orders rows by a statistic, largest first. Rows
// missing the statistic sort last; equal values fall back to the label
// so the order is stable across runs.
func SortByStatDesc(rows []Row, stat string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].Stats[stat]
		b, bok := rows[j].Stats[stat]
		if aok != bok {
			return aok
		}
		if a != b {
			return a > b
		}
		return rows[i].Label < rows[j].Label
	})
}

// SortByStatAsc orders rows by a statistic, smallest first. Rows
// missing the statistic still sort last.
func SortByStatAsc(rows []Row, stat string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].Stats[stat]
		b, bok := rows[j].Stats[stat]
		if aok != bok {
			return aok
		}
		if a != b {
			return a < b
		}
		return rows[i].Label < rows[j].Label
	})
}

// SortByLabel orders rows lexicographically by label, which is
// chronological for sortable keys like "2018-03".
func SortByLabel(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Label < rows[j].Label
	})
}
