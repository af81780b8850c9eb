package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/analytics/engine/aggregate"
)

type fakeRecord struct {
	dims     map[string]string
	measures map[string]float64
}

func (f *fakeRecord) Dimension(name string) (string, bool) {
	v, ok := f.dims[name]
	return v, ok
}

func (f *fakeRecord) Measure(name string) (float64, bool) {
	v, ok := f.measures[name]
	return v, ok
}

func rec(country string, revenue float64) aggregate.Record {
	return &fakeRecord{
		dims:     map[string]string{"country": country},
		measures: map[string]float64{"revenue": revenue},
	}
}

func TestAggregate_SumConservation(t *testing.T) {
	records := []aggregate.Record{
		rec("USA", 100), rec("USA", 250), rec("Germany", 75),
		rec("France", 40), rec("Germany", 35),
	}
	specs := []aggregate.Spec{{Name: "revenue", Column: "revenue", Reduce: aggregate.Sum}}

	rows := aggregate.Aggregate(records, []string{"country"}, specs)
	require.Len(t, rows, 3)

	var total float64
	for _, row := range rows {
		v, ok := row.Stat("revenue")
		require.True(t, ok)
		total += v
	}
	// No record lost or double-counted across groups.
	assert.InDelta(t, 500.0, total, 1e-9)
}

func TestAggregate_FirstSeenOrderAndNullBucket(t *testing.T) {
	noCountry := &fakeRecord{measures: map[string]float64{"revenue": 10}}
	records := []aggregate.Record{rec("USA", 1), noCountry, rec("France", 2), rec("USA", 3)}

	rows := aggregate.Aggregate(records, []string{"country"},
		[]aggregate.Spec{{Name: "n", Reduce: aggregate.Count}})
	require.Len(t, rows, 3)

	assert.Equal(t, "USA", rows[0].Label)
	assert.Equal(t, "", rows[1].Label, "missing dimension forms its own bucket")
	assert.Equal(t, "France", rows[2].Label)

	n, ok := rows[0].Stat("n")
	require.True(t, ok)
	assert.Equal(t, 2.0, n)
}

func TestAggregate_EmptyInput(t *testing.T) {
	rows := aggregate.Aggregate(nil, []string{"country"},
		[]aggregate.Spec{{Name: "revenue", Column: "revenue", Reduce: aggregate.Sum}})
	assert.Empty(t, rows)
}

func TestAggregate_AllNullMeasureOmitsStat(t *testing.T) {
	records := []aggregate.Record{
		&fakeRecord{dims: map[string]string{"country": "USA"}},
		&fakeRecord{dims: map[string]string{"country": "USA"}},
	}

	rows := aggregate.Aggregate(records, []string{"country"}, []aggregate.Spec{
		{Name: "revenue", Column: "revenue", Reduce: aggregate.Sum},
		{Name: "n", Reduce: aggregate.Count},
	})
	require.Len(t, rows, 1)

	_, ok := rows[0].Stat("revenue")
	assert.False(t, ok, "a group with only missing inputs has no sum")

	n, ok := rows[0].Stat("n")
	require.True(t, ok)
	assert.Equal(t, 2.0, n, "Count still counts rows with missing measures")
}

// Margin must come from the summed aggregates, not from averaging the
// per-row margins. Two rows with margins 40% and 50% but different
// sizes aggregate to 47.5%, not 45%.
func TestRow_RatioIsPostHoc(t *testing.T) {
	records := []aggregate.Record{
		&fakeRecord{
			dims:     map[string]string{"customer": "C1"},
			measures: map[string]float64{"revenue": 100, "profit": 40, "margin": 40},
		},
		&fakeRecord{
			dims:     map[string]string{"customer": "C1"},
			measures: map[string]float64{"revenue": 300, "profit": 150, "margin": 50},
		},
	}

	rows := aggregate.Aggregate(records, []string{"customer"}, []aggregate.Spec{
		{Name: "revenue", Column: "revenue", Reduce: aggregate.Sum},
		{Name: "profit", Column: "profit", Reduce: aggregate.Sum},
		{Name: "naive", Column: "margin", Reduce: aggregate.Mean},
	})
	require.Len(t, rows, 1)

	margin, ok := rows[0].Ratio("profit", "revenue", 100)
	require.True(t, ok)
	assert.InDelta(t, 47.5, margin, 1e-9)

	naive, ok := rows[0].Stat("naive")
	require.True(t, ok)
	assert.InDelta(t, 45.0, naive, 1e-9)
	assert.NotEqual(t, naive, margin)
}

func TestRow_RatioZeroDenominator(t *testing.T) {
	row := aggregate.Row{Stats: map[string]float64{"profit": 10, "revenue": 0}}
	_, ok := row.Ratio("profit", "revenue", 100)
	assert.False(t, ok)
}

func TestSortByStat(t *testing.T) {
	records := []aggregate.Record{rec("USA", 100), rec("France", 300), rec("Germany", 200)}
	rows := aggregate.Aggregate(records, []string{"country"},
		[]aggregate.Spec{{Name: "revenue", Column: "revenue", Reduce: aggregate.Sum}})

	aggregate.SortByStatDesc(rows, "revenue")
	assert.Equal(t, "France", rows[0].Label)
	assert.Equal(t, "USA", rows[2].Label)

	aggregate.SortByStatAsc(rows, "revenue")
	assert.Equal(t, "USA", rows[0].Label)
	assert.Equal(t, "France", rows[2].Label)
}

func TestSortByStat_MissingSortsLast(t *testing.T) {
	rows := []aggregate.Row{
		{Label: "empty", Stats: map[string]float64{}},
		{Label: "small", Stats: map[string]float64{"revenue": 1}},
		{Label: "big", Stats: map[string]float64{"revenue": 9}},
	}

	aggregate.SortByStatDesc(rows, "revenue")
	assert.Equal(t, "empty", rows[2].Label)

	aggregate.SortByStatAsc(rows, "revenue")
	assert.Equal(t, "empty", rows[2].Label)
}
