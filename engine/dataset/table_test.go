package dataset_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/analytics/engine/dataset"
)

func TestValue_ZeroValueIsNull(t *testing.T) {
	var v dataset.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, "", v.Text())

	_, ok := v.Number()
	assert.False(t, ok)
}

func TestValue_EmptyStringIsNull(t *testing.T) {
	assert.True(t, dataset.String("").IsNull())
	assert.False(t, dataset.String("x").IsNull())
}

func TestValue_KeySeparatesKindsAndNulls(t *testing.T) {
	// "1" as a string must never join with 1 as a number.
	assert.NotEqual(t, dataset.Number(1).Key(), dataset.String("1").Key())

	// Nulls share one sentinel bucket distinct from every real value.
	assert.Equal(t, dataset.Null().Key(), dataset.String("").Key())
	assert.NotEqual(t, dataset.Null().Key(), dataset.Number(0).Key())

	day := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, dataset.Time(day).Key(), dataset.Time(day).Key())
}

func TestRow_GetMissingColumn(t *testing.T) {
	row := dataset.Row{"a": dataset.Number(1)}
	assert.True(t, row.Get("b").IsNull())
}

func TestTable_RequireColumns(t *testing.T) {
	table := dataset.NewTable("Sales", []string{"A", "B"})

	require.NoError(t, table.RequireColumns("A", "B"))

	err := table.RequireColumns("A", "C")
	var mismatch *dataset.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Sales", mismatch.Table)
	assert.Equal(t, "C", mismatch.Column)
}

func TestRegistry_Require(t *testing.T) {
	registry := dataset.NewRegistry()
	registry.Register(dataset.NewTable("Sales", nil))

	got, err := registry.Require("Sales")
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Name)

	_, err = registry.Require("Reseller")
	var mismatch *dataset.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Reseller", mismatch.Table)
}
