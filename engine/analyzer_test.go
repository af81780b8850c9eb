package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/analytics/engine"
	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/engine/enrich"
	"github.com/salesboard/analytics/engine/segment"
	"github.com/salesboard/analytics/utils"
)

// threeRowDataset is a complete star schema with three fact rows over
// two customers: revenues 100/200/300 against costs 60/100/150.
func threeRowDataset() *dataset.Registry {
	registry := dataset.NewRegistry()

	fact := dataset.NewTable(enrich.TableSales, []string{
		enrich.ColOrderLineKey, enrich.ColOrderDateKey, enrich.ColCustomerKey,
		enrich.ColProductKey, enrich.ColTerritoryKey, enrich.ColResellerKey,
		enrich.ColOrderQuantity, enrich.ColSalesAmount, enrich.ColProductCost,
	})
	factRow := func(line, date, customer, product int, qty, sales, cost float64) {
		fact.Append(dataset.Row{
			enrich.ColOrderLineKey:  dataset.Number(float64(line)),
			enrich.ColOrderDateKey:  dataset.Number(float64(date)),
			enrich.ColCustomerKey:   dataset.Number(float64(customer)),
			enrich.ColProductKey:    dataset.Number(float64(product)),
			enrich.ColTerritoryKey:  dataset.Number(31),
			enrich.ColResellerKey:   dataset.Number(41),
			enrich.ColOrderQuantity: dataset.Number(qty),
			enrich.ColSalesAmount:   dataset.Number(sales),
			enrich.ColProductCost:   dataset.Number(cost),
		})
	}
	factRow(1, 20200115, 11, 21, 1, 100, 60)
	factRow(2, 20200116, 12, 22, 2, 200, 100)
	factRow(3, 20200215, 11, 21, 3, 300, 150)
	registry.Register(fact)

	dates := dataset.NewTable(enrich.TableDate, []string{
		enrich.ColDateKey, enrich.ColDate, enrich.ColFiscalYear,
	})
	dateRow := func(key int, day time.Time) {
		dates.Append(dataset.Row{
			enrich.ColDateKey:    dataset.Number(float64(key)),
			enrich.ColDate:       dataset.Time(day),
			enrich.ColFiscalYear: dataset.String("FY2020"),
		})
	}
	dateRow(20200115, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))
	dateRow(20200116, time.Date(2020, 1, 16, 0, 0, 0, 0, time.UTC))
	dateRow(20200215, time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC))
	registry.Register(dates)

	territory := dataset.NewTable(enrich.TableTerritory, []string{
		enrich.ColTerritoryKey, enrich.ColCountry, enrich.ColRegion,
	})
	territory.Append(dataset.Row{
		enrich.ColTerritoryKey: dataset.Number(31),
		enrich.ColCountry:      dataset.String("United States"),
		enrich.ColRegion:       dataset.String("Northwest"),
	})
	registry.Register(territory)

	product := dataset.NewTable(enrich.TableProduct, []string{
		enrich.ColProductKey, enrich.ColProduct, enrich.ColCategory, enrich.ColListPrice,
	})
	product.Append(dataset.Row{
		enrich.ColProductKey: dataset.Number(21),
		enrich.ColProduct:    dataset.String("Mountain-100"),
		enrich.ColCategory:   dataset.String("Bikes"),
		enrich.ColListPrice:  dataset.Number(3400),
	})
	product.Append(dataset.Row{
		enrich.ColProductKey: dataset.Number(22),
		enrich.ColProduct:    dataset.String("Road-250"),
		enrich.ColCategory:   dataset.String("Bikes"),
		enrich.ColListPrice:  dataset.Number(2400),
	})
	registry.Register(product)

	customer := dataset.NewTable(enrich.TableCustomer, []string{
		enrich.ColCustomerKey, enrich.ColCustomer,
	})
	customer.Append(dataset.Row{
		enrich.ColCustomerKey: dataset.Number(11),
		enrich.ColCustomer:    dataset.String("Jon Yang"),
	})
	customer.Append(dataset.Row{
		enrich.ColCustomerKey: dataset.Number(12),
		enrich.ColCustomer:    dataset.String("Eugene Huang"),
	})
	registry.Register(customer)

	order := dataset.NewTable(enrich.TableOrder, []string{
		enrich.ColOrderLineKey, enrich.ColChannel,
	})
	order.Append(dataset.Row{
		enrich.ColOrderLineKey: dataset.Number(1),
		enrich.ColChannel:      dataset.String("Internet"),
	})
	order.Append(dataset.Row{
		enrich.ColOrderLineKey: dataset.Number(2),
		enrich.ColChannel:      dataset.String("Reseller"),
	})
	order.Append(dataset.Row{
		enrich.ColOrderLineKey: dataset.Number(3),
		enrich.ColChannel:      dataset.String("Internet"),
	})
	registry.Register(order)

	reseller := dataset.NewTable(enrich.TableReseller, []string{
		enrich.ColResellerKey, enrich.ColReseller, enrich.ColBusinessType,
	})
	reseller.Append(dataset.Row{
		enrich.ColResellerKey:  dataset.Number(41),
		enrich.ColReseller:     dataset.String("Roadway Bicycle Supply"),
		enrich.ColBusinessType: dataset.String("Warehouse"),
	})
	registry.Register(reseller)

	return registry
}

func TestAnalyzer_EndToEnd(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)

	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.Records)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())

	summary := result.Summary
	require.NotNil(t, summary)
	assert.InDelta(t, 600.0, summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 290.0, summary.TotalProfit, 1e-9)
	assert.Equal(t, 3, summary.Transactions)
	assert.Equal(t, 2, summary.UniqueCustomers)
	assert.Equal(t, 2, summary.UniqueProducts)
	assert.Equal(t, 1, summary.Countries)
	require.True(t, summary.AvgOrderValue.Valid)
	assert.InDelta(t, 200.0, summary.AvgOrderValue.Float64, 1e-9)
	require.True(t, summary.CustomerLTV.Valid)
	assert.InDelta(t, 300.0, summary.CustomerLTV.Float64, 1e-9)
	assert.False(t, summary.YoYGrowth.Valid, "one fiscal year has no growth comparison")
	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), summary.PeriodStart)
	assert.Equal(t, time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC), summary.PeriodEnd)
}

// The customer with rows of 40% and 50% margin aggregates to 47.5%,
// proving margins derive from summed profit over summed revenue.
func TestAnalyzer_CustomerMarginIsPostHoc(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)
	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)

	var found bool
	for _, row := range result.Aggregates.Customer {
		if row.Label != "Jon Yang" {
			continue
		}
		found = true
		revenue, _ := row.Stat("revenue")
		profit, _ := row.Stat("profit")
		assert.InDelta(t, 400.0, revenue, 1e-9)
		assert.InDelta(t, 190.0, profit, 1e-9)

		margin, ok := row.Ratio("profit", "revenue", 100)
		require.True(t, ok)
		assert.InDelta(t, 47.5, margin, 1e-9)
	}
	assert.True(t, found)
}

func TestAnalyzer_TrendOverConstantMonths(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)
	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)

	// January and February both total 300.
	require.NotNil(t, result.Trend.Model)
	assert.Equal(t, 0.0, result.Trend.Model.Slope)
	assert.Equal(t, 1.0, result.Trend.Model.R2)

	require.Len(t, result.Trend.Forecast, 3)
	assert.Equal(t, "2020-03", result.Trend.Forecast[0].Period)
	assert.Equal(t, "2020-05", result.Trend.Forecast[2].Period)
	for _, point := range result.Trend.Forecast {
		assert.InDelta(t, 300.0, point.Revenue, 1e-9)
	}
}

func TestAnalyzer_CustomerSegmentsDegradeGracefully(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)
	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)

	customers := result.Customers
	require.NotNil(t, customers)
	assert.Equal(t, 2, customers.Customers)

	// Two customers cannot fill four spending quartiles or three
	// frequency tiers; both orders are recent relative to the dataset.
	assert.Nil(t, customers.SpendingSegments)
	assert.Nil(t, customers.FrequencySegments)
	assert.Equal(t, 2, customers.ChurnRisk[segment.ChurnActive])
}

func TestAnalyzer_RecommendationsSkipIneligibleCategories(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)
	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)

	categories := make([]string, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		categories = append(categories, rec.Category)
	}

	// A single country cannot support a geographic comparison; two
	// channels keep the channel category eligible.
	assert.NotContains(t, categories, "Geographic Expansion")
	assert.Contains(t, categories, "Channel Strategy")
	assert.Contains(t, categories, "Product Strategy")
	assert.Contains(t, categories, "Profitability")
}

func TestAnalyzer_CorrelationDiagonal(t *testing.T) {
	analyzer := engine.NewAnalyzer(utils.NewDiscardLogger(), 3)
	result, err := analyzer.Run(threeRowDataset())
	require.NoError(t, err)

	matrix := result.Correlation
	require.NotNil(t, matrix)
	for _, column := range matrix.Columns {
		r, ok := matrix.At(column, column)
		require.True(t, ok, "column %s", column)
		assert.Equal(t, 1.0, r)
	}
}
