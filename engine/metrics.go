package engine

import (
	"sort"
	"strconv"
	"time"

	"github.com/salesboard/analytics/engine/aggregate"
	"github.com/salesboard/analytics/engine/correlate"
	"github.com/salesboard/analytics/engine/models"
	"github.com/salesboard/analytics/engine/segment"
	"github.com/salesboard/analytics/engine/trend"
)

var spendingLabels = []string{"Low", "Medium", "High", "Premium"}

var frequencyLabels = []string{"Occasional", "Regular", "Frequent"}

var monthOrder = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

func revenueSpecs() []aggregate.Spec {
	return []aggregate.Spec{
		{Name: "revenue", Column: "sales_amount", Reduce: aggregate.Sum},
		{Name: "profit", Column: "profit", Reduce: aggregate.Sum},
		{Name: "transactions", Column: "", Reduce: aggregate.Count},
	}
}

// buildAggregates computes the standard groupings. Ranked sections are
// pre-sorted by revenue so consumers can take the head directly.
func (a *Analyzer) buildAggregates(records []aggregate.Record) *AggregateSet {
	set := &AggregateSet{
		Monthly:      aggregate.Aggregate(records, []string{"year_month"}, revenueSpecs()),
		Country:      aggregate.Aggregate(records, []string{"country"}, revenueSpecs()),
		Region:       aggregate.Aggregate(records, []string{"region"}, revenueSpecs()),
		Category:     aggregate.Aggregate(records, []string{"category"}, revenueSpecs()),
		Product:      aggregate.Aggregate(records, []string{"product"}, revenueSpecs()),
		Customer:     aggregate.Aggregate(records, []string{"customer"}, revenueSpecs()),
		Channel:      aggregate.Aggregate(records, []string{"channel"}, revenueSpecs()),
		BusinessType: aggregate.Aggregate(records, []string{"business_type"}, revenueSpecs()),
		Seasonal: aggregate.Aggregate(records, []string{"month_name"}, []aggregate.Spec{
			{Name: "avg_revenue", Column: "sales_amount", Reduce: aggregate.Mean},
			{Name: "revenue", Column: "sales_amount", Reduce: aggregate.Sum},
		}),
	}

	aggregate.SortByLabel(set.Monthly)
	aggregate.SortByStatDesc(set.Country, "revenue")
	aggregate.SortByStatDesc(set.Region, "revenue")
	aggregate.SortByStatDesc(set.Category, "revenue")
	aggregate.SortByStatDesc(set.Product, "revenue")
	aggregate.SortByStatDesc(set.Customer, "revenue")
	aggregate.SortByStatDesc(set.Channel, "revenue")
	aggregate.SortByStatDesc(set.BusinessType, "revenue")
	sort.SliceStable(set.Seasonal, func(i, j int) bool {
		return monthOrder[set.Seasonal[i].Label] < monthOrder[set.Seasonal[j].Label]
	})
	return set
}

// buildCustomerAnalytics segments the customer base three ways and
// returns the lifetime value per customer for downstream synthesis.
// Recency is measured against the newest order date in the dataset, so
// churn classification does not drift with the wall clock.
func (a *Analyzer) buildCustomerAnalytics(records []*models.SaleRecord) (*CustomerAnalytics, map[string]float64) {
	value := make(map[string]float64)
	frequency := make(map[string]float64)
	lastOrder := make(map[string]time.Time)
	var latest time.Time

	for _, rec := range records {
		if rec.CustomerKey == 0 {
			continue
		}
		id := strconv.Itoa(rec.CustomerKey)
		if rec.SalesAmount.Valid {
			value[id] += rec.SalesAmount.Float64
		} else if _, seen := value[id]; !seen {
			value[id] = 0
		}
		frequency[id]++
		if rec.OrderDate.After(lastOrder[id]) {
			lastOrder[id] = rec.OrderDate
		}
		if rec.OrderDate.After(latest) {
			latest = rec.OrderDate
		}
	}

	out := &CustomerAnalytics{
		Customers: len(value),
		ChurnRisk: make(map[string]int),
	}

	if seg, err := segment.Quantile(value, spendingLabels); err == nil {
		out.SpendingSegments = distribution(seg)
	} else {
		a.logger.Debug("Spending segmentation skipped: %v", err)
	}
	if seg, err := segment.Quantile(frequency, frequencyLabels); err == nil {
		out.FrequencySegments = distribution(seg)
	} else {
		a.logger.Debug("Frequency segmentation skipped: %v", err)
	}

	for _, last := range lastOrder {
		if last.IsZero() {
			continue
		}
		days := int(latest.Sub(last).Hours() / 24)
		out.ChurnRisk[segment.ChurnRisk(days)]++
	}

	return out, value
}

func distribution(assignment map[string]string) map[string]int {
	out := make(map[string]int, 4)
	for _, label := range assignment {
		out[label]++
	}
	return out
}

// buildTrend fits the monthly revenue series and projects it forward.
func (a *Analyzer) buildTrend(records []aggregate.Record) *TrendReport {
	monthly := aggregate.Aggregate(records, []string{"year_month"}, []aggregate.Spec{
		{Name: "revenue", Column: "sales_amount", Reduce: aggregate.Sum},
	})
	aggregate.SortByLabel(monthly)

	series := make([]float64, 0, len(monthly))
	var lastPeriod string
	for _, row := range monthly {
		if row.Label == "" {
			// Rows without an order date have no place on the axis.
			continue
		}
		v, _ := row.Stat("revenue")
		series = append(series, v)
		lastPeriod = row.Label
	}

	model, err := trend.Fit(series)
	if err != nil {
		a.logger.Debug("Trend fit skipped: %v", err)
		return &TrendReport{}
	}

	report := &TrendReport{Model: model}
	anchor, perr := time.Parse("2006-01", lastPeriod)
	projected := trend.Forecast(model, a.forecastMonths)
	for i, v := range projected {
		period := ""
		if perr == nil {
			period = anchor.AddDate(0, i+1, 0).Format("2006-01")
		}
		report.Forecast = append(report.Forecast, ForecastPoint{Period: period, Revenue: v})
	}
	return report
}

// correlationColumns are the per-product metrics correlated each run.
var correlationColumns = []string{
	"sales_amount", "order_quantity", "unit_price",
	"list_price", "standard_cost", "profit_margin",
}

// rowMeasures adapts an aggregated stats map to the correlate input.
type rowMeasures map[string]float64

func (r rowMeasures) Measure(name string) (float64, bool) {
	v, ok := r[name]
	return v, ok
}

// buildCorrelation correlates product-level metrics. Correlating at
// the product grain rather than the raw line-item grain keeps
// high-volume products from dominating every pair.
func (a *Analyzer) buildCorrelation(records []aggregate.Record) *correlate.Matrix {
	products := aggregate.Aggregate(records, []string{"product"}, []aggregate.Spec{
		{Name: "sales_amount", Column: "sales_amount", Reduce: aggregate.Sum},
		{Name: "order_quantity", Column: "order_quantity", Reduce: aggregate.Sum},
		{Name: "unit_price", Column: "unit_price", Reduce: aggregate.Mean},
		{Name: "list_price", Column: "list_price", Reduce: aggregate.First},
		{Name: "standard_cost", Column: "standard_cost", Reduce: aggregate.First},
		{Name: "profit", Column: "profit", Reduce: aggregate.Sum},
	})

	views := make([]correlate.Record, 0, len(products))
	for _, row := range products {
		if row.Label == "" {
			continue
		}
		m := make(rowMeasures, len(row.Stats)+1)
		for k, v := range row.Stats {
			m[k] = v
		}
		// Margin is derived from the aggregated sums, never averaged
		// across rows.
		if margin, ok := row.Ratio("profit", "sales_amount", 100); ok {
			m["profit_margin"] = margin
		}
		delete(m, "profit")
		views = append(views, m)
	}

	return correlate.ComputeMatrix(views, correlationColumns)
}

// buildSummary computes the executive KPI block.
func (a *Analyzer) buildSummary(records []*models.SaleRecord, views []aggregate.Record) *models.Summary {
	s := &models.Summary{Transactions: len(records)}

	customers := make(map[int]bool)
	products := make(map[int]bool)
	countries := make(map[string]bool)

	for _, rec := range records {
		if rec.SalesAmount.Valid {
			s.TotalRevenue += rec.SalesAmount.Float64
		}
		if rec.Profit.Valid {
			s.TotalProfit += rec.Profit.Float64
		}
		if rec.CustomerKey != 0 {
			customers[rec.CustomerKey] = true
		}
		if rec.ProductKey != 0 {
			products[rec.ProductKey] = true
		}
		if rec.Country != "" {
			countries[rec.Country] = true
		}
		if !rec.OrderDate.IsZero() {
			if s.PeriodStart.IsZero() || rec.OrderDate.Before(s.PeriodStart) {
				s.PeriodStart = rec.OrderDate
			}
			if rec.OrderDate.After(s.PeriodEnd) {
				s.PeriodEnd = rec.OrderDate
			}
		}
	}
	s.UniqueCustomers = len(customers)
	s.UniqueProducts = len(products)
	s.Countries = len(countries)

	if s.Transactions > 0 {
		s.AvgOrderValue = models.Float(s.TotalRevenue / float64(s.Transactions))
	}
	if s.TotalRevenue != 0 {
		s.AvgProfitMargin = models.Float(s.TotalProfit / s.TotalRevenue * 100)
	}
	if s.UniqueCustomers > 0 {
		s.CustomerLTV = models.Float(s.TotalRevenue / float64(s.UniqueCustomers))
	}

	// Year over year growth compares the two most recent fiscal years.
	byYear := aggregate.Aggregate(views, []string{"fiscal_year"}, []aggregate.Spec{
		{Name: "revenue", Column: "sales_amount", Reduce: aggregate.Sum},
	})
	labeled := byYear[:0]
	for _, row := range byYear {
		if row.Label != "" {
			labeled = append(labeled, row)
		}
	}
	aggregate.SortByLabel(labeled)
	if len(labeled) >= 2 {
		prev, _ := labeled[len(labeled)-2].Stat("revenue")
		last, _ := labeled[len(labeled)-1].Stat("revenue")
		if prev != 0 {
			s.YoYGrowth = models.Float((last - prev) / prev * 100)
		}
	}

	return s
}
