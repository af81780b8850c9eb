package models

import "time"

// Summary holds the executive KPIs of one analysis run.
type Summary struct {
	TotalRevenue    float64   `json:"totalRevenue"`
	TotalProfit     float64   `json:"totalProfit"`
	Transactions    int       `json:"transactions"`
	UniqueCustomers int       `json:"uniqueCustomers"`
	UniqueProducts  int       `json:"uniqueProducts"`
	Countries       int       `json:"countries"`
	AvgOrderValue   NullFloat `json:"avgOrderValue"`
	AvgProfitMargin NullFloat `json:"avgProfitMargin"`
	// YoYGrowth compares the last two fiscal years; missing when the
	// dataset covers fewer than two.
	YoYGrowth   NullFloat `json:"yoyGrowth"`
	CustomerLTV NullFloat `json:"customerLtv"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}
