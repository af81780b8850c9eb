package models

// Priority labels carried by recommendations. Each category has a
// fixed priority assigned by business rule, not computed from data.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Recommendation categories, emitted in this declaration order.
const (
	CategoryGeographic    = "Geographic Expansion"
	CategoryProduct       = "Product Strategy"
	CategoryRetention     = "Customer Retention"
	CategoryChannel       = "Channel Strategy"
	CategorySeasonal      = "Seasonal Planning"
	CategoryProfitability = "Profitability"
)

// Recommendation is one actionable finding with its supporting figures
// rendered into the finding text and an estimated impact.
type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Finding  string `json:"finding"`
	Impact   string `json:"impact"`
}
