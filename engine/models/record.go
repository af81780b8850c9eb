package models

import (
	"strconv"
	"time"
)

// SaleRecord is one row of the enriched dataset: the fact row merged
// with every dimension it matched, plus the derived fields. Records
// are built once by the enrichment engine and read-only afterwards.
type SaleRecord struct {
	// Fact keys
	OrderLineKey int `json:"orderLineKey"`
	CustomerKey  int `json:"customerKey"`
	ProductKey   int `json:"productKey"`
	TerritoryKey int `json:"territoryKey"`
	ResellerKey  int `json:"resellerKey"`

	// Fact measures
	OrderQuantity    NullFloat `json:"orderQuantity"`
	UnitPrice        NullFloat `json:"unitPrice"`
	SalesAmount      NullFloat `json:"salesAmount"`
	TotalProductCost NullFloat `json:"totalProductCost"`
	StandardCost     NullFloat `json:"standardCost"`

	// Date dimension
	OrderDate  time.Time `json:"orderDate"`
	FiscalYear string    `json:"fiscalYear"`

	// Territory dimension
	Country string `json:"country"`
	Region  string `json:"region"`
	Group   string `json:"group"`

	// Product dimension
	Product     string    `json:"product"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Color       string    `json:"color"`
	ListPrice   NullFloat `json:"listPrice"`

	// Customer dimension
	Customer string `json:"customer"`
	City     string `json:"city"`

	// Sales order dimension
	Channel    string `json:"channel"`
	SalesOrder string `json:"salesOrder"`

	// Reseller dimension
	Reseller     string `json:"reseller"`
	BusinessType string `json:"businessType"`

	// Derived fields, computed once after all joins
	Profit       NullFloat `json:"profit"`
	ProfitMargin NullFloat `json:"profitMargin"`
	Year         int       `json:"year"`
	Quarter      int       `json:"quarter"`
	MonthName    string    `json:"monthName"`
	DayOfWeek    string    `json:"dayOfWeek"`
}

// Dimension returns the named grouping attribute as a string. The
// second result is false when the record has no value for it, which
// groups the record into the null bucket.
func (r *SaleRecord) Dimension(name string) (string, bool) {
	switch name {
	case "customer_key":
		return strconv.Itoa(r.CustomerKey), true
	case "product_key":
		return strconv.Itoa(r.ProductKey), true
	case "territory_key":
		return strconv.Itoa(r.TerritoryKey), true
	case "reseller_key":
		return strconv.Itoa(r.ResellerKey), true
	case "order_line_key":
		return strconv.Itoa(r.OrderLineKey), true
	case "country":
		return nonEmpty(r.Country)
	case "region":
		return nonEmpty(r.Region)
	case "group":
		return nonEmpty(r.Group)
	case "product":
		return nonEmpty(r.Product)
	case "category":
		return nonEmpty(r.Category)
	case "subcategory":
		return nonEmpty(r.Subcategory)
	case "color":
		return nonEmpty(r.Color)
	case "customer":
		return nonEmpty(r.Customer)
	case "city":
		return nonEmpty(r.City)
	case "channel":
		return nonEmpty(r.Channel)
	case "sales_order":
		return nonEmpty(r.SalesOrder)
	case "reseller":
		return nonEmpty(r.Reseller)
	case "business_type":
		return nonEmpty(r.BusinessType)
	case "fiscal_year":
		return nonEmpty(r.FiscalYear)
	case "month_name":
		return nonEmpty(r.MonthName)
	case "day_of_week":
		return nonEmpty(r.DayOfWeek)
	case "year":
		if r.Year == 0 {
			return "", false
		}
		return strconv.Itoa(r.Year), true
	case "quarter":
		if r.Quarter == 0 {
			return "", false
		}
		return "Q" + strconv.Itoa(r.Quarter), true
	case "year_month":
		// Sortable chronological key, e.g. "2018-03".
		if r.OrderDate.IsZero() {
			return "", false
		}
		return r.OrderDate.Format("2006-01"), true
	default:
		return "", false
	}
}

// Measure returns the named numeric field. The second result is false
// when the value is missing; reducers skip such records.
func (r *SaleRecord) Measure(name string) (float64, bool) {
	switch name {
	case "sales_amount":
		return r.SalesAmount.Float64, r.SalesAmount.Valid
	case "total_product_cost":
		return r.TotalProductCost.Float64, r.TotalProductCost.Valid
	case "order_quantity":
		return r.OrderQuantity.Float64, r.OrderQuantity.Valid
	case "unit_price":
		return r.UnitPrice.Float64, r.UnitPrice.Valid
	case "list_price":
		return r.ListPrice.Float64, r.ListPrice.Valid
	case "standard_cost":
		return r.StandardCost.Float64, r.StandardCost.Valid
	case "profit":
		return r.Profit.Float64, r.Profit.Valid
	case "profit_margin":
		return r.ProfitMargin.Float64, r.ProfitMargin.Valid
	default:
		return 0, false
	}
}

func nonEmpty(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}
