package enrich

// Registry table names for the sales star schema.
const (
	TableSales     = "Sales"
	TableDate      = "Date"
	TableTerritory = "Sales Territory"
	TableProduct   = "Product"
	TableCustomer  = "Customer"
	TableOrder     = "Sales Order"
	TableReseller  = "Reseller"
)

// Fact and dimension column names, as declared by the source workbook.
const (
	ColOrderLineKey = "SalesOrderLineKey"
	ColOrderDateKey = "OrderDateKey"
	ColCustomerKey  = "CustomerKey"
	ColProductKey   = "ProductKey"
	ColTerritoryKey = "SalesTerritoryKey"
	ColResellerKey  = "ResellerKey"

	ColOrderQuantity = "Order Quantity"
	ColUnitPrice     = "Unit Price"
	ColSalesAmount   = "Sales Amount"
	ColProductCost   = "Total Product Cost"
	ColStandardCost  = "Product Standard Cost"

	ColDateKey    = "DateKey"
	ColDate       = "Date"
	ColFiscalYear = "Fiscal Year"

	ColCountry = "Country"
	ColRegion  = "Region"
	ColGroup   = "Group"

	ColProduct     = "Product"
	ColCategory    = "Category"
	ColSubcategory = "Subcategory"
	ColColor       = "Color"
	ColListPrice   = "List Price"

	ColCustomer = "Customer"
	ColCity     = "City"

	ColChannel    = "Channel"
	ColSalesOrder = "Sales Order"

	ColReseller     = "Reseller"
	ColBusinessType = "Business Type"
)

// JoinSpec declares one left-outer join of the fact table against a
// dimension table. Every fact row is retained; rows without a match
// read the dimension's columns as null.
type JoinSpec struct {
	Table   string
	FactKey string
	DimKey  string
}

// DefaultPlan is the join order of the sales dataset. Order only
// matters for column-collision renaming, which is deterministic for a
// fixed plan.
func DefaultPlan() []JoinSpec {
	return []JoinSpec{
		{Table: TableDate, FactKey: ColOrderDateKey, DimKey: ColDateKey},
		{Table: TableTerritory, FactKey: ColTerritoryKey, DimKey: ColTerritoryKey},
		{Table: TableProduct, FactKey: ColProductKey, DimKey: ColProductKey},
		{Table: TableCustomer, FactKey: ColCustomerKey, DimKey: ColCustomerKey},
		{Table: TableOrder, FactKey: ColOrderLineKey, DimKey: ColOrderLineKey},
		{Table: TableReseller, FactKey: ColResellerKey, DimKey: ColResellerKey},
	}
}
