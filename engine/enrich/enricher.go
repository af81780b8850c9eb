// Package enrich builds the denormalized analytical dataset: the fact
// table left-joined against every dimension, with derived fields
// computed once per record after all joins complete.
package enrich

import (
	"fmt"
	"time"

	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/engine/models"
	"github.com/salesboard/analytics/utils"
)

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Enricher performs the join/enrichment phase of a run.
type Enricher struct {
	registry *dataset.Registry
	logger   *utils.Logger
}

// NewEnricher creates an enricher over a populated registry.
func NewEnricher(registry *dataset.Registry, logger *utils.Logger) *Enricher {
	return &Enricher{registry: registry, logger: logger}
}

// Enrich joins the fact table against each dimension in plan order and
// returns one SaleRecord per fact row. Schema and join-key problems
// abort the run; a fact row that matches no dimension row still comes
// back, with that dimension's fields missing.
func (e *Enricher) Enrich(plan []JoinSpec) ([]*models.SaleRecord, error) {
	start := time.Now()

	fact, err := e.registry.Require(TableSales)
	if err != nil {
		return nil, err
	}
	if err := fact.RequireColumns(
		ColOrderLineKey, ColOrderDateKey, ColCustomerKey, ColProductKey,
		ColTerritoryKey, ColResellerKey, ColSalesAmount, ColProductCost,
	); err != nil {
		return nil, err
	}

	// One key index per dimension, built up front. Indexing also
	// verifies key uniqueness: a duplicate would fan the fact table
	// out on join and silently break row cardinality.
	type dimJoin struct {
		spec JoinSpec
		// src are the dimension's own column names; dst the names
		// they land under in the merged row (renamed on collision).
		src   []string
		dst   []string
		index map[string]dataset.Row
	}
	joins := make([]dimJoin, 0, len(plan))

	merged := make(map[string]bool, 32)
	for _, c := range fact.Columns {
		merged[c] = true
	}

	for _, spec := range plan {
		dim, err := e.registry.Require(spec.Table)
		if err != nil {
			return nil, err
		}
		if err := dim.RequireColumns(spec.DimKey); err != nil {
			return nil, err
		}
		if !fact.HasColumn(spec.FactKey) {
			return nil, &dataset.SchemaMismatchError{Table: fact.Name, Column: spec.FactKey}
		}

		index := make(map[string]dataset.Row, dim.Len())
		for _, row := range dim.Rows {
			key := row.Get(spec.DimKey).Key()
			if _, dup := index[key]; dup {
				return nil, &dataset.AmbiguousJoinKeyError{Table: dim.Name, Key: row.Get(spec.DimKey).Text()}
			}
			index[key] = row
		}

		// Resolve column collisions deterministically: a dimension
		// column already present in the merged schema is carried
		// under "<table>.<column>" so it can never overwrite an
		// earlier join's populated value.
		dst := make([]string, len(dim.Columns))
		for i, c := range dim.Columns {
			name := c
			if c != spec.DimKey && merged[c] {
				name = spec.Table + "." + c
			}
			dst[i] = name
			merged[name] = true
		}

		joins = append(joins, dimJoin{spec: spec, src: dim.Columns, dst: dst, index: index})
	}

	records := make([]*models.SaleRecord, 0, fact.Len())
	for _, factRow := range fact.Rows {
		row := make(dataset.Row, len(merged))
		for col, v := range factRow {
			row[col] = v
		}
		for _, join := range joins {
			match, ok := join.index[factRow.Get(join.spec.FactKey).Key()]
			if !ok {
				continue
			}
			for i, col := range join.src {
				if col == join.spec.DimKey {
					continue
				}
				row[join.dst[i]] = match.Get(col)
			}
		}
		records = append(records, buildRecord(row))
	}

	e.logger.Info("Enriched %d fact rows across %d dimensions in %v", len(records), len(joins), time.Since(start))
	return records, nil
}

// buildRecord assembles the typed enriched record from a merged row
// and computes the derived fields.
func buildRecord(row dataset.Row) *models.SaleRecord {
	rec := &models.SaleRecord{
		OrderLineKey: intOf(row, ColOrderLineKey),
		CustomerKey:  intOf(row, ColCustomerKey),
		ProductKey:   intOf(row, ColProductKey),
		TerritoryKey: intOf(row, ColTerritoryKey),
		ResellerKey:  intOf(row, ColResellerKey),

		OrderQuantity:    floatOf(row, ColOrderQuantity),
		UnitPrice:        floatOf(row, ColUnitPrice),
		SalesAmount:      floatOf(row, ColSalesAmount),
		TotalProductCost: floatOf(row, ColProductCost),
		StandardCost:     floatOf(row, ColStandardCost),
		ListPrice:        floatOf(row, ColListPrice),

		FiscalYear:   textOf(row, ColFiscalYear),
		Country:      textOf(row, ColCountry),
		Region:       textOf(row, ColRegion),
		Group:        textOf(row, ColGroup),
		Product:      textOf(row, ColProduct),
		Category:     textOf(row, ColCategory),
		Subcategory:  textOf(row, ColSubcategory),
		Color:        textOf(row, ColColor),
		Customer:     textOf(row, ColCustomer),
		City:         textOf(row, ColCity),
		Channel:      textOf(row, ColChannel),
		SalesOrder:   textOf(row, ColSalesOrder),
		Reseller:     textOf(row, ColReseller),
		BusinessType: textOf(row, ColBusinessType),
	}

	// Profit and margin propagate missing inputs instead of failing;
	// zero revenue leaves the margin undefined.
	if rec.SalesAmount.Valid && rec.TotalProductCost.Valid {
		rec.Profit = models.Float(rec.SalesAmount.Float64 - rec.TotalProductCost.Float64)
		if rec.SalesAmount.Float64 != 0 {
			rec.ProfitMargin = models.Float(rec.Profit.Float64 / rec.SalesAmount.Float64 * 100)
		}
	}

	// All calendar fields derive from the one parsed order date, so
	// year, quarter, month and weekday can never disagree.
	if t, ok := row.Get(ColDate).Time(); ok {
		rec.OrderDate = t
		rec.Year = t.Year()
		rec.Quarter = (int(t.Month())-1)/3 + 1
		rec.MonthName = monthNames[int(t.Month())-1]
		rec.DayOfWeek = dayNames[int(t.Weekday())]
	}

	return rec
}

func intOf(row dataset.Row, column string) int {
	if f, ok := row.Get(column).Number(); ok {
		return int(f)
	}
	return 0
}

func floatOf(row dataset.Row, column string) models.NullFloat {
	if f, ok := row.Get(column).Number(); ok {
		return models.Float(f)
	}
	return models.NullFloat{}
}

func textOf(row dataset.Row, column string) string {
	v := row.Get(column)
	if s, ok := v.String(); ok {
		return s
	}
	if f, ok := v.Number(); ok {
		return fmt.Sprintf("%v", f)
	}
	return ""
}
