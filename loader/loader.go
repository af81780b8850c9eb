// Package loader fills the table registry from a dataset source. Both
// backends produce the same registry shape, so the rest of the
// pipeline never knows where the tables came from.
package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/salesboard/analytics/config"
	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/engine/enrich"
	"github.com/salesboard/analytics/utils"
)

// Loader reads every table of the sales star schema.
type Loader interface {
	Load() (*dataset.Registry, error)
}

// TableNames is the full set of tables a source must provide.
var TableNames = []string{
	enrich.TableSales,
	enrich.TableDate,
	enrich.TableTerritory,
	enrich.TableProduct,
	enrich.TableCustomer,
	enrich.TableOrder,
	enrich.TableReseller,
}

// NewFromConfig selects the loader for the configured source.
func NewFromConfig(cfg config.Config, logger *utils.Logger) (Loader, error) {
	switch cfg.Source {
	case "", "csv":
		return NewCSVLoader(cfg.DataDir, logger), nil
	case "mysql":
		return NewMySQLLoader(cfg.Database.DSN(), logger), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

// dateLayouts are tried in order when a cell looks like a date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	time.RFC3339,
}

// ParseCell infers the typed value of one raw cell. Blank cells are
// null, numerics become numbers, recognizable dates become dates, and
// everything else stays a string. Both backends share this inference
// so a key joins identically regardless of source.
func ParseCell(raw string) dataset.Value {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return dataset.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return dataset.Number(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dataset.Time(t)
		}
	}
	return dataset.String(s)
}
