package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/utils"
)

// CSVLoader reads one CSV file per table from a directory. File names
// are the lowercased table names with spaces replaced by underscores,
// e.g. "Sales Territory" comes from sales_territory.csv.
type CSVLoader struct {
	dir    string
	logger *utils.Logger
}

// NewCSVLoader creates a loader over the given directory.
func NewCSVLoader(dir string, logger *utils.Logger) *CSVLoader {
	return &CSVLoader{dir: dir, logger: logger}
}

// Load reads every table of the schema. A missing or headerless file
// is a schema problem, not an empty table.
func (l *CSVLoader) Load() (*dataset.Registry, error) {
	start := time.Now()
	registry := dataset.NewRegistry()

	for _, name := range TableNames {
		table, err := l.loadTable(name)
		if err != nil {
			return nil, err
		}
		registry.Register(table)
		l.logger.Debug("Loaded table %q: %d rows", name, table.Len())
	}

	l.logger.Info("Loaded %d CSV tables from %s in %v", len(TableNames), l.dir, time.Since(start))
	return registry, nil
}

// FileName returns the CSV file name for a table.
func FileName(table string) string {
	return strings.ReplaceAll(strings.ToLower(table), " ", "_") + ".csv"
}

func (l *CSVLoader) loadTable(name string) (*dataset.Table, error) {
	path := filepath.Join(l.dir, FileName(name))
	file, err := os.Open(path)
	if err != nil {
		return nil, &dataset.SchemaMismatchError{Table: name}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &dataset.SchemaMismatchError{Table: name}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := dataset.NewTable(name, header)
	for _, raw := range rows[1:] {
		row := make(dataset.Row, len(header))
		for i, col := range header {
			if i >= len(raw) {
				break
			}
			if v := ParseCell(raw[i]); !v.IsNull() {
				row[col] = v
			}
		}
		table.Append(row)
	}
	return table, nil
}
