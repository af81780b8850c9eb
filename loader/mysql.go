package loader

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/salesboard/analytics/engine/dataset"
	"github.com/salesboard/analytics/utils"
)

// MySQLLoader reads the star schema tables from a warehouse. Every
// cell is scanned as nullable text and passed through the shared type
// inference, so a warehouse-backed run behaves exactly like a CSV run.
type MySQLLoader struct {
	dsn    string
	logger *utils.Logger
}

// NewMySQLLoader creates a loader for the given DSN.
func NewMySQLLoader(dsn string, logger *utils.Logger) *MySQLLoader {
	return &MySQLLoader{dsn: dsn, logger: logger}
}

// Load connects, reads every table, and closes the connection.
func (l *MySQLLoader) Load() (*dataset.Registry, error) {
	db, err := sql.Open("mysql", l.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse connection: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("warehouse unreachable: %w", err)
	}

	start := time.Now()
	registry := dataset.NewRegistry()
	for _, name := range TableNames {
		table, err := l.loadTable(db, name)
		if err != nil {
			return nil, err
		}
		registry.Register(table)
		l.logger.Debug("Loaded table %q: %d rows", name, table.Len())
	}

	l.logger.Info("Loaded %d warehouse tables in %v", len(TableNames), time.Since(start))
	return registry, nil
}

func (l *MySQLLoader) loadTable(db *sql.DB, name string) (*dataset.Table, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM `%s`", name))
	if err != nil {
		return nil, &dataset.SchemaMismatchError{Table: name}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := dataset.NewTable(name, columns)
	cells := make([]sql.NullString, len(columns))
	scan := make([]interface{}, len(columns))
	for i := range cells {
		scan[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scanning table %q: %w", name, err)
		}
		row := make(dataset.Row, len(columns))
		for i, col := range columns {
			if !cells[i].Valid {
				continue
			}
			if v := ParseCell(cells[i].String); !v.IsNull() {
				row[col] = v
			}
		}
		table.Append(row)
	}
	return table, rows.Err()
}
