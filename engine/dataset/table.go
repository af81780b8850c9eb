package dataset

// Row maps column names to cell values. Columns absent from the map
// read as null.
type Row map[string]Value

// Get returns the value for a column, null when the row has no cell
// for it.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Table is an ordered sequence of rows with a declared column set.
// Tables are immutable once handed to the registry: loaders build
// them, everything downstream only reads.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	columnSet map[string]bool
}

// NewTable creates an empty table with the given column declaration.
func NewTable(name string, columns []string) *Table {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Table{
		Name:      name,
		Columns:   append([]string{}, columns...),
		columnSet: set,
	}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(column string) bool {
	return t.columnSet[column]
}

// RequireColumns verifies that every listed column is declared,
// returning a SchemaMismatchError for the first one missing.
func (t *Table) RequireColumns(columns ...string) error {
	for _, c := range columns {
		if !t.columnSet[c] {
			return &SchemaMismatchError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// Registry holds the raw tables of one analysis run keyed by name.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register adds a table under its name, replacing any previous table
// with the same name.
func (r *Registry) Register(t *Table) {
	r.tables[t.Name] = t
}

// Lookup returns the named table, nil when absent.
func (r *Registry) Lookup(name string) *Table {
	return r.tables[name]
}

// Require returns the named table or a SchemaMismatchError naming it.
func (r *Registry) Require(name string) (*Table, error) {
	t, ok := r.tables[name]
	if !ok {
		return nil, &SchemaMismatchError{Table: name}
	}
	return t, nil
}

// Names returns the registered table names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	return names
}
