package dataset

import "fmt"

// SchemaMismatchError reports an expected table or column that the
// loaded dataset does not provide. It aborts the whole run: nothing
// downstream can work on a dataset with a broken schema.
type SchemaMismatchError struct {
	Table  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema mismatch: table %q is missing", e.Table)
	}
	return fmt.Sprintf("schema mismatch: table %q has no column %q", e.Table, e.Column)
}

// AmbiguousJoinKeyError reports a dimension table with a duplicated
// join key. A duplicate would fan the fact table out and break the
// one-output-row-per-fact-row invariant, so the join refuses it.
type AmbiguousJoinKeyError struct {
	Table string
	Key   string
}

func (e *AmbiguousJoinKeyError) Error() string {
	return fmt.Sprintf("ambiguous join key: table %q has more than one row for key %s", e.Table, e.Key)
}

// InsufficientDataError reports a statistical operation that was given
// fewer observations than it can work with. It is local to the metric
// being computed and never aborts a run.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d data points, got %d", e.Op, e.Need, e.Got)
}
