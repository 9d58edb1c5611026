package domain

// ColumnSet tracks which canonical columns were actually present in a source
// file. Typed records cannot distinguish "column absent" from "every value
// null", so the set carries that distinction alongside the rows: the window
// filter only applies its predicate when the pickup column was present, and
// the sink only writes columns the source actually had.
type ColumnSet map[string]struct{}

// NewColumnSet returns a ColumnSet containing the given column names.
func NewColumnSet(names ...string) ColumnSet {
	s := make(ColumnSet, len(names))
	s.Add(names...)
	return s
}

// Add inserts the given column names into the set.
func (s ColumnSet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Has reports whether the named column is in the set.
func (s ColumnSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Table is a normalized trip table: canonical rows plus the set of canonical
// columns that were present in the source. Tables are ephemeral — created by
// normalization, consumed by the filter and the aggregator within one unit of
// work. Only the final concatenated table leaves the pipeline.
type Table struct {
	Columns ColumnSet
	Rows    []TripRecord
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// EmptyCanonicalTable returns a zero-row table that still declares the full
// canonical column set, so downstream consumers relying on schema never see a
// missing column when a run finds no data.
func EmptyCanonicalTable() Table {
	return Table{Columns: NewColumnSet(CanonicalColumns()...), Rows: []TripRecord{}}
}
