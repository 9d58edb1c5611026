package domain

// RawTable is the untyped tabular payload decoded from one fetched monthly
// file, before schema normalization. Column names keep their source spelling
// and casing; Rows holds one value slice per record, aligned with Columns.
//
// Values are plain Go types produced by the columnar decoder: int64, float64,
// bool, string, or time.Time, with nil for nulls. RawTables are ephemeral —
// produced by the fetcher, consumed by the normalizer, then discarded.
type RawTable struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table is nil or has no rows.
func (t *RawTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
