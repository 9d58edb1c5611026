package ingest

import "github.com/pkordes/taxi-ingest/internal/domain"

// FilterWindow restricts a normalized table to rows whose pickup timestamp
// falls inside the half-open window. Rows with a null pickup fail the
// predicate and are dropped. When the source had no pickup column at all the
// predicate cannot be applied and the table passes through unfiltered.
func FilterWindow(t domain.Table, w domain.Window) domain.Table {
	if !t.Columns.Has(domain.ColPickupDatetime) {
		return t
	}

	out := domain.Table{Columns: t.Columns, Rows: make([]domain.TripRecord, 0, len(t.Rows))}
	for _, row := range t.Rows {
		if row.PickupDatetime != nil && w.Contains(*row.PickupDatetime) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
