// Package schema reconciles the divergent source column layouts into the
// canonical trip record. Yellow files prefix their timestamps with "tpep_",
// green files with "lpep_", and location columns arrive in mixed case; after
// normalization every recognized column is expressed under its canonical name
// and every row carries its taxi type.
package schema

import (
	"strings"
	"time"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// renames maps a lowercased source column name to its canonical name.
// Unlisted source columns are dropped — fields are only renamed, never
// invented, so a file without payment_type produces a table without it.
var renames = map[string]string{
	"tpep_pickup_datetime":  domain.ColPickupDatetime,
	"lpep_pickup_datetime":  domain.ColPickupDatetime,
	"pickup_datetime":       domain.ColPickupDatetime,
	"tpep_dropoff_datetime": domain.ColDropoffDatetime,
	"lpep_dropoff_datetime": domain.ColDropoffDatetime,
	"dropoff_datetime":      domain.ColDropoffDatetime,
	"pulocationid":          domain.ColPickupLocationID,
	"pickup_location_id":    domain.ColPickupLocationID,
	"dolocationid":          domain.ColDropoffLocationID,
	"dropoff_location_id":   domain.ColDropoffLocationID,
	"passenger_count":       domain.ColPassengerCount,
	"trip_distance":         domain.ColTripDistance,
	"fare_amount":           domain.ColFareAmount,
	"total_amount":          domain.ColTotalAmount,
	"payment_type":          domain.ColPaymentType,
}

// setters assign one coerced source value to its canonical record field.
// Coercion failures leave the field nil; the row is always retained.
var setters = map[string]func(*domain.TripRecord, any){
	domain.ColPickupDatetime:    func(r *domain.TripRecord, v any) { r.PickupDatetime = coerceTimestamp(v) },
	domain.ColDropoffDatetime:   func(r *domain.TripRecord, v any) { r.DropoffDatetime = coerceTimestamp(v) },
	domain.ColPickupLocationID:  func(r *domain.TripRecord, v any) { r.PickupLocationID = coerceInt(v) },
	domain.ColDropoffLocationID: func(r *domain.TripRecord, v any) { r.DropoffLocationID = coerceInt(v) },
	domain.ColPassengerCount:    func(r *domain.TripRecord, v any) { r.PassengerCount = coerceInt(v) },
	domain.ColTripDistance:      func(r *domain.TripRecord, v any) { r.TripDistance = coerceFloat(v) },
	domain.ColFareAmount:        func(r *domain.TripRecord, v any) { r.FareAmount = coerceFloat(v) },
	domain.ColTotalAmount:       func(r *domain.TripRecord, v any) { r.TotalAmount = coerceFloat(v) },
	domain.ColPaymentType:       func(r *domain.TripRecord, v any) { r.PaymentType = coerceInt(v) },
}

// Normalize converts a raw fetched table into canonical form, tagging every
// row with taxiType. An empty input is a no-op fast path returning an empty
// table. The returned column set records which canonical columns were present
// in the source, plus taxi_type which is always added.
func Normalize(raw *domain.RawTable, taxiType string) domain.Table {
	if raw.Empty() {
		return domain.Table{}
	}

	present := domain.NewColumnSet(domain.ColTaxiType)
	colSetters := make([]func(*domain.TripRecord, any), len(raw.Columns))
	for i, name := range raw.Columns {
		canonical, ok := renames[strings.ToLower(name)]
		if !ok || canonical == domain.ColTaxiType {
			continue
		}
		present.Add(canonical)
		colSetters[i] = setters[canonical]
	}

	rows := make([]domain.TripRecord, 0, len(raw.Rows))
	for _, src := range raw.Rows {
		rec := domain.TripRecord{TaxiType: taxiType}
		for i, v := range src {
			if i < len(colSetters) && colSetters[i] != nil && v != nil {
				colSetters[i](&rec, v)
			}
		}
		rows = append(rows, rec)
	}

	return domain.Table{Columns: present, Rows: rows}
}

// timestampLayouts are the textual forms accepted when a source file carries
// timestamps as strings rather than parquet timestamp columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// coerceTimestamp attempts a strict conversion to time.Time and falls back to
// nil, never propagating a parse error upward.
func coerceTimestamp(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		u := t.UTC()
		return &u
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				u := parsed.UTC()
				return &u
			}
		}
	}
	return nil
}

// coerceInt converts integer-like values. Published files store several
// integer columns (passenger_count, payment_type) as doubles, so floats are
// accepted and truncated.
func coerceInt(v any) *int64 {
	switch n := v.(type) {
	case int64:
		return &n
	case float64:
		i := int64(n)
		return &i
	case bool:
		var i int64
		if n {
			i = 1
		}
		return &i
	}
	return nil
}

func coerceFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}
