// Package domain contains the core data types for the taxi trip ingest
// pipeline. This package has no dependencies beyond the stdlib and uuid,
// and is imported by every other internal package (fetch, normalize,
// ingest, repo, handler).
package domain

import "time"

// TripRecord is one row of the canonical trip table — the unit of pipeline
// output. Every source schema (yellow, green) is normalized into this shape.
//
// Pointer fields are nullable: a nil pointer means the value was null in the
// source file or failed to parse. TaxiType and ExtractedAt are always set by
// the pipeline itself and are never null.
type TripRecord struct {
	TaxiType          string
	PickupDatetime    *time.Time
	DropoffDatetime   *time.Time
	PickupLocationID  *int64
	DropoffLocationID *int64
	PassengerCount    *int64
	TripDistance      *float64
	FareAmount        *float64
	TotalAmount       *float64
	PaymentType       *int64
	ExtractedAt       time.Time
}

// Canonical column names, in the order the output table declares them.
// Downstream consumers rely on this exact set and order even when a run
// produces zero rows.
const (
	ColTaxiType          = "taxi_type"
	ColPickupDatetime    = "pickup_datetime"
	ColDropoffDatetime   = "dropoff_datetime"
	ColPickupLocationID  = "pickup_location_id"
	ColDropoffLocationID = "dropoff_location_id"
	ColPassengerCount    = "passenger_count"
	ColTripDistance      = "trip_distance"
	ColFareAmount        = "fare_amount"
	ColTotalAmount       = "total_amount"
	ColPaymentType       = "payment_type"
	ColExtractedAt       = "extracted_at"
)

// CanonicalColumns returns the full canonical column set in declared order.
// It returns a fresh slice so callers may modify it freely.
func CanonicalColumns() []string {
	return []string{
		ColTaxiType,
		ColPickupDatetime,
		ColDropoffDatetime,
		ColPickupLocationID,
		ColDropoffLocationID,
		ColPassengerCount,
		ColTripDistance,
		ColFareAmount,
		ColTotalAmount,
		ColPaymentType,
		ColExtractedAt,
	}
}

// DefaultTaxiTypes is the subtype list used when a run does not specify one.
func DefaultTaxiTypes() []string {
	return []string{"yellow"}
}
