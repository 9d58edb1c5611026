package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

func TestColumnSet(t *testing.T) {
	s := domain.NewColumnSet(domain.ColTaxiType, domain.ColPickupDatetime)

	assert.True(t, s.Has(domain.ColTaxiType))
	assert.False(t, s.Has(domain.ColPaymentType))

	s.Add(domain.ColPaymentType)
	assert.True(t, s.Has(domain.ColPaymentType))
}

func TestEmptyCanonicalTable(t *testing.T) {
	tbl := domain.EmptyCanonicalTable()

	assert.True(t, tbl.Empty())
	assert.NotNil(t, tbl.Rows, "rows must be an empty slice, not nil")

	cols := domain.CanonicalColumns()
	assert.Len(t, cols, 11)
	for _, c := range cols {
		assert.True(t, tbl.Columns.Has(c), "missing canonical column %q", c)
	}
}
