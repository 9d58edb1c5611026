package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// collectMonths ranges over the window's month sequence and returns a slice.
func collectMonths(w domain.Window) []time.Time {
	var out []time.Time
	for m := range w.MonthStarts() {
		out = append(out, m)
	}
	return out
}

func TestNewWindow_StartAfterEnd(t *testing.T) {
	_, err := domain.NewWindow(date(2023, 3, 1), date(2023, 1, 1))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewWindow_ZeroDates(t *testing.T) {
	_, err := domain.NewWindow(time.Time{}, date(2023, 1, 1))
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.NewWindow(date(2023, 1, 1), time.Time{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewWindow_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	w, err := domain.NewWindow(
		time.Date(2023, 1, 15, 13, 45, 0, 0, loc).UTC(),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)

	require.NoError(t, err)
	assert.Equal(t, date(2023, 1, 15), w.Start)
}

func TestMonthStarts_TwoMonthWindow(t *testing.T) {
	// Scenario: [2023-01-01, 2023-03-01) must yield exactly January and
	// February month-starts — March is excluded by the half-open end.
	w, err := domain.NewWindow(date(2023, 1, 1), date(2023, 3, 1))
	require.NoError(t, err)

	months := collectMonths(w)

	assert.Equal(t, []time.Time{date(2023, 1, 1), date(2023, 2, 1)}, months)
}

func TestMonthStarts_EmptyWindow(t *testing.T) {
	w, err := domain.NewWindow(date(2023, 1, 1), date(2023, 1, 1))
	require.NoError(t, err)

	assert.Empty(t, collectMonths(w))
}

func TestMonthStarts_WindowInsideOneMonth(t *testing.T) {
	w, err := domain.NewWindow(date(2023, 6, 10), date(2023, 6, 20))
	require.NoError(t, err)

	months := collectMonths(w)

	assert.Equal(t, []time.Time{date(2023, 6, 1)}, months)
}

func TestMonthStarts_StartMidMonth(t *testing.T) {
	// The first element is the start of the month containing w.Start, even
	// when that month-start precedes w.Start itself.
	w, err := domain.NewWindow(date(2022, 11, 15), date(2023, 2, 1))
	require.NoError(t, err)

	months := collectMonths(w)

	assert.Equal(t, []time.Time{date(2022, 11, 1), date(2022, 12, 1), date(2023, 1, 1)}, months)
}

func TestMonthStarts_YearBoundary(t *testing.T) {
	w, err := domain.NewWindow(date(2022, 12, 1), date(2023, 2, 1))
	require.NoError(t, err)

	months := collectMonths(w)

	assert.Equal(t, []time.Time{date(2022, 12, 1), date(2023, 1, 1)}, months)
}

// TestMonthStarts_Properties checks the enumerator's invariants over a spread
// of windows: every yielded value is a first-of-month inside [start's month,
// end), strictly increasing by exactly one month, with no duplicates or gaps.
func TestMonthStarts_Properties(t *testing.T) {
	windows := []struct{ start, end time.Time }{
		{date(2020, 1, 1), date(2020, 1, 2)},
		{date(2020, 1, 31), date(2020, 3, 1)},
		{date(2019, 6, 15), date(2021, 6, 15)},
		{date(2023, 2, 28), date(2023, 3, 1)},
	}

	for _, tc := range windows {
		w, err := domain.NewWindow(tc.start, tc.end)
		require.NoError(t, err)

		months := collectMonths(w)
		require.NotEmpty(t, months)

		firstOfStartMonth := time.Date(tc.start.Year(), tc.start.Month(), 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, firstOfStartMonth, months[0], "sequence must begin at start's month")

		for i, m := range months {
			assert.Equal(t, 1, m.Day(), "every element must be a month-start")
			assert.True(t, m.Before(tc.end), "no element at or beyond end")
			if i > 0 {
				assert.Equal(t, months[i-1].AddDate(0, 1, 0), m, "months must be consecutive")
			}
		}

		// No month overlapping the window may be missing.
		assert.False(t, months[len(months)-1].AddDate(0, 1, 0).Before(tc.end),
			"last month +1 must reach end")
	}
}

// TestMonthStarts_Restartable verifies that ranging twice over the same
// sequence yields identical results.
func TestMonthStarts_Restartable(t *testing.T) {
	w, err := domain.NewWindow(date(2023, 1, 1), date(2023, 4, 1))
	require.NoError(t, err)

	seq := w.MonthStarts()

	var first, second []time.Time
	for m := range seq {
		first = append(first, m)
	}
	for m := range seq {
		second = append(second, m)
	}

	assert.Equal(t, first, second)
}

func TestWindow_Contains(t *testing.T) {
	w, err := domain.NewWindow(date(2023, 1, 1), date(2023, 2, 1))
	require.NoError(t, err)

	assert.True(t, w.Contains(date(2023, 1, 1)), "start is inclusive")
	assert.True(t, w.Contains(time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(date(2023, 2, 1)), "end is exclusive")
	assert.False(t, w.Contains(date(2022, 12, 31)))
}
