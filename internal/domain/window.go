package domain

import (
	"fmt"
	"iter"
	"time"
)

// Window is a half-open fetch window: Start is inclusive, End is exclusive.
// Both are UTC dates at midnight. The same convention governs month
// enumeration and row filtering, so a row or month is never counted twice
// across adjacent windows.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and constructs a Window. Start must not be after End;
// Start == End is a legal empty window. Both bounds are truncated to UTC
// midnight so callers can pass timestamps without surprises.
func NewWindow(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("%w: window start and end dates are required", ErrValidation)
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: window start %s is after end %s",
			ErrValidation, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return Window{Start: truncateToDate(start), End: truncateToDate(end)}, nil
}

// Contains reports whether t falls inside the half-open window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthStarts returns a lazy sequence of the first day of every month that
// overlaps the window, in chronological order. The first element is the start
// of the month containing w.Start (which may precede w.Start itself); the
// sequence ends before the first month-start >= w.End. An empty window yields
// nothing. The sequence is restartable: ranging over it twice yields the same
// months.
func (w Window) MonthStarts() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		cur := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for cur.Before(w.End) {
			if !yield(cur) {
				return
			}
			cur = cur.AddDate(0, 1, 0)
		}
	}
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
