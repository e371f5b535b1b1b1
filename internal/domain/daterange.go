package domain

import (
	"fmt"
	"time"
)

// DateRange is an inclusive-inclusive range of calendar days.
// A range with Start == End occupies exactly one day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses a range from YYYY-MM-DD strings.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateFormat, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid start date %q, expected YYYY-MM-DD", ErrValidation, start)
	}
	e, err := time.Parse(DateFormat, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid end date %q, expected YYYY-MM-DD", ErrValidation, end)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks the range is well-formed.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: date range requires both start and end", ErrValidation)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrValidation, r.End.Format(DateFormat), r.Start.Format(DateFormat))
	}
	return nil
}

// Overlaps reports whether two inclusive ranges share at least one day:
// s1 <= e2 AND s2 <= e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := truncateToDay(day)
	return !d.Before(truncateToDay(r.Start)) && !d.After(truncateToDay(r.End))
}

// Days returns the number of days occupied by the range (at least 1).
func (r DateRange) Days() int {
	return int(truncateToDay(r.End).Sub(truncateToDay(r.Start)).Hours()/24) + 1
}

// EndedBefore reports whether the whole range lies strictly before the given day.
func (r DateRange) EndedBefore(day time.Time) bool {
	return truncateToDay(r.End).Before(truncateToDay(day))
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
