package shared

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout accepted for range bounds and used for day buckets.
const DateLayout = "2006-01-02"

// DateRange is an inclusive time window. A nil bound is unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewDateRange builds a range from optional bounds, rejecting start after end.
func NewDateRange(start, end *time.Time) (DateRange, error) {
	if start != nil && end != nil && start.After(*end) {
		return DateRange{}, NewDomainError("INVALID_DATE_RANGE", "start date must not be after end date")
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses optional start/end strings in loc.
// Accepted forms are YYYY-MM-DD and RFC3339. A date-only end bound covers the whole day.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, _, err := parseBound(s, loc)
		if err != nil {
			return DateRange{}, NewDomainError("INVALID_DATE", "invalid start date: "+s)
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, dateOnly, err := parseBound(s, loc)
		if err != nil {
			return DateRange{}, NewDomainError("INVALID_DATE", "invalid end date: "+s)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		r.End = &t
	}
	return NewDateRange(r.Start, r.End)
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// IsUnbounded reports whether neither bound is set.
func (r DateRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls within the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// CapEnd returns a copy whose open end is replaced by asOf.
// An explicit end bound is kept as is.
func (r DateRange) CapEnd(asOf time.Time) DateRange {
	if r.End != nil {
		return r
	}
	end := asOf
	return DateRange{Start: r.Start, End: &end}
}

// Key is a normalized, comparable form of the range ("-" for an open bound).
func (r DateRange) Key() string {
	return boundKey(r.Start) + "|" + boundKey(r.End)
}

// Equal reports whether both ranges have the same bounds.
func (r DateRange) Equal(o DateRange) bool {
	return r.Key() == o.Key()
}

func boundKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
