package report

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Period is the granularity label attached to a profit/loss snapshot
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnual    Period = "annual"
)

// AllPeriods lists every supported period
func AllPeriods() []Period {
	return []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodAnnual}
}

// IsValid checks if the period is supported
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodAnnual:
		return true
	}
	return false
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// ParsePeriod parses a period name, case-insensitively
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_PERIOD", "invalid period: "+s)
	}
	return p, nil
}

// PreviousRange returns the last complete calendar period before now in loc.
// Weeks start on Monday.
func (p Period) PreviousRange(now time.Time, loc *time.Location) shared.DateRange {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start, end time.Time
	switch p {
	case PeriodDaily:
		end = today
		start = end.AddDate(0, 0, -1)
	case PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		end = today.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -7)
	case PeriodMonthly:
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start = end.AddDate(0, -1, 0)
	case PeriodQuarterly:
		q := (int(now.Month()) - 1) / 3
		end = time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
		start = end.AddDate(0, -3, 0)
	case PeriodAnnual:
		end = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		start = end.AddDate(-1, 0, 0)
	default:
		return shared.DateRange{}
	}
	last := end.Add(-time.Nanosecond)
	return shared.DateRange{Start: &start, End: &last}
}

// ClosesOn reports whether a period boundary falls on the day of t,
// i.e. the previous period has just completed.
func (p Period) ClosesOn(t time.Time) bool {
	switch p {
	case PeriodDaily:
		return true
	case PeriodWeekly:
		return t.Weekday() == time.Monday
	case PeriodMonthly:
		return t.Day() == 1
	case PeriodQuarterly:
		return t.Day() == 1 && (t.Month()-1)%3 == 0
	case PeriodAnnual:
		return t.Day() == 1 && t.Month() == time.January
	}
	return false
}
