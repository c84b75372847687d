package analytics

import (
	"fmt"
	"strings"
	"time"
)

// TimePeriod selects the billing window
type TimePeriod string

const (
	PeriodWeek   TimePeriod = "WEEK"
	PeriodMonth  TimePeriod = "MONTH"
	PeriodYear   TimePeriod = "YEAR"
	PeriodCustom TimePeriod = "CUSTOM"
)

// ParseTimePeriod parses a period name case-insensitively
func ParseTimePeriod(s string) (TimePeriod, error) {
	switch p := TimePeriod(strings.ToUpper(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return p, nil
	default:
		return "", fmt.Errorf("unknown time period %q", s)
	}
}

// PeriodRange is a resolved billing window in whole days
type PeriodRange struct {
	StartDate time.Time
	EndDate   time.Time
	Label     string
}

// WindowStart is the first instant included in the range
func (r PeriodRange) WindowStart() time.Time {
	return startOfDay(r.StartDate)
}

// WindowEnd is the last instant (23:59:59) included in the range
func (r PeriodRange) WindowEnd() time.Time {
	y, m, d := r.EndDate.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, r.EndDate.Location())
}

// Contains reports whether t falls inside the inclusive window
func (r PeriodRange) Contains(t time.Time) bool {
	return !t.Before(r.WindowStart()) && !t.After(r.WindowEnd())
}

const (
	shortDateLayout = "Jan 02, 2006"
	monthLayout     = "January 2006"
	yearLayout      = "2006"
)

// ResolvePeriod turns a period selector into a concrete date range relative to today.
// CUSTOM uses the caller dates verbatim and requires both of them.
func ResolvePeriod(period TimePeriod, start, end *time.Time, today time.Time) (PeriodRange, error) {
	today = startOfDay(today)

	switch period {
	case PeriodWeek:
		// time.Weekday starts on Sunday; shift so Monday is 0
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return PeriodRange{
			StartDate: monday,
			EndDate:   monday.AddDate(0, 0, 6),
			Label:     "Week of " + monday.Format(shortDateLayout),
		}, nil

	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return PeriodRange{
			StartDate: first,
			EndDate:   first.AddDate(0, 1, -1),
			Label:     today.Format(monthLayout),
		}, nil

	case PeriodYear:
		return PeriodRange{
			StartDate: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()),
			EndDate:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location()),
			Label:     today.Format(yearLayout),
		}, nil

	case PeriodCustom:
		if start == nil || end == nil {
			return PeriodRange{}, ErrInvalidPeriodRequest
		}
		s, e := startOfDay(*start), startOfDay(*end)
		if e.Before(s) {
			return PeriodRange{}, ErrInvalidPeriodRequest
		}
		return PeriodRange{
			StartDate: s,
			EndDate:   e,
			Label:     fmt.Sprintf("%s to %s", s.Format(shortDateLayout), e.Format(shortDateLayout)),
		}, nil
	}

	return PeriodRange{}, ErrInvalidPeriodRequest
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
