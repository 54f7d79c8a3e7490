// Package calendar provides pure date arithmetic for the rotation scheduler.
// It has no persistence or network dependencies so it can be exercised
// deterministically from tests and from the rotation core.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ISODate is the wire format for calendar dates throughout the service.
const ISODate = "2006-01-02"

// maxSearchDays bounds the forward search for a working day. A non-working-day
// set large enough to exhaust it indicates misconfiguration, not a schedule.
const maxSearchDays = 3650

// ErrNoWorkingDayFound indicates the bounded forward search was exhausted
// without encountering a working day.
var ErrNoWorkingDayFound = errors.New("calendar: no working day found within search bound")

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD) in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(ISODate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders a time as an ISO 8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// NonWorkingDaySet indexes explicitly excluded ISO dates for membership tests.
type NonWorkingDaySet map[string]struct{}

// NewNonWorkingDaySet builds a set from ISO date strings. Entries that fail
// date validation are returned separately so callers can surface diagnostics;
// they never silently poison the set.
func NewNonWorkingDaySet(dates []string) (NonWorkingDaySet, []string) {
	set := make(NonWorkingDaySet, len(dates))
	var invalid []string
	for _, date := range dates {
		if _, err := ParseDate(date); err != nil {
			invalid = append(invalid, date)
			continue
		}
		set[date] = struct{}{}
	}
	return set, invalid
}

// Contains reports whether the given day is a member of the set.
func (s NonWorkingDaySet) Contains(t time.Time) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[FormatDate(t)]
	return ok
}

// IsWorkingDay reports whether the day is neither a weekend day nor a member
// of the non-working-day set.
func IsWorkingDay(t time.Time, nonWorking NonWorkingDaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !nonWorking.Contains(t)
}

// NextWorkingDayOnOrAfter returns the earliest working day >= start. The
// search advances one calendar day at a time and fails with
// ErrNoWorkingDayFound once the iteration bound is exhausted.
func NextWorkingDayOnOrAfter(start time.Time, nonWorking NonWorkingDaySet) (time.Time, error) {
	day := truncateToDay(start)
	for i := 0; i <= maxSearchDays; i++ {
		if IsWorkingDay(day, nonWorking) {
			return day, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoWorkingDayFound
}

// DetermineNextWorkingDay computes the target date for the next arrangement.
// With a latest history date the search starts the day after it; when that
// start would fall in the past it is clamped to today. Without history the
// search starts from today.
func DetermineNextWorkingDay(latest *time.Time, today time.Time, nonWorking NonWorkingDaySet) (time.Time, error) {
	today = truncateToDay(today)

	start := today
	if latest != nil {
		start = truncateToDay(*latest).AddDate(0, 0, 1)
		if start.Before(today) {
			start = today
		}
	}

	return NextWorkingDayOnOrAfter(start, nonWorking)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
