package domain

import (
	"fmt"
	"time"
)

// Layouts of the wall-clock fields stored on an event.
const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	clockLayout = "3:04 PM"
)

// DefaultRegistrationCutoff is how long before the start registration closes.
const DefaultRegistrationCutoff = 15 * time.Minute

// ParseWallClock combines a date and a time-of-day in loc.
func ParseWallClock(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date/time %q %q", ErrInvalidInput, date, clock)
	}
	return t, nil
}

// EventStart returns the start instant of e, interpreting its wall clock in loc.
func EventStart(e *Event, loc *time.Location) (time.Time, error) {
	return ParseWallClock(e.Date, e.Time, loc)
}

// EventEnd returns the end instant of e and whether an end time is set.
func EventEnd(e *Event, loc *time.Location) (time.Time, bool, error) {
	if e.EndTime == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseWallClock(e.Date, e.EndTime, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// IsRegistrationOpen reports whether a student may still register at now:
// registration closes cutoff before the start. The wall clock is read in now's location.
func IsRegistrationOpen(e *Event, now time.Time, cutoff time.Duration) bool {
	start, err := EventStart(e, now.Location())
	if err != nil {
		return false
	}
	return now.Before(start.Add(-cutoff))
}

// HasConcluded reports whether now is past the end of e, or past its start when no end time is set.
func HasConcluded(e *Event, now time.Time) bool {
	clock := e.EndTime
	if clock == "" {
		clock = e.Time
	}
	end, err := ParseWallClock(e.Date, clock, now.Location())
	if err != nil {
		return false
	}
	return now.After(end)
}

// FormatClock renders an instant the way check-in messages show it, e.g. "3:04 PM".
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}
