package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date used in requests and storage.
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// WeekdayOf returns the weekday (0 = Sunday) of an ISO date, computed on the
// calendar date itself so the server time zone never shifts it.
func WeekdayOf(date string) (time.Weekday, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.UTC().Weekday(), nil
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the venues' time zone.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(tz string) (SystemClock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return SystemClock{}, fmt.Errorf("failed to load time zone %q: %w", tz, err)
	}
	return SystemClock{Location: loc}, nil
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// SlotStart combines a date and a start time into an instant in loc.
func SlotStart(date, start string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	m, err := TimeToMinutes(start)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, loc), nil
}

// HasStarted reports whether the slot at (date, start) is at or before now,
// interpreting the slot in now's location.
func HasStarted(date, start string, now time.Time) (bool, error) {
	at, err := SlotStart(date, start, now.Location())
	if err != nil {
		return false, err
	}
	return !at.After(now), nil
}

// Today formats now as an ISO date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// MinuteOfDay returns minutes since midnight of t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
