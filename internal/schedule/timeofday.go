// Package schedule holds the calendar arithmetic used by availability and
// reservations: "HH:MM" conversions, the hourly slot grid, day periods and
// the clock the services read the current instant from.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotMinutes is the fixed length of every bookable slot.
const SlotMinutes = 60

// MinutesPerDay is the upper bound of a time of day, "24:00" included.
const MinutesPerDay = 24 * 60

// TimeToMinutes converts "HH:MM" into minutes since midnight.
// A trailing ":SS" (as Postgres renders TIME columns) is accepted and ignored.
func TimeToMinutes(hhmm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
	}
	for _, p := range parts {
		if !twoDigits(p) {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
		}
	}
	if len(parts) == 3 {
		if sec, _ := strconv.Atoi(parts[2]); sec > 59 {
			return 0, fmt.Errorf("time %q out of range", hhmm)
		}
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", hhmm, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", hhmm, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", hhmm)
	}

	return h*60 + m, nil
}

// MinutesToTime renders minutes since midnight as zero-padded "HH:MM".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Normalize parses and re-renders a time of day, dropping seconds.
func Normalize(hhmm string) (string, error) {
	m, err := TimeToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return MinutesToTime(m), nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
