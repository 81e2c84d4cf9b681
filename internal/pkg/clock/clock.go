// Package clock holds the time-of-day arithmetic used by the attendance engine.
// Times of day are "HH:MM" strings counted in minutes from local midnight; durations
// use the same notation with an optional leading minus and unbounded hours.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var (
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")
	ErrOutOfRange    = errors.New("time falls outside of the day (00:00-23:59)")
)

var (
	timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	durationRegex  = regexp.MustCompile(`^-?[0-9]{1,}:[0-5][0-9]$`)
)

// IsValidTime reports whether s is a time of day in HH:MM (H:MM accepted) form.
func IsValidTime(s string) bool {
	return timeOfDayRegex.MatchString(s)
}

// TimeToMinutes converts a time of day to minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	if !IsValidTime(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return splitMinutes(s), nil
}

// MinutesToTime formats minutes as HH:MM. Negative values get a leading "-" and hours are
// not wrapped, so 1500 renders as "25:00".
func MinutesToTime(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// ParseDuration is the inverse of MinutesToTime for any value it produces.
func ParseDuration(s string) (int, error) {
	if !durationRegex.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	negative := strings.HasPrefix(s, "-")
	m := splitMinutes(strings.TrimPrefix(s, "-"))
	if negative {
		m = -m
	}
	return m, nil
}

// Diff returns end - start in minutes. The result is negative when end precedes start.
func Diff(start, end string) (int, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// AddMinutes shifts a time of day by delta minutes. Results outside the same day are
// rejected with ErrOutOfRange instead of wrapping.
func AddMinutes(s string, delta int) (string, error) {
	m, err := TimeToMinutes(s)
	if err != nil {
		return "", err
	}
	total := m + delta
	if total < 0 || total >= MinutesPerDay {
		return "", fmt.Errorf("%w: %s%+d min", ErrOutOfRange, s, delta)
	}
	return MinutesToTime(total), nil
}

// splitMinutes expects input already matched by one of the regexes above.
func splitMinutes(s string) int {
	idx := strings.IndexByte(s, ':')
	hours, _ := strconv.Atoi(s[:idx])
	minutes, _ := strconv.Atoi(s[idx+1:])
	return hours*60 + minutes
}
