// Package slots enumerates the discrete pickup times of an event window.
// All values are naive wall-clock times on the event's date; the package
// never looks at bookings or the system clock.
package slots

import (
	"fmt"
	"regexp"
	"strconv"
)

var clockRe = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are accepted on input but ignored; slot math is minute-grained.
func ParseClock(s string) (int, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM or HH:MM:SS", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + min, nil
}

// FormatClock renders minutes since midnight as "HH:MM:SS". Zero-padded,
// so lexicographic order equals chronological order.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// Normalize converts "HH:MM" or "HH:MM:SS" to canonical "HH:MM:SS".
func Normalize(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// Enumerate returns the slot times of the window, earliest first,
// inclusive of both endpoints: every start + k*interval that is <= end.
// An inverted window (end < start) yields no slots.
func Enumerate(startTime, endTime string, intervalMinutes int) ([]string, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, nil
	}

	out := make([]string, 0, (end-start)/intervalMinutes+1)
	for t := start; t <= end; t += intervalMinutes {
		out = append(out, FormatClock(t))
	}
	return out, nil
}

// Count is floor((end-start)/interval)+1 for a valid window, else 0.
func Count(startTime, endTime string, intervalMinutes int) int {
	if intervalMinutes <= 0 {
		return 0
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0
	}
	if end < start {
		return 0
	}
	return (end-start)/intervalMinutes + 1
}

// Contains reports whether t (any accepted clock format) is one of the
// window's enumerated slot times.
func Contains(startTime, endTime string, intervalMinutes int, t string) bool {
	if intervalMinutes <= 0 {
		return false
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return false
	}
	v, err := ParseClock(t)
	if err != nil {
		return false
	}
	if v < start || v > end {
		return false
	}
	return (v-start)%intervalMinutes == 0
}
