package training

import (
	"fmt"
	"strconv"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// ParseTime converts "HH:MM" to minutes since midnight.
// Only zero-padded 24-hour times are accepted (00:00 through 23:59).
func ParseTime(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hours, ok := parseTwoDigits(s[0:2])
	if !ok || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	mins, ok := parseTwoDigits(s[3:5])
	if !ok || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return hours*60 + mins, nil
}

// MustParseTime is like ParseTime but panics on invalid input.
// Intended for constants and tests.
func MustParseTime(s string) int {
	m, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatTime converts minutes since midnight to "HH:MM" format.
// 1440 formats as "24:00" so an interval ending at midnight stays readable.
func FormatTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseInterval parses a start/end pair and checks that start is before end.
func ParseInterval(start, end string) (startMin, endMin int, err error) {
	startMin, err = ParseTime(start)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	endMin, err = ParseTime(end)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if endMin <= startMin {
		return 0, 0, ErrEndBeforeStart
	}
	return startMin, endMin, nil
}

func parseTwoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
