package normalize

import (
	"fmt"
	"strings"
	"time"
)

// dobLayout accepts one- or two-digit month and day with a four-digit year.
const dobLayout = "1/2/2006"

// Source appointment timestamps, with and without an offset.
var scheduleFormats = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// DateOfBirth parses a M/D/YYYY date of birth.
func DateOfBirth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dobLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a MM/DD/YYYY date")
	}
	return t, nil
}

// ScheduledAt parses an appointment timestamp and strips any UTC offset,
// keeping the local wall-clock time.
func ScheduledAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range scheduleFormats {
		if t, err := time.Parse(f, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp")
}
