// Package utils offers functions of general utility in other parts of the system
package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseDuration parses a duration that may be expressed as a sequence of whitespace separated
// components, each in the format accepted by time.ParseDuration (e.g. "1m 30s")
func ParseDuration(value string) (time.Duration, error) {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return 0, fmt.Errorf("invalid duration %q: empty value", value)
	}

	var total time.Duration
	for _, p := range parts {
		d, err := time.ParseDuration(p)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		total += d
	}

	return total, nil
}

// units used for formatting durations, from the largest to the smallest
var units = []struct {
	suffix string
	size   time.Duration
}{
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// FormatDuration returns the duration as a whitespace separated sequence of its non zero
// components (e.g. "1m 23s 450ms"). The result can be parsed back with ParseDuration.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	parts := []string{}
	for _, u := range units {
		if count := d / u.size; count > 0 {
			parts = append(parts, fmt.Sprintf("%s%d%s", sign, count, u.suffix))
			d -= count * u.size
		}
	}

	return strings.Join(parts, " ")
}
