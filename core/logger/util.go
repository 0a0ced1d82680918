package logger

import (
	"strings"
	"time"
)

// RoundMS rounds a duration to whole milliseconds for log output.
func RoundMS(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

// SanitizeLimit collapses whitespace and truncates a string for safe
// inclusion in a single log line.
func SanitizeLimit(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if limit > 0 && len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// SummarizeStrings joins up to max items and reports whether the list was cut.
func SummarizeStrings(items []string, max int) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	if max <= 0 || len(items) <= max {
		return strings.Join(items, ","), false
	}
	return strings.Join(items[:max], ","), true
}
