package question

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// NormalizeDate returns the calendar date part (YYYY-MM-DD) of a date or timestamp string.
// Empty input gives "". Input that does not start with a YYYY-MM-DD date is returned unchanged.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) < len(dateLayout) || !isDatePrefix(trimmed[:len(dateLayout)]) {
		return s
	}
	if len(trimmed) > len(dateLayout) {
		switch trimmed[len(dateLayout)] {
		case 'T', 't', ' ':
		default:
			return s
		}
	}
	return trimmed[:len(dateLayout)]
}

// DateKey formats t as a normalized calendar date in t's location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

func isDatePrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}
