package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date-mention patterns recognized inside a memory fact, e.g.
// "Birthday is June 1st", "anniversary on 6/12", "moving 10-31".
var (
	numericDatePattern = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})`)
	monthNamePattern   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\s+(\d{1,2})`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4,
	"jun": 6, "jul": 7, "aug": 8, "sep": 9,
	"oct": 10, "nov": 11, "dec": 12,
}

// matchesMonthDay reports whether the fact content mentions a date
// falling on today's month and day.
func matchesMonthDay(content string, today time.Time) bool {
	want := fmt.Sprintf("%02d-%02d", int(today.Month()), today.Day())

	if m := monthNamePattern.FindStringSubmatch(content); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		if fmt.Sprintf("%02d-%02d", month, day) == want {
			return true
		}
	}

	if m := numericDatePattern.FindStringSubmatch(content); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if fmt.Sprintf("%02d-%02d", month, day) == want {
			return true
		}
	}

	return false
}
