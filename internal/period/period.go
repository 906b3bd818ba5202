// Package period parses the free-text "Zeitraum" values of a job export,
// e.g. "21.03.2025 08:00 - 09:00".
package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateTimePattern = regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{4})\s+(\d{1,2}):(\d{1,2})`)
	datePattern     = regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{4})`)
	leadingPattern  = regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{4})(.*)$`)
)

var weekdayAbbrev = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "DI",
	time.Wednesday: "MI",
	time.Thursday:  "DO",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SO",
}

// WeekdayAbbrev returns the German two-letter weekday abbreviation.
func WeekdayAbbrev(d time.Weekday) string {
	return weekdayAbbrev[d]
}

// parseDate parses a day-first D.M.YYYY date. Calendar-invalid dates fail.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2.1.2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseInstant parses the leading "D.M.YYYY H:M" of a period value. A value
// with only a leading date yields that date at midnight. A value whose time
// part is present but out of range is not parseable at all.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if m := dateTimePattern.FindStringSubmatch(s); m != nil {
		d, ok := parseDate(m[1])
		if !ok {
			return time.Time{}, false
		}
		hour, _ := strconv.Atoi(m[2])
		minute, _ := strconv.Atoi(m[3])
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
		return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), true
	}
	return ParseDate(s)
}

// ParseDate parses the leading D.M.YYYY date of a period value.
func ParseDate(s string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	return parseDate(m[1])
}

// Range returns "DD.MM.YYYY - DD.MM.YYYY" spanning the earliest and latest
// parseable dates in values, or "" when none parse.
func Range(values []string) string {
	var from, to time.Time
	found := false
	for _, v := range values {
		d, ok := ParseDate(v)
		if !ok {
			continue
		}
		if !found || d.Before(from) {
			from = d
		}
		if !found || d.After(to) {
			to = d
		}
		found = true
	}
	if !found {
		return ""
	}
	return from.Format("02.01.2006") + " - " + to.Format("02.01.2006")
}

// Transform splits "D.M.YYYY<rest>" into the weekday+date head
// "<WD> DD.MM.YY" and the untouched rest. ok is false when the value has no
// valid leading date.
func Transform(s string) (head, rest string, ok bool) {
	m := leadingPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	d, valid := parseDate(m[1])
	if !valid {
		return "", "", false
	}
	return WeekdayAbbrev(d.Weekday()) + " " + d.Format("02.01.06"), m[2], true
}

// Format returns the transformed period text, or s unchanged when it cannot
// be transformed.
func Format(s string) string {
	head, rest, ok := Transform(s)
	if !ok {
		return s
	}
	return head + rest
}
