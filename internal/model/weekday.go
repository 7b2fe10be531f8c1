package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a planning day. Sunday is never planned.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Weekdays is the fixed display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday accepts full or three-letter names in any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		name := strings.ToLower(string(d))
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Valid reports whether d is one of the six planning days.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index is the position in Weekdays, or -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Short returns "Mon", "Tue", ...
func (d Weekday) Short() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:3])
}

// WeekdayOf maps a calendar date onto a planning day.
func WeekdayOf(t time.Time) (Weekday, bool) {
	if t.Weekday() == time.Sunday {
		return "", false
	}
	return Weekdays[int(t.Weekday())-1], true
}

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "June", "July", "Aug", "Sept", "Oct", "Nov", "Dec"}

// DayHeader formats the header used by the weekly view, e.g. "Mon, Sept 2".
// weekStart is the Monday of the displayed week.
func DayHeader(weekStart time.Time, d Weekday) string {
	date := weekStart.AddDate(0, 0, d.Index())
	return fmt.Sprintf("%s, %s %d", d.Short(), monthAbbrev[date.Month()-1], date.Day())
}
