package query

import (
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// Weekday indexes the calendar.txt day columns, Monday first
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "invalid"
	}
	return weekdayNames[d]
}

// ParseWeekday maps a calendar column name to a Weekday, ignoring case and surrounding space
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == s {
			return Weekday(i), true
		}
	}
	return 0, false
}

// IsWeekday reports whether s names a calendar day column
func IsWeekday(s string) bool {
	_, ok := ParseWeekday(s)
	return ok
}

// WeekdaySet is a set of selected service days
type WeekdaySet [7]bool

// ParseWeekdays builds a set from day names. Unknown names yield an *InvalidFilterError.
func ParseWeekdays(names []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, n := range names {
		d, ok := ParseWeekday(n)
		if !ok {
			return WeekdaySet{}, &InvalidFilterError{Field: "weekdays", Value: n, Reason: "not a calendar day"}
		}
		set[d] = true
	}
	return set, nil
}

// WorkWeek returns Monday through Friday
func WorkWeek() WeekdaySet {
	return WeekdaySet{true, true, true, true, true, false, false}
}

// Has reports whether d is selected
func (s WeekdaySet) Has(d Weekday) bool {
	return d >= Monday && d <= Sunday && s[d]
}

// Empty reports whether no day is selected
func (s WeekdaySet) Empty() bool {
	return s == WeekdaySet{}
}

// Days returns the selected days in calendar order
func (s WeekdaySet) Days() []Weekday {
	out := make([]Weekday, 0, 7)
	for i, on := range s {
		if on {
			out = append(out, Weekday(i))
		}
	}
	return out
}

// Names returns the selected day names in calendar order
func (s WeekdaySet) Names() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

func (s WeekdaySet) String() string { return strings.Join(s.Names(), ",") }

// Matches reports whether the calendar entry runs on every selected day.
// An empty set matches nothing.
func (s WeekdaySet) Matches(c gtfs.CalendarEntry) bool {
	if s.Empty() {
		return false
	}
	days := c.Days()
	for i, on := range s {
		if on && !days[i] {
			return false
		}
	}
	return true
}

// ActiveServices returns the ids of calendar entries running on every selected day
func ActiveServices(calendar []gtfs.CalendarEntry, days WeekdaySet) map[string]struct{} {
	out := make(map[string]struct{})
	if days.Empty() {
		return out
	}
	for _, c := range calendar {
		if days.Matches(c) {
			out[c.ServiceID] = struct{}{}
		}
	}
	return out
}
