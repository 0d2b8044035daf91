package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HourWindow bounds stop times by whole hours of the service day.
// Both bounds are exclusive.
type HourWindow struct {
	Lower int `json:"lower" yaml:"lower" validate:"min=0,max=23"`
	Upper int `json:"upper" yaml:"upper" validate:"min=0,max=23,gtefield=Lower"`
}

// DefaultWindow is the 06:00-22:00 window used when none is configured
var DefaultWindow = HourWindow{Lower: 6, Upper: 22}

// Validate checks 0 <= Lower <= Upper <= 23
func (w HourWindow) Validate() error {
	if w.Lower < 0 || w.Lower > 23 {
		return &InvalidFilterError{Field: "hours.lower", Value: strconv.Itoa(w.Lower), Reason: "must be within 0..23"}
	}
	if w.Upper < 0 || w.Upper > 23 {
		return &InvalidFilterError{Field: "hours.upper", Value: strconv.Itoa(w.Upper), Reason: "must be within 0..23"}
	}
	if w.Lower > w.Upper {
		return &InvalidFilterError{Field: "hours", Value: w.String(), Reason: "lower bound exceeds upper bound"}
	}
	return nil
}

// Bounds returns the window as offsets from midnight
func (w HourWindow) Bounds() (lower, upper time.Duration) {
	return time.Duration(w.Lower) * time.Hour, time.Duration(w.Upper) * time.Hour
}

// Contains reports lower < d < upper
func (w HourWindow) Contains(d time.Duration) bool {
	lower, upper := w.Bounds()
	return d > lower && d < upper
}

func (w HourWindow) String() string {
	return fmt.Sprintf("%d-%d", w.Lower, w.Upper)
}

// ParseHourWindow parses "L-U" into a validated window
func ParseHourWindow(s string) (HourWindow, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return HourWindow{}, &InvalidFilterError{Field: "hours", Value: s, Reason: "expected LOWER-UPPER"}
	}
	lower, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return HourWindow{}, &InvalidFilterError{Field: "hours", Value: s, Reason: "lower bound is not an integer"}
	}
	upper, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return HourWindow{}, &InvalidFilterError{Field: "hours", Value: s, Reason: "upper bound is not an integer"}
	}
	w := HourWindow{Lower: lower, Upper: upper}
	if err := w.Validate(); err != nil {
		return HourWindow{}, err
	}
	return w, nil
}
