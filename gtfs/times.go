package gtfs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadTime is returned for stop_times values that are not H:MM:SS
var ErrBadTime = errors.New("invalid GTFS time")

// ParseTime parses a GTFS time of day ("HH:MM:SS", hours may exceed 23) into the
// offset from midnight of the service day.
func ParseTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	var fields [3]int
	for i, p := range parts {
		if p == "" {
			return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
		}
		fields[i] = v
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// FormatTime renders an offset from midnight as HH:MM:SS without wrapping at 24h
func FormatTime(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, total/3600, (total/60)%60, total%60)
}
