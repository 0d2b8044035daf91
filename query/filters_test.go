package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    WeekdaySet
		wantErr bool
	}{
		{name: "empty", in: nil, want: WeekdaySet{}},
		{name: "mixed case", in: []string{"MONDAY", " Friday "}, want: WeekdaySet{Monday: true, Friday: true}},
		{name: "duplicates collapse", in: []string{"sunday", "Sunday"}, want: WeekdaySet{Sunday: true}},
		{name: "unknown", in: []string{"monday", "funday"}, wantErr: true},
		{name: "abbreviation rejected", in: []string{"mon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if tt.wantErr {
				var fe *InvalidFilterError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, "weekdays", fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdaySet(t *testing.T) {
	ww := WorkWeek()
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, ww.Names())
	assert.Equal(t, "monday,tuesday,wednesday,thursday,friday", ww.String())
	assert.True(t, ww.Has(Wednesday))
	assert.False(t, ww.Has(Sunday))
	assert.False(t, ww.Has(Weekday(9)))
	assert.True(t, WeekdaySet{}.Empty())
	assert.Equal(t, "invalid", Weekday(-1).String())
	assert.True(t, IsWeekday("Saturday"))
	assert.False(t, IsWeekday("weekend"))
}

func TestActiveServices_AndReduction(t *testing.T) {
	calendar := []gtfs.CalendarEntry{
		{ServiceID: "WK", Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true},
		{ServiceID: "WE", Saturday: true, Sunday: true},
		{ServiceID: "DAILY", Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true},
		{ServiceID: "NONE"},
	}

	tests := []struct {
		name string
		days WeekdaySet
		want []string
	}{
		{name: "monday", days: WeekdaySet{Monday: true}, want: []string{"WK", "DAILY"}},
		{name: "saturday", days: WeekdaySet{Saturday: true}, want: []string{"WE", "DAILY"}},
		{name: "monday and saturday", days: WeekdaySet{Monday: true, Saturday: true}, want: []string{"DAILY"}},
		{name: "empty set", days: WeekdaySet{}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveServices(calendar, tt.days)
			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
		})
	}
}

func TestHourWindow(t *testing.T) {
	w := HourWindow{Lower: 6, Upper: 22}
	require.NoError(t, w.Validate())

	assert.False(t, w.Contains(6*time.Hour), "lower bound is exclusive")
	assert.True(t, w.Contains(6*time.Hour+time.Second))
	assert.True(t, w.Contains(21*time.Hour+59*time.Minute))
	assert.False(t, w.Contains(22*time.Hour), "upper bound is exclusive")
	assert.False(t, w.Contains(30*time.Hour))

	assert.NoError(t, HourWindow{Lower: 5, Upper: 5}.Validate())

	for _, bad := range []HourWindow{{Lower: -1, Upper: 5}, {Lower: 0, Upper: 24}, {Lower: 10, Upper: 9}} {
		var fe *InvalidFilterError
		assert.ErrorAs(t, bad.Validate(), &fe, bad.String())
	}
}

func TestParseHourWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    HourWindow
		wantErr bool
	}{
		{in: "6-22", want: HourWindow{Lower: 6, Upper: 22}},
		{in: " 0 - 23 ", want: HourWindow{Lower: 0, Upper: 23}},
		{in: "22-6", wantErr: true},
		{in: "6", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "6-x", wantErr: true},
		{in: "6-24", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHourWindow(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinHelpers(t *testing.T) {
	rows := []gtfs.Stop{
		{StopID: "A", ParentStation: "P"},
		{StopID: "B", ParentStation: "P"},
		{StopID: "C", ParentStation: "Q"},
	}
	parent := func(s gtfs.Stop) string { return s.ParentStation }

	assert.Len(t, KeySet(rows, parent), 2)

	distinct := DistinctBy(rows, parent)
	require.Len(t, distinct, 2)
	assert.Equal(t, "C", distinct[1].StopID)

	right := []string{"Q"}
	semi := Semi(rows, parent, right, func(s string) string { return s })
	require.Len(t, semi, 1)
	assert.Equal(t, "C", semi[0].StopID)
}

func TestErrorsFormat(t *testing.T) {
	fe := &InvalidFilterError{Field: "weekdays", Value: "funday", Reason: "not a calendar day"}
	assert.Equal(t, `invalid weekdays "funday": not a calendar day`, fe.Error())
	assert.Equal(t, "invalid hours: bad", (&InvalidFilterError{Field: "hours", Reason: "bad"}).Error())

	de := &DataIntegrityError{Table: "stop_times", Key: "T1#4", Missing: "stop_id=GHOST"}
	assert.Equal(t, "stop_times row T1#4 dropped: unresolved stop_id=GHOST", de.Error())
}
