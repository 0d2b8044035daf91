// Package testfeed builds GTFS zip archives in memory for tests.
package testfeed

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// Headers used by Standard and by callers starting from New().WithDefaultTables()
var (
	StopsHeader     = []string{"stop_id", "stop_name", "stop_lat", "stop_lon", "location_type", "parent_station"}
	RoutesHeader    = []string{"route_id", "agency_id", "route_short_name", "route_long_name", "route_type", "route_color"}
	TripsHeader     = []string{"route_id", "service_id", "trip_id", "trip_headsign", "direction_id"}
	StopTimesHeader = []string{"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence", "pickup_type", "drop_off_type"}
	CalendarHeader  = []string{"service_id", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "start_date", "end_date"}
	AgencyHeader    = []string{"agency_id", "agency_name", "agency_url", "agency_timezone"}
)

type file struct {
	raw  []byte
	rows [][]string
}

// Builder accumulates GTFS tables and writes them as a zip archive
type Builder struct {
	files map[string]*file
	order []string
}

// New returns an empty builder
func New() *Builder {
	return &Builder{files: map[string]*file{}}
}

// WithDefaultTables declares the five required tables with their standard headers
func (b *Builder) WithDefaultTables() *Builder {
	return b.Table("stops.txt", StopsHeader...).
		Table("routes.txt", RoutesHeader...).
		Table("trips.txt", TripsHeader...).
		Table("stop_times.txt", StopTimesHeader...).
		Table("calendar.txt", CalendarHeader...)
}

// Table declares a table with the given header, replacing any previous content
func (b *Builder) Table(name string, header ...string) *Builder {
	if _, ok := b.files[name]; !ok {
		b.order = append(b.order, name)
	}
	b.files[name] = &file{rows: [][]string{header}}
	return b
}

// Row appends a record to a declared table
func (b *Builder) Row(name string, values ...string) *Builder {
	f, ok := b.files[name]
	if !ok {
		panic("testfeed: table " + name + " not declared")
	}
	f.rows = append(f.rows, values)
	return b
}

// Raw stores a file verbatim, bypassing CSV encoding
func (b *Builder) Raw(name, content string) *Builder {
	if _, ok := b.files[name]; !ok {
		b.order = append(b.order, name)
	}
	b.files[name] = &file{raw: []byte(content)}
	return b
}

// Without drops a table from the archive
func (b *Builder) Without(name string) *Builder {
	delete(b.files, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return b
}

// Zip renders the archive
func (b *Builder) Zip() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range b.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		f := b.files[name]
		if f.raw != nil {
			if _, err := w.Write(f.raw); err != nil {
				return nil, err
			}
			continue
		}
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(f.rows); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustZip renders the archive or fails the test
func (b *Builder) MustZip(t testing.TB) []byte {
	t.Helper()
	data, err := b.Zip()
	require.NoError(t, err)
	return data
}

// Feed renders and loads the archive or fails the test
func (b *Builder) Feed(t testing.TB) *gtfs.Feed {
	t.Helper()
	feed, err := gtfs.LoadFromBytes(b.MustZip(t))
	require.NoError(t, err)
	return feed
}

// Standard returns the canonical fixture shared by package tests.
//
// Stations (sorted by name): Pfeld, Qhausen, Wil, Xdorf, Ystadt, Zburg, plus the
// ungrouped stop LONE. Routes: S1 (short working + full X-Y-Z trip), S2 (Z-P-Q),
// IR5 (daily, X-P-W-LONE), EXT (excluded service), S9 (weekends, Y-W) and SN1
// (late evening X-Y-Z running past midnight).
func Standard() *Builder {
	b := New().WithDefaultTables().Table("agency.txt", AgencyHeader...)
	b.Row("agency.txt", "AG", "Test Rail", "https://example.org", "Europe/Zurich")

	stops := [][]string{
		{"ParentX", "Xdorf", "47.3769", "8.5417", "1", ""},
		{"X1", "Xdorf", "47.3770", "8.5400", "0", "ParentX"},
		{"X2", "Xdorf", "47.3771", "8.5410", "0", "ParentX"},
		{"ParentY", "Ystadt", "47.0502", "8.3093", "1", ""},
		{"Y1", "Ystadt", "47.0500", "8.3100", "0", "ParentY"},
		{"ParentZ", "Zburg", "46.9480", "7.4474", "1", ""},
		{"Z1", "Zburg", "46.9490", "7.4390", "0", "ParentZ"},
		{"ParentP", "Pfeld", "47.5596", "7.5886", "1", ""},
		{"P1", "Pfeld", "47.5590", "7.5880", "0", "ParentP"},
		{"P2", "Pfeld", "47.5591", "7.5881", "0", "ParentP"},
		{"ParentQ", "Qhausen", "46.2044", "6.1432", "1", ""},
		{"Q1", "Qhausen", "46.2040", "6.1430", "0", "ParentQ"},
		{"ParentW", "Wil", "47.4615", "9.0399", "1", ""},
		{"W1", "Wil", "47.4610", "9.0390", "0", "ParentW"},
		{"LONE", "Einzelhalt", "47.1000", "8.1000", "0", ""},
	}
	for _, s := range stops {
		b.Row("stops.txt", s...)
	}

	routes := [][]string{
		{"R_S1", "AG", "S1", "Xdorf - Zburg", "109", "FF0000"},
		{"R_S2", "AG", "S2", "Zburg - Qhausen", "109", "00FF00"},
		{"R_IR", "AG", "IR5", "Xdorf - Wil", "103", "0000FF"},
		{"R_EXT", "AG", "EXT", "Extrazug", "2", "000000"},
		{"R_S9", "AG", "S9", "Ystadt - Wil", "109", "FFFF00"},
		{"R_SN", "AG", "SN1", "Nachtnetz", "109", "333333"},
	}
	for _, r := range routes {
		b.Row("routes.txt", r...)
	}

	trips := [][]string{
		{"R_S1", "WK", "S1_short", "Ystadt", "0"},
		{"R_S1", "WK", "S1_full", "Zburg", "0"},
		{"R_S2", "WK", "S2_a", "Qhausen", "0"},
		{"R_IR", "DAILY", "IR_a", "Wil", "0"},
		{"R_EXT", "WK", "EXT_a", "Qhausen", "0"},
		{"R_S9", "WE", "S9_a", "Wil", "0"},
		{"R_SN", "WK", "SN_a", "Zburg", "0"},
	}
	for _, t := range trips {
		b.Row("trips.txt", t...)
	}

	stopTimes := [][]string{
		{"S1_short", "08:00:00", "08:00:00", "X2", "1", "0", "0"},
		{"S1_short", "08:15:00", "08:16:00", "Y1", "2", "0", "0"},
		{"S1_full", "06:30:00", "06:31:00", "X1", "1", "0", "0"},
		{"S1_full", "06:45:00", "06:47:00", "Y1", "2", "0", "0"},
		{"S1_full", "07:05:00", "07:05:00", "Z1", "3", "0", "0"},
		{"S2_a", "07:10:00", "07:12:00", "Z1", "1", "0", "0"},
		{"S2_a", "07:30:00", "07:31:00", "P1", "2", "0", "0"},
		{"S2_a", "07:50:00", "07:50:00", "Q1", "3", "0", "0"},
		{"IR_a", "09:00:00", "09:02:00", "X2", "1", "0", "0"},
		{"IR_a", "09:30:00", "09:32:00", "P2", "2", "0", "0"},
		{"IR_a", "10:00:00", "10:01:00", "W1", "3", "0", "0"},
		{"IR_a", "10:10:00", "10:10:00", "LONE", "4", "0", "0"},
		{"EXT_a", "12:00:00", "12:00:00", "X1", "1", "0", "0"},
		{"EXT_a", "13:00:00", "13:00:00", "Q1", "2", "0", "0"},
		{"S9_a", "11:00:00", "11:00:00", "Y1", "1", "0", "0"},
		{"S9_a", "11:40:00", "11:40:00", "W1", "2", "0", "0"},
		{"SN_a", "22:30:00", "22:31:00", "X1", "1", "0", "0"},
		{"SN_a", "23:40:00", "23:41:00", "Y1", "2", "0", "0"},
		{"SN_a", "24:25:00", "24:25:00", "Z1", "3", "0", "0"},
	}
	for _, st := range stopTimes {
		b.Row("stop_times.txt", st...)
	}

	b.Row("calendar.txt", "WK", "1", "1", "1", "1", "1", "0", "0", "20240101", "20241231")
	b.Row("calendar.txt", "WE", "0", "0", "0", "0", "0", "1", "1", "20240101", "20241231")
	b.Row("calendar.txt", "DAILY", "1", "1", "1", "1", "1", "1", "1", "20240101", "20241231")
	return b
}
