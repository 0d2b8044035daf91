package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

var (
	// ErrMissingTable is wrapped when a required .txt file is absent from the archive
	ErrMissingTable = errors.New("required table missing")
	// ErrMissingColumn is wrapped when a required column is absent from a table header
	ErrMissingColumn = errors.New("required column missing")
)

// FeedLoadError reports a missing or malformed archive, table or row.
// It is fatal for the feed being loaded.
type FeedLoadError struct {
	Source string // archive path or "<memory>"
	File   string // table file name, empty for archive-level failures
	Line   int    // 1-based CSV line, 0 when not row related
	Err    error
}

func (e *FeedLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load feed ")
	b.WriteString(e.Source)
	if e.File != "" {
		b.WriteString(": ")
		b.WriteString(e.File)
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(e.Line))
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *FeedLoadError) Unwrap() error { return e.Err }

const memorySource = "<memory>"

// table describes how one GTFS file is consumed
type table struct {
	name     string
	required bool
	columns  []string
	consume  func(b *feedBuilder, get fieldFunc) error
}

type fieldFunc func(col string) string

// Tables are consumed in this order so lookups can be validated during build.
var tables = []table{
	{name: "agency.txt", consume: consumeAgency},
	{name: "stops.txt", required: true, columns: []string{"stop_id", "stop_name"}, consume: consumeStop},
	{name: "routes.txt", required: true, columns: []string{"route_id", "route_short_name"}, consume: consumeRoute},
	{name: "trips.txt", required: true, columns: []string{"route_id", "service_id", "trip_id"}, consume: consumeTrip},
	{name: "calendar.txt", required: true, columns: append([]string{"service_id"}, weekdayColumns[:]...), consume: consumeCalendar},
	{name: "stop_times.txt", required: true, columns: []string{"trip_id", "stop_id", "stop_sequence", "arrival_time", "departure_time"}, consume: consumeStopTime},
}

var weekdayColumns = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// LoadFromFile opens a local GTFS zip and parses the schedule tables
func LoadFromFile(filePath string) (*Feed, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, &FeedLoadError{Source: filePath, Err: err}
	}
	defer zr.Close()
	return load(filePath, &zr.Reader)
}

// LoadFromBytes parses a GTFS zip held in memory
func LoadFromBytes(data []byte) (*Feed, error) {
	return LoadFromReader(bytes.NewReader(data), int64(len(data)))
}

// LoadFromReader parses a GTFS zip from any io.ReaderAt
func LoadFromReader(r io.ReaderAt, size int64) (*Feed, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &FeedLoadError{Source: memorySource, Err: err}
	}
	return load(memorySource, zr)
}

func load(source string, zr *zip.Reader) (*Feed, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(path.Base(f.Name))
		if _, dup := files[name]; !dup {
			files[name] = f
		}
	}
	for _, t := range tables {
		if _, ok := files[t.name]; t.required && !ok {
			return nil, &FeedLoadError{Source: source, File: t.name, Err: ErrMissingTable}
		}
	}

	b := newFeedBuilder()
	for _, t := range tables {
		f, ok := files[t.name]
		if !ok {
			continue
		}
		if err := consumeCSV(source, f, t, b); err != nil {
			return nil, err
		}
	}
	return b.build(), nil
}

func consumeCSV(source string, f *zip.File, t table, b *feedBuilder) error {
	r, err := f.Open()
	if err != nil {
		return &FeedLoadError{Source: source, File: t.name, Err: err}
	}
	defer r.Close()

	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	head, err := csvr.Read()
	if err == io.EOF {
		if len(t.columns) > 0 {
			return &FeedLoadError{Source: source, File: t.name, Err: fmt.Errorf("%w: empty file", ErrMissingColumn)}
		}
		return nil
	}
	if err != nil {
		return &FeedLoadError{Source: source, File: t.name, Line: 1, Err: err}
	}
	idx := makeIndex(head)
	for _, col := range t.columns {
		if _, ok := idx[col]; !ok {
			return &FeedLoadError{Source: source, File: t.name, Line: 1, Err: fmt.Errorf("%w: %s", ErrMissingColumn, col)}
		}
	}

	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &FeedLoadError{Source: source, File: t.name, Err: err}
		}
		get := func(col string) string { return getField(rec, idx, col) }
		if err := t.consume(b, get); err != nil {
			line, _ := csvr.FieldPos(0)
			return &FeedLoadError{Source: source, File: t.name, Line: line, Err: err}
		}
	}
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func consumeAgency(b *feedBuilder, get fieldFunc) error {
	b.agencies = append(b.agencies, Agency{
		AgencyID:       get("agency_id"),
		AgencyName:     get("agency_name"),
		AgencyTimezone: get("agency_timezone"),
	})
	return nil
}

func consumeStop(b *feedBuilder, get fieldFunc) error {
	id := get("stop_id")
	if id == "" {
		return errors.New("empty stop_id")
	}
	lat, err := optionalFloat(get("stop_lat"), "stop_lat")
	if err != nil {
		return err
	}
	lon, err := optionalFloat(get("stop_lon"), "stop_lon")
	if err != nil {
		return err
	}
	locType, err := optionalInt(get("location_type"), "location_type")
	if err != nil {
		return err
	}
	b.addStop(Stop{
		StopID:        id,
		StopName:      get("stop_name"),
		StopLat:       lat,
		StopLon:       lon,
		LocationType:  locType,
		ParentStation: get("parent_station"),
	})
	return nil
}

func consumeRoute(b *feedBuilder, get fieldFunc) error {
	id := get("route_id")
	if id == "" {
		return errors.New("empty route_id")
	}
	routeType, err := optionalInt(get("route_type"), "route_type")
	if err != nil {
		return err
	}
	b.addRoute(Route{
		RouteID:        id,
		AgencyID:       get("agency_id"),
		RouteShortName: get("route_short_name"),
		RouteLongName:  get("route_long_name"),
		RouteType:      routeType,
		RouteColor:     get("route_color"),
	})
	return nil
}

func consumeTrip(b *feedBuilder, get fieldFunc) error {
	id := get("trip_id")
	if id == "" {
		return errors.New("empty trip_id")
	}
	b.addTrip(Trip{
		TripID:       id,
		RouteID:      get("route_id"),
		ServiceID:    get("service_id"),
		TripHeadsign: get("trip_headsign"),
		DirectionID:  get("direction_id"),
	})
	return nil
}

func consumeCalendar(b *feedBuilder, get fieldFunc) error {
	id := get("service_id")
	if id == "" {
		return errors.New("empty service_id")
	}
	var days [7]bool
	for i, col := range weekdayColumns {
		switch get(col) {
		case "1":
			days[i] = true
		case "0", "":
		default:
			return fmt.Errorf("invalid %s value %q", col, get(col))
		}
	}
	b.addService(CalendarEntry{
		ServiceID: id,
		Monday:    days[0],
		Tuesday:   days[1],
		Wednesday: days[2],
		Thursday:  days[3],
		Friday:    days[4],
		Saturday:  days[5],
		Sunday:    days[6],
		StartDate: get("start_date"),
		EndDate:   get("end_date"),
	})
	return nil
}

func consumeStopTime(b *feedBuilder, get fieldFunc) error {
	seq, err := strconv.Atoi(get("stop_sequence"))
	if err != nil {
		return fmt.Errorf("invalid stop_sequence %q", get("stop_sequence"))
	}
	st := StopTime{
		TripID:        get("trip_id"),
		StopID:        get("stop_id"),
		StopSequence:  seq,
		ArrivalTime:   get("arrival_time"),
		DepartureTime: get("departure_time"),
	}
	if st.ArrivalTime != "" {
		if st.Arrival, err = ParseTime(st.ArrivalTime); err != nil {
			return err
		}
		st.HasArrival = true
	}
	if st.DepartureTime != "" {
		if st.Departure, err = ParseTime(st.DepartureTime); err != nil {
			return err
		}
		st.HasDeparture = true
	}
	if st.PickupType, err = optionalInt(get("pickup_type"), "pickup_type"); err != nil {
		return err
	}
	if st.DropOffType, err = optionalInt(get("drop_off_type"), "drop_off_type"); err != nil {
		return err
	}
	b.addStopTime(st)
	return nil
}

// optionalInt parses a GTFS enum column where an empty cell means 0
func optionalInt(v, col string) (int, error) {
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, v)
	}
	return i, nil
}

func optionalFloat(v, col string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, v)
	}
	return f, nil
}
