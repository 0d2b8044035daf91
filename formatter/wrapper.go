package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

// Table is a rendered result: one header row and string cells
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// MinutesLabel renders a segment duration as "N min", or "-" without times
func MinutesLabel(seg query.TravelSegment) string {
	if !seg.HasTime {
		return "-"
	}
	return strconv.Itoa(seg.Minutes) + " min"
}

// clock renders a parsed stop time zero-padded, keeping the raw text otherwise
func clock(raw string, d time.Duration, ok bool) string {
	if ok {
		return gtfs.FormatTime(d)
	}
	return raw
}

func coord(v float64) string { return strconv.FormatFloat(v, 'f', 5, 64) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// StationsTable lists stations
func StationsTable(stations []query.Station) Table {
	t := Table{Title: "Stations", Headers: []string{"stop_id", "stop_name", "stop_lat", "stop_lon"}}
	for _, s := range stations {
		t.Rows = append(t.Rows, []string{s.StopID, s.StopName, coord(s.StopLat), coord(s.StopLon)})
	}
	return t
}

// RoutesTable lists routes
func RoutesTable(title string, routes []gtfs.Route) Table {
	t := Table{Title: title, Headers: []string{"route_id", "route_short_name", "route_long_name", "route_type"}}
	for _, r := range routes {
		t.Rows = append(t.Rows, []string{r.RouteID, r.RouteShortName, r.RouteLongName, strconv.Itoa(r.RouteType)})
	}
	return t
}

// ProjectionTable lists projected stops
func ProjectionTable(title string, stops []query.ProjectedStop) Table {
	t := Table{Title: title, Headers: []string{
		"route_short_name", "trip_id", "stop_sequence", "stop_id", "stop_name", "parent_station", "arrival_time", "departure_time",
	}}
	for _, s := range stops {
		t.Rows = append(t.Rows, []string{
			s.RouteShortName, s.TripID, strconv.Itoa(s.StopSequence), s.StopID, s.StopName, s.ParentStation,
			clock(s.ArrivalTime, s.Arrival, s.HasArrival), clock(s.DepartureTime, s.Departure, s.HasDeparture),
		})
	}
	return t
}

// SharedTable lists stations reached from both sides
func SharedTable(shared []query.SharedStation) Table {
	t := Table{Title: "Shared stations", Headers: []string{"parent_station", "stop_id", "stop_name", "stop_lat", "stop_lon", "ungrouped"}}
	for _, s := range shared {
		t.Rows = append(t.Rows, []string{s.ParentStation, s.StopID, s.StopName, coord(s.StopLat), coord(s.StopLon), yesNo(s.Ungrouped)})
	}
	return t
}

// DetailTables renders a route detail as its stop list and its segments.
// label names the route in the table titles.
func DetailTables(label string, d query.RouteDetail) []Table {
	stops := Table{
		Title:   fmt.Sprintf("Route %s stops", label),
		Headers: []string{"stop_sequence", "stop_id", "stop_name", "arrival_time", "departure_time", "shared"},
	}
	for _, s := range d.Stops {
		stops.Rows = append(stops.Rows, []string{
			strconv.Itoa(s.StopSequence), s.StopID, s.StopName,
			clock(s.ArrivalTime, s.Arrival, s.HasArrival), clock(s.DepartureTime, s.Departure, s.HasDeparture), yesNo(s.Shared),
		})
	}
	segs := Table{
		Title:   fmt.Sprintf("Route %s segments", label),
		Headers: []string{"from", "to", "travel", "distance_km"},
	}
	for _, s := range d.Segments {
		segs.Rows = append(segs.Rows, []string{
			s.FromStopName, s.ToStopName, MinutesLabel(s), strconv.FormatFloat(s.DistanceKM, 'f', 1, 64),
		})
	}
	return []Table{stops, segs}
}

// MessagesTable lists free-text messages, nil when there are none
func MessagesTable(messages []string) *Table {
	if len(messages) == 0 {
		return nil
	}
	t := Table{Title: "Messages", Headers: []string{"message"}}
	for _, m := range messages {
		t.Rows = append(t.Rows, []string{strings.TrimSpace(m)})
	}
	return &t
}
