package gtfs

import (
	"fmt"
	"sort"
)

// Feed is an immutable in-memory snapshot of a GTFS schedule.
// Tables keep file order; lookups go through hash indexes built once at load.
// Safe for concurrent read access once returned by a loader.
type Feed struct {
	stops     []Stop
	routes    []Route
	trips     []Trip
	stopTimes []StopTime
	calendar  []CalendarEntry
	agencies  []Agency

	stopIdx       map[string]int   // stop_id -> position in stops
	routeIdx      map[string]int   // route_id -> position in routes
	tripIdx       map[string]int   // trip_id -> position in trips
	serviceIdx    map[string]int   // service_id -> position in calendar
	tripStopTimes map[string][]int // trip_id -> stop_times positions ordered by stop_sequence
	stopStopTimes map[string][]int // stop_id -> stop_times positions in file order
	platforms     map[string][]int // parent_station -> child stop positions

	warnings []string
}

type feedBuilder struct {
	Feed
}

func newFeedBuilder() *feedBuilder {
	return &feedBuilder{Feed: Feed{
		stopIdx:       map[string]int{},
		routeIdx:      map[string]int{},
		tripIdx:       map[string]int{},
		serviceIdx:    map[string]int{},
		tripStopTimes: map[string][]int{},
		stopStopTimes: map[string][]int{},
		platforms:     map[string][]int{},
	}}
}

func (b *feedBuilder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *feedBuilder) addStop(s Stop) {
	if _, dup := b.stopIdx[s.StopID]; dup {
		b.warnf("duplicate stop_id %s ignored", s.StopID)
		return
	}
	b.stopIdx[s.StopID] = len(b.stops)
	b.stops = append(b.stops, s)
}

func (b *feedBuilder) addRoute(r Route) {
	if _, dup := b.routeIdx[r.RouteID]; dup {
		b.warnf("duplicate route_id %s ignored", r.RouteID)
		return
	}
	b.routeIdx[r.RouteID] = len(b.routes)
	b.routes = append(b.routes, r)
}

func (b *feedBuilder) addTrip(t Trip) {
	if _, dup := b.tripIdx[t.TripID]; dup {
		b.warnf("duplicate trip_id %s ignored", t.TripID)
		return
	}
	b.tripIdx[t.TripID] = len(b.trips)
	b.trips = append(b.trips, t)
}

func (b *feedBuilder) addService(c CalendarEntry) {
	if _, dup := b.serviceIdx[c.ServiceID]; dup {
		b.warnf("duplicate service_id %s ignored", c.ServiceID)
		return
	}
	b.serviceIdx[c.ServiceID] = len(b.calendar)
	b.calendar = append(b.calendar, c)
}

func (b *feedBuilder) addStopTime(st StopTime) {
	st.Row = len(b.stopTimes)
	b.tripStopTimes[st.TripID] = append(b.tripStopTimes[st.TripID], st.Row)
	b.stopStopTimes[st.StopID] = append(b.stopStopTimes[st.StopID], st.Row)
	b.stopTimes = append(b.stopTimes, st)
}

// build finalises indexes and checks the one-level station grouping
func (b *feedBuilder) build() *Feed {
	for _, positions := range b.tripStopTimes {
		sort.SliceStable(positions, func(i, j int) bool {
			return b.stopTimes[positions[i]].StopSequence < b.stopTimes[positions[j]].StopSequence
		})
	}
	for i, s := range b.stops {
		if !s.HasParent() {
			continue
		}
		b.platforms[s.ParentStation] = append(b.platforms[s.ParentStation], i)
		parentPos, ok := b.stopIdx[s.ParentStation]
		if !ok {
			b.warnf("stop %s references unknown parent_station %s", s.StopID, s.ParentStation)
			continue
		}
		if b.stops[parentPos].HasParent() {
			b.warnf("stop %s references parent_station %s which is itself grouped under %s",
				s.StopID, s.ParentStation, b.stops[parentPos].ParentStation)
		}
	}
	f := b.Feed
	return &f
}

// Stops returns a copy of stops.txt in file order
func (f *Feed) Stops() []Stop { return append([]Stop(nil), f.stops...) }

// Routes returns a copy of routes.txt in file order
func (f *Feed) Routes() []Route { return append([]Route(nil), f.routes...) }

// Trips returns a copy of trips.txt in file order
func (f *Feed) Trips() []Trip { return append([]Trip(nil), f.trips...) }

// Calendar returns a copy of calendar.txt in file order
func (f *Feed) Calendar() []CalendarEntry { return append([]CalendarEntry(nil), f.calendar...) }

// Agencies returns a copy of agency.txt, empty when the table is absent
func (f *Feed) Agencies() []Agency { return append([]Agency(nil), f.agencies...) }

// Warnings returns non-fatal problems found while loading
func (f *Feed) Warnings() []string { return append([]string(nil), f.warnings...) }

// Stop looks up a stop by id
func (f *Feed) Stop(stopID string) (Stop, bool) {
	i, ok := f.stopIdx[stopID]
	if !ok {
		return Stop{}, false
	}
	return f.stops[i], true
}

// Route looks up a route by id
func (f *Feed) Route(routeID string) (Route, bool) {
	i, ok := f.routeIdx[routeID]
	if !ok {
		return Route{}, false
	}
	return f.routes[i], true
}

// Trip looks up a trip by id
func (f *Feed) Trip(tripID string) (Trip, bool) {
	i, ok := f.tripIdx[tripID]
	if !ok {
		return Trip{}, false
	}
	return f.trips[i], true
}

// Service looks up a calendar entry by service id
func (f *Feed) Service(serviceID string) (CalendarEntry, bool) {
	i, ok := f.serviceIdx[serviceID]
	if !ok {
		return CalendarEntry{}, false
	}
	return f.calendar[i], true
}

// GetStopName returns the stop_name of stopID, empty when unknown
func (f *Feed) GetStopName(stopID string) string {
	s, _ := f.Stop(stopID)
	return s.StopName
}

// GetRouteShortName returns the route_short_name of routeID, empty when unknown
func (f *Feed) GetRouteShortName(routeID string) string {
	r, _ := f.Route(routeID)
	return r.RouteShortName
}

// StopTimesForTrip returns the trip's stop times ordered by stop_sequence
func (f *Feed) StopTimesForTrip(tripID string) []StopTime {
	positions := f.tripStopTimes[tripID]
	out := make([]StopTime, len(positions))
	for i, p := range positions {
		out[i] = f.stopTimes[p]
	}
	return out
}

// StopTimesAtStop returns the stop times served at stopID in file order
func (f *Feed) StopTimesAtStop(stopID string) []StopTime {
	positions := f.stopStopTimes[stopID]
	out := make([]StopTime, len(positions))
	for i, p := range positions {
		out[i] = f.stopTimes[p]
	}
	return out
}

// Platforms returns the stops whose parent_station is stationID, in file order
func (f *Feed) Platforms(stationID string) []Stop {
	positions := f.platforms[stationID]
	out := make([]Stop, len(positions))
	for i, p := range positions {
		out[i] = f.stops[p]
	}
	return out
}

// Summary returns row counts for logging
func (f *Feed) Summary() Summary {
	return Summary{
		Stops:     len(f.stops),
		Routes:    len(f.routes),
		Trips:     len(f.trips),
		StopTimes: len(f.stopTimes),
		Services:  len(f.calendar),
		Warnings:  len(f.warnings),
	}
}
