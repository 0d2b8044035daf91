package query

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// ProjectedStop is one stop of a route's representative trip joined with its
// trip, route and stop attributes
type ProjectedStop struct {
	RouteID        string `json:"route_id"`
	RouteShortName string `json:"route_short_name"`
	RouteType      int    `json:"route_type"`
	RouteColor     string `json:"route_color"`

	TripID       string `json:"trip_id"`
	ServiceID    string `json:"service_id"`
	TripHeadsign string `json:"trip_headsign"`
	DirectionID  string `json:"direction_id"`

	StopID        string  `json:"stop_id"`
	StopName      string  `json:"stop_name"`
	StopLat       float64 `json:"stop_lat"`
	StopLon       float64 `json:"stop_lon"`
	ParentStation string  `json:"parent_station"`

	StopSequence  int           `json:"stop_sequence"`
	ArrivalTime   string        `json:"arrival_time"`
	DepartureTime string        `json:"departure_time"`
	Arrival       time.Duration `json:"-"`
	Departure     time.Duration `json:"-"`
	HasArrival    bool          `json:"-"`
	HasDeparture  bool          `json:"-"`
	PickupType    int           `json:"pickup_type"`
	DropOffType   int           `json:"drop_off_type"`
}

// Project returns, for each requested route, the full stop list of its
// representative trip on the given weekdays within the hour window.
//
// Weekday names are matched case-insensitively; an unknown name or an invalid
// window fails with *InvalidFilterError and no rows.
func (e *Engine) Project(routeIDs []string, weekdays []string, window HourWindow) ([]ProjectedStop, error) {
	days, err := ParseWeekdays(weekdays)
	if err != nil {
		return []ProjectedStop{}, err
	}
	if err := window.Validate(); err != nil {
		return []ProjectedStop{}, err
	}
	return e.ProjectDays(routeIDs, days, window), nil
}

// winner tracks the representative candidate of one route
type winner struct {
	tripID string
	seq    int
	row    int
}

// ProjectDays is Project with an already parsed weekday set and a valid window
func (e *Engine) ProjectDays(routeIDs []string, days WeekdaySet, window HourWindow) []ProjectedStop {
	out := make([]ProjectedStop, 0)
	if len(routeIDs) == 0 || days.Empty() {
		return out
	}

	wanted := stringSet(routeIDs)
	active := ActiveServices(e.feed.Calendar(), days)
	if len(active) == 0 {
		return out
	}

	best := make(map[string]winner)
	for _, t := range e.feed.Trips() {
		if _, ok := wanted[t.RouteID]; !ok {
			continue
		}
		if _, ok := active[t.ServiceID]; !ok {
			continue
		}
		for _, st := range e.feed.StopTimesForTrip(t.TripID) {
			if !st.AllowsPassengers() || !inWindow(st, window) {
				continue
			}
			cur, seen := best[t.RouteID]
			if !seen || st.StopSequence > cur.seq || (st.StopSequence == cur.seq && st.Row < cur.row) {
				best[t.RouteID] = winner{tripID: t.TripID, seq: st.StopSequence, row: st.Row}
			}
		}
	}

	for _, w := range best {
		for _, st := range e.feed.StopTimesForTrip(w.tripID) {
			ps, ok := e.enrich(st)
			if ok {
				out = append(out, ps)
			}
		}
	}
	sortProjection(out)

	e.log.Debug("projected routes",
		zap.Strings("routes", routeIDs),
		zap.String("weekdays", days.String()),
		zap.String("window", window.String()),
		zap.Int("representatives", len(best)),
		zap.Int("stops", len(out)),
	)
	return out
}

// inWindow reports whether the arrival or the departure lies strictly inside the window
func inWindow(st gtfs.StopTime, w HourWindow) bool {
	return (st.HasArrival && w.Contains(st.Arrival)) || (st.HasDeparture && w.Contains(st.Departure))
}

// enrich joins a stop time with its trip, route and stop. Rows with an
// unresolved reference are reported and dropped.
func (e *Engine) enrich(st gtfs.StopTime) (ProjectedStop, bool) {
	key := st.TripID + "#" + strconv.Itoa(st.StopSequence)
	trip, ok := e.feed.Trip(st.TripID)
	if !ok {
		e.reportIntegrity(&DataIntegrityError{Table: "stop_times", Key: key, Missing: "trip_id=" + st.TripID})
		return ProjectedStop{}, false
	}
	route, ok := e.feed.Route(trip.RouteID)
	if !ok {
		e.reportIntegrity(&DataIntegrityError{Table: "stop_times", Key: key, Missing: "route_id=" + trip.RouteID})
		return ProjectedStop{}, false
	}
	stop, ok := e.feed.Stop(st.StopID)
	if !ok {
		e.reportIntegrity(&DataIntegrityError{Table: "stop_times", Key: key, Missing: "stop_id=" + st.StopID})
		return ProjectedStop{}, false
	}
	return ProjectedStop{
		RouteID:        route.RouteID,
		RouteShortName: route.RouteShortName,
		RouteType:      route.RouteType,
		RouteColor:     route.RouteColor,
		TripID:         trip.TripID,
		ServiceID:      trip.ServiceID,
		TripHeadsign:   trip.TripHeadsign,
		DirectionID:    trip.DirectionID,
		StopID:         stop.StopID,
		StopName:       stop.StopName,
		StopLat:        stop.StopLat,
		StopLon:        stop.StopLon,
		ParentStation:  stop.ParentStation,
		StopSequence:   st.StopSequence,
		ArrivalTime:    st.ArrivalTime,
		DepartureTime:  st.DepartureTime,
		Arrival:        st.Arrival,
		Departure:      st.Departure,
		HasArrival:     st.HasArrival,
		HasDeparture:   st.HasDeparture,
		PickupType:     st.PickupType,
		DropOffType:    st.DropOffType,
	}, true
}

func sortProjection(rows []ProjectedStop) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.RouteShortName != b.RouteShortName {
			return a.RouteShortName < b.RouteShortName
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		return a.StopSequence < b.StopSequence
	})
}

// ByRoute splits a projection into per-route slices keyed by route_id
func ByRoute(rows []ProjectedStop) map[string][]ProjectedStop {
	out := make(map[string][]ProjectedStop)
	for _, r := range rows {
		out[r.RouteID] = append(out[r.RouteID], r)
	}
	return out
}
