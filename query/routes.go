package query

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// ExcludedShortName marks routes that are never offered
const ExcludedShortName = "EXT"

// RoutesForStation returns the routes with at least one trip stopping at a
// platform of stationID, in routes.txt order
func (e *Engine) RoutesForStation(stationID string) []gtfs.Route {
	out := make([]gtfs.Route, 0)
	if stationID == "" {
		return out
	}

	trips := make(map[string]struct{})
	for _, platform := range e.feed.Platforms(stationID) {
		for _, st := range e.feed.StopTimesAtStop(platform.StopID) {
			trips[st.TripID] = struct{}{}
		}
	}
	routeIDs := make(map[string]struct{})
	for tripID := range trips {
		if t, ok := e.feed.Trip(tripID); ok {
			routeIDs[t.RouteID] = struct{}{}
		}
	}
	if len(routeIDs) == 0 {
		return out
	}

	for _, r := range e.feed.Routes() {
		if _, ok := routeIDs[r.RouteID]; !ok {
			continue
		}
		if r.RouteShortName == ExcludedShortName {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MergeRoutes unions route lists, keeping the first occurrence of each route_id,
// and orders the result by short name then id
func MergeRoutes(sets ...[]gtfs.Route) []gtfs.Route {
	var all []gtfs.Route
	for _, s := range sets {
		all = append(all, s...)
	}
	out := DistinctBy(all, func(r gtfs.Route) string { return r.RouteID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RouteShortName != out[j].RouteShortName {
			return out[i].RouteShortName < out[j].RouteShortName
		}
		return out[i].RouteID < out[j].RouteID
	})
	return out
}

// ExcludeRoutes returns the ids of routes not listed in excluded, keeping order
func ExcludeRoutes(routes []gtfs.Route, excluded []string) []string {
	skip := stringSet(excluded)
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		if _, ok := skip[r.RouteID]; ok {
			continue
		}
		out = append(out, r.RouteID)
	}
	return out
}

// RouteIDs extracts route ids in order
func RouteIDs(routes []gtfs.Route) []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.RouteID
	}
	return out
}
