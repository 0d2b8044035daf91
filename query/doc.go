// Package query implements the shared-stops pipeline over a loaded GTFS feed.
//
// An Engine lists stations, finds the routes serving a station and projects
// each route onto the stop list of its representative trip for a weekday set
// and hour window. Shared and Detail are pure functions over projections.
//
// Example:
//
//	eng := query.NewEngine(feed, query.WithLogger(logger))
//	routes := query.MergeRoutes(eng.RoutesForStation(a), eng.RoutesForStation(b))
//	stopsA, err := eng.Project(query.RouteIDs(eng.RoutesForStation(a)), []string{"monday"}, query.DefaultWindow)
//	...
//	shared := query.Shared(stopsA, stopsB)
package query
