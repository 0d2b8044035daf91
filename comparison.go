package sharedstops

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

// MessageSameStation is reported when both sides name the same station
const MessageSameStation = "Same stations selected"

// Comparison holds every table derived for a pair of stations
type Comparison struct {
	RoutesA   []gtfs.Route          `json:"routes_a"`
	RoutesB   []gtfs.Route          `json:"routes_b"`
	AllRoutes []gtfs.Route          `json:"all_routes"` // union offered for exclusion, by short name
	StopsA    []query.ProjectedStop `json:"stops_a"`
	StopsB    []query.ProjectedStop `json:"stops_b"`
	Shared    []query.SharedStation `json:"shared"`
	Messages  []string              `json:"messages"`
}

func emptyComparison(messages ...string) *Comparison {
	return &Comparison{
		RoutesA:   []gtfs.Route{},
		RoutesB:   []gtfs.Route{},
		AllRoutes: []gtfs.Route{},
		StopsA:    []query.ProjectedStop{},
		StopsB:    []query.ProjectedStop{},
		Shared:    []query.SharedStation{},
		Messages:  append([]string{}, messages...),
	}
}

// SharedParents lists the parent stations of the shared rows
func (c *Comparison) SharedParents() []string {
	return query.SharedParents(c.Shared)
}

// Compare finds the routes of both stations, projects them under the filter
// and resolves the stations reached from both sides.
//
// Invalid parameters yield an empty comparison carrying the error text in
// Messages, together with the error itself.
func (s *Session) Compare(ctx context.Context, p Params) (*Comparison, error) {
	if err := p.Validate(); err != nil {
		return emptyComparison(err.Error()), err
	}
	eng, err := s.engineFor(ctx)
	if err != nil {
		return emptyComparison(err.Error()), err
	}

	c := emptyComparison()
	if p.StationA != "" && p.StationA == p.StationB {
		c.Messages = append(c.Messages, MessageSameStation)
	}

	routesA := s.routes(eng, p.StationA)
	routesB := s.routes(eng, p.StationB)
	c.RoutesA = slices.Clone(routesA)
	c.RoutesB = slices.Clone(routesB)
	c.AllRoutes = query.MergeRoutes(routesA, routesB)

	days := p.weekdaySet()
	stopsA := s.project(eng, query.ExcludeRoutes(routesA, p.ExcludedRouteIDs), days, p.Window)
	stopsB := s.project(eng, query.ExcludeRoutes(routesB, p.ExcludedRouteIDs), days, p.Window)
	c.StopsA = slices.Clone(stopsA)
	c.StopsB = slices.Clone(stopsB)
	c.Shared = query.Shared(stopsA, stopsB)

	s.log.Debug("compared stations",
		zap.String("a", p.StationA),
		zap.String("b", p.StationB),
		zap.Int("routes", len(c.AllRoutes)),
		zap.Int("stops_a", len(c.StopsA)),
		zap.Int("stops_b", len(c.StopsB)),
		zap.Int("shared", len(c.Shared)),
	)
	return c, nil
}

// ErrRouteNotOffered is returned by RouteDetail for a route outside the
// comparison's route union, or one the parameters exclude
var ErrRouteNotOffered = errors.New("route not offered for these stations")

func emptyDetail() *query.RouteDetail {
	return &query.RouteDetail{Stops: []query.AnnotatedStop{}, Segments: []query.TravelSegment{}}
}

// RouteDetail projects a single route under the comparison's filter and
// annotates its stops with the stations shared between A and B.
// Only routes of the comparison's union that are not excluded can be detailed.
func (s *Session) RouteDetail(ctx context.Context, p Params, routeID string) (*query.RouteDetail, error) {
	c, err := s.Compare(ctx, p)
	if err != nil {
		return emptyDetail(), err
	}
	if !slices.Contains(query.ExcludeRoutes(c.AllRoutes, p.ExcludedRouteIDs), routeID) {
		return emptyDetail(), fmt.Errorf("%s: %w", routeID, ErrRouteNotOffered)
	}
	eng, err := s.engineFor(ctx)
	if err != nil {
		return nil, err
	}
	stops := s.project(eng, []string{routeID}, p.weekdaySet(), p.Window)
	detail := query.Detail(stops, c.SharedParents())
	if n := detail.SegmentsWithoutTime(); n > 0 {
		eng.Warnings().Add(query.WarningNoTimes, routeID)
	}
	return &detail, nil
}
