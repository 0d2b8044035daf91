package sharedstops

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/bluele/gcache"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

const defaultCacheSize = 256

// Options configures a Session
type Options struct {
	CacheSize int         // memo entries kept, defaultCacheSize when <= 0
	Logger    *zap.Logger // nil means no logging
}

// Session answers queries for one user against one feed source.
// Derived tables are memoised per session and dropped when the feed is reloaded.
// A Session is not safe for concurrent use; create one per caller.
type Session struct {
	store  *FeedStore
	source string
	log    *zap.Logger
	cache  gcache.Cache

	generation uint64
	engine     *query.Engine
}

// NewSession binds a session to a feed source held by store
func NewSession(store *FeedStore, source string, opts Options) *Session {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		store:  store,
		source: source,
		log:    log.With(zap.String("source", source)),
		cache:  gcache.New(size).LRU().Build(),
	}
}

// Source returns the feed source the session reads
func (s *Session) Source() string { return s.source }

// engineFor returns an engine over the current feed snapshot, purging the memo
// cache when the store holds a newer generation than the one last seen
func (s *Session) engineFor(ctx context.Context) (*query.Engine, error) {
	sf, err := s.store.snapshot(ctx, s.source)
	if err != nil {
		return nil, err
	}
	if s.engine == nil || sf.generation != s.generation {
		if s.engine != nil {
			s.log.Debug("feed generation changed, purging memo cache",
				zap.Uint64("from", s.generation), zap.Uint64("to", sf.generation))
		}
		s.cache.Purge()
		s.engine = query.NewEngine(sf.feed, query.WithLogger(s.log))
		s.generation = sf.generation
	}
	return s.engine, nil
}

// memoKey joins quoted arguments so ids holding '|' or ',' cannot collide
func (s *Session) memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Quote(a))
	}
	return b.String()
}

// memo returns the cached value for key or builds and stores it
func memo[T any](s *Session, key string, build func() T) T {
	if v, err := s.cache.Get(key); err == nil {
		if t, ok := v.(T); ok {
			return t
		}
	}
	v := build()
	_ = s.cache.Set(key, v)
	return v
}

// Stations lists every station of the feed sorted by name
func (s *Session) Stations(ctx context.Context) ([]query.Station, error) {
	eng, err := s.engineFor(ctx)
	if err != nil {
		return nil, err
	}
	stations := memo(s, s.memoKey("stations"), eng.ListStations)
	return slices.Clone(stations), nil
}

// Routes lists the routes serving a station
func (s *Session) Routes(ctx context.Context, stationID string) ([]gtfs.Route, error) {
	eng, err := s.engineFor(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.routes(eng, stationID)), nil
}

func (s *Session) routes(eng *query.Engine, stationID string) []gtfs.Route {
	return memo(s, s.memoKey("routes", stationID), func() []gtfs.Route {
		return eng.RoutesForStation(stationID)
	})
}

func (s *Session) project(eng *query.Engine, routeIDs []string, days query.WeekdaySet, window query.HourWindow) []query.ProjectedStop {
	ids := slices.Clone(routeIDs)
	slices.Sort(ids)
	key := s.memoKey("project", fmt.Sprintf("%q", ids), days.String(), window.String())
	return memo(s, key, func() []query.ProjectedStop {
		return eng.ProjectDays(routeIDs, days, window)
	})
}

// StationName returns the stop_name of stationID, or the id itself when unknown
func (s *Session) StationName(ctx context.Context, stationID string) (string, error) {
	eng, err := s.engineFor(ctx)
	if err != nil {
		return "", err
	}
	if name := eng.Feed().GetStopName(stationID); name != "" {
		return name, nil
	}
	return stationID, nil
}

// RouteLabel renders a route as "short name (route_id)", or the bare id when
// the route has no short name
func (s *Session) RouteLabel(ctx context.Context, routeID string) (string, error) {
	eng, err := s.engineFor(ctx)
	if err != nil {
		return "", err
	}
	if short := eng.Feed().GetRouteShortName(routeID); short != "" {
		return short + " (" + routeID + ")", nil
	}
	return routeID, nil
}

// Warnings returns the data integrity warnings gathered by this session's queries
func (s *Session) Warnings() *query.WarningAggregator {
	if s.engine == nil {
		return query.NewWarningAggregator()
	}
	return s.engine.Warnings()
}

// FlushWarnings logs the aggregated warnings and clears them
func (s *Session) FlushWarnings() {
	if s.engine == nil {
		return
	}
	s.engine.Warnings().LogAll(s.log, s.source)
	s.engine.Warnings().Reset()
}
