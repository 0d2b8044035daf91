package sharedstops

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/config"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/internal/testfeed"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

const fixtureSource = "fixture"

// countingLoader serves in-memory archives, one per successive load
type countingLoader struct {
	calls    atomic.Int32
	archives [][]byte
}

func (l *countingLoader) load(_ context.Context, source string) (*gtfs.Feed, error) {
	if source != fixtureSource {
		return nil, &gtfs.FeedLoadError{Source: source, Err: errors.New("unknown source")}
	}
	n := int(l.calls.Add(1)) - 1
	if n >= len(l.archives) {
		n = len(l.archives) - 1
	}
	return gtfs.LoadFromBytes(l.archives[n])
}

func newTestSession(t *testing.T, builders ...*testfeed.Builder) (*Session, *FeedStore, *countingLoader) {
	t.Helper()
	if len(builders) == 0 {
		builders = []*testfeed.Builder{testfeed.Standard()}
	}
	loader := &countingLoader{}
	for _, b := range builders {
		loader.archives = append(loader.archives, b.MustZip(t))
	}
	store := NewFeedStore(loader.load, nil)
	return NewSession(store, fixtureSource, Options{CacheSize: 16}), store, loader
}

func parents(shared []query.SharedStation) []string {
	return query.SharedParents(shared)
}

func TestSession_Compare(t *testing.T) {
	sess, _, _ := newTestSession(t)

	cmp, err := sess.Compare(context.Background(), DefaultParams("ParentX", "ParentZ"))
	require.NoError(t, err)

	assert.Equal(t, []string{"R_S1", "R_IR", "R_SN"}, query.RouteIDs(cmp.RoutesA))
	assert.Equal(t, []string{"R_S1", "R_S2", "R_SN"}, query.RouteIDs(cmp.RoutesB))
	assert.Equal(t, []string{"R_IR", "R_S1", "R_S2", "R_SN"}, query.RouteIDs(cmp.AllRoutes))
	assert.Len(t, cmp.StopsA, 7)
	assert.Len(t, cmp.StopsB, 6)
	assert.Equal(t, []string{"ParentX", "ParentP", "ParentY", "ParentZ"}, parents(cmp.Shared))
	assert.Empty(t, cmp.Messages)
}

func TestSession_CompareWithExclusion(t *testing.T) {
	sess, _, _ := newTestSession(t)

	p := DefaultParams("ParentX", "ParentZ")
	p.ExcludedRouteIDs = []string{"R_IR"}
	cmp, err := sess.Compare(context.Background(), p)
	require.NoError(t, err)

	// excluded routes are still offered, just not projected
	assert.Contains(t, query.RouteIDs(cmp.AllRoutes), "R_IR")
	for _, s := range cmp.StopsA {
		assert.NotEqual(t, "R_IR", s.RouteID)
	}
	assert.Equal(t, []string{"ParentX", "ParentY", "ParentZ"}, parents(cmp.Shared))
}

func TestSession_CompareMessages(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	cmp, err := sess.Compare(ctx, DefaultParams("ParentX", "ParentX"))
	require.NoError(t, err)
	assert.Contains(t, cmp.Messages, MessageSameStation)

	cmp, err = sess.Compare(ctx, DefaultParams("", ""))
	require.NoError(t, err)
	assert.NotContains(t, cmp.Messages, MessageSameStation)
	assert.Empty(t, cmp.AllRoutes)
	assert.Empty(t, cmp.Shared)
}

func TestSession_CompareInvalidParams(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "unknown weekday", mutate: func(p *Params) { p.Weekdays = []string{"monday", "funday"} }},
		{name: "upper out of range", mutate: func(p *Params) { p.Window = query.HourWindow{Lower: 6, Upper: 30} }},
		{name: "reversed window", mutate: func(p *Params) { p.Window = query.HourWindow{Lower: 20, Upper: 6} }},
		{name: "negative lower", mutate: func(p *Params) { p.Window = query.HourWindow{Lower: -1, Upper: 6} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams("ParentX", "ParentZ")
			tt.mutate(&p)

			cmp, err := sess.Compare(ctx, p)
			var fe *query.InvalidFilterError
			require.ErrorAs(t, err, &fe)
			require.NotNil(t, cmp)
			assert.Empty(t, cmp.StopsA)
			assert.Empty(t, cmp.Shared)
			require.Len(t, cmp.Messages, 1)
			assert.Equal(t, err.Error(), cmp.Messages[0])
		})
	}
}

func TestSession_EmptyWeekdaysYieldNoStops(t *testing.T) {
	sess, _, _ := newTestSession(t)

	p := DefaultParams("ParentX", "ParentZ")
	p.Weekdays = nil
	cmp, err := sess.Compare(context.Background(), p)
	require.NoError(t, err)
	assert.NotEmpty(t, cmp.AllRoutes)
	assert.Empty(t, cmp.StopsA)
	assert.Empty(t, cmp.StopsB)
	assert.Empty(t, cmp.Shared)
}

func TestSession_RouteDetail(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()
	p := DefaultParams("ParentX", "ParentZ")

	detail, err := sess.RouteDetail(ctx, p, "R_S1")
	require.NoError(t, err)
	require.Len(t, detail.Stops, 3)
	for _, s := range detail.Stops {
		assert.True(t, s.Shared, s.StopID)
	}
	require.Len(t, detail.Segments, 2)
	assert.Equal(t, 14, detail.Segments[0].Minutes)
	assert.Equal(t, 18, detail.Segments[1].Minutes)

	detail, err = sess.RouteDetail(ctx, p, "R_IR")
	require.NoError(t, err)
	var shared []bool
	for _, s := range detail.Stops {
		shared = append(shared, s.Shared)
	}
	assert.Equal(t, []bool{true, true, false, false}, shared)
	assert.Len(t, detail.Segments, 3)

}

func TestSession_RouteDetailOnlyOfferedRoutes(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	excluded := DefaultParams("ParentX", "ParentZ")
	excluded.ExcludedRouteIDs = []string{"R_IR"}

	tests := []struct {
		name    string
		params  Params
		routeID string
	}{
		{name: "unknown route", params: DefaultParams("ParentX", "ParentZ"), routeID: "R_404"},
		{name: "EXT route", params: DefaultParams("ParentX", "ParentZ"), routeID: "R_EXT"},
		{name: "route serving neither station", params: DefaultParams("ParentX", "ParentZ"), routeID: "R_S9"},
		{name: "excluded route", params: excluded, routeID: "R_IR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := sess.RouteDetail(ctx, tt.params, tt.routeID)
			require.ErrorIs(t, err, ErrRouteNotOffered)
			assert.Contains(t, err.Error(), tt.routeID)
			require.NotNil(t, detail)
			assert.Empty(t, detail.Stops)
			assert.Empty(t, detail.Segments)
		})
	}
}

func TestSession_ProjectionMemoKeyDistinguishesRouteSets(t *testing.T) {
	sess, _, _ := newTestSession(t)
	eng, err := sess.engineFor(context.Background())
	require.NoError(t, err)

	days := query.WorkWeek()
	split := sess.project(eng, []string{"R_IR", "R_S1"}, days, query.DefaultWindow)
	require.NotEmpty(t, split)

	joined := sess.project(eng, []string{"R_IR,R_S1"}, days, query.DefaultWindow)
	assert.Empty(t, joined)
	assert.Empty(t, eng.ProjectDays([]string{"R_IR,R_S1"}, days, query.DefaultWindow))

	assert.NotEqual(t, sess.memoKey("routes", "a|b"), sess.memoKey("routes", "a", "b"))
}

func TestSession_Labels(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	name, err := sess.StationName(ctx, "ParentX")
	require.NoError(t, err)
	assert.Equal(t, "Xdorf", name)

	name, err = sess.StationName(ctx, "ParentNone")
	require.NoError(t, err)
	assert.Equal(t, "ParentNone", name)

	label, err := sess.RouteLabel(ctx, "R_S1")
	require.NoError(t, err)
	assert.Equal(t, "S1 (R_S1)", label)

	label, err = sess.RouteLabel(ctx, "R_404")
	require.NoError(t, err)
	assert.Equal(t, "R_404", label)
}

func TestSession_MemoisesAndReturnsCopies(t *testing.T) {
	sess, _, loader := newTestSession(t)
	ctx := context.Background()

	stations, err := sess.Stations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 6)
	stations[0].StopName = "mutated"

	again, err := sess.Stations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pfeld", again[0].StopName)

	routes, err := sess.Routes(ctx, "ParentX")
	require.NoError(t, err)
	routes[0].RouteID = "mutated"
	routes, err = sess.Routes(ctx, "ParentX")
	require.NoError(t, err)
	assert.Equal(t, "R_S1", routes[0].RouteID)

	for i := 0; i < 3; i++ {
		_, err := sess.Compare(ctx, DefaultParams("ParentX", "ParentZ"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestSession_ReloadPurgesCache(t *testing.T) {
	reduced := testfeed.Standard().
		Table("stop_times.txt", testfeed.StopTimesHeader...).
		Row("stop_times.txt", "S1_full", "06:30:00", "06:31:00", "X1", "1", "0", "0").
		Row("stop_times.txt", "S1_full", "06:45:00", "06:47:00", "Y1", "2", "0", "0")
	sess, store, loader := newTestSession(t, testfeed.Standard(), reduced)
	ctx := context.Background()

	routes, err := sess.Routes(ctx, "ParentX")
	require.NoError(t, err)
	assert.Len(t, routes, 3)
	assert.Equal(t, uint64(1), store.Generation(fixtureSource))

	_, err = store.Reload(ctx, fixtureSource)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), store.Generation(fixtureSource))
	assert.Equal(t, int32(2), loader.calls.Load())

	routes, err = sess.Routes(ctx, "ParentX")
	require.NoError(t, err)
	assert.Equal(t, []string{"R_S1"}, query.RouteIDs(routes))
}

func TestSession_LoadError(t *testing.T) {
	store := NewFeedStore(nil, nil)
	sess := NewSession(store, "/nonexistent/feed.zip", Options{})

	cmp, err := sess.Compare(context.Background(), DefaultParams("ParentX", "ParentZ"))
	var loadErr *gtfs.FeedLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Empty(t, cmp.Shared)

	_, err = sess.Stations(context.Background())
	assert.Error(t, err)
	assert.Zero(t, store.Generation("/nonexistent/feed.zip"))
}

func TestFeedStore_ConcurrentGetLoadsOnce(t *testing.T) {
	loader := &countingLoader{archives: [][]byte{testfeed.Standard().MustZip(t)}}
	store := NewFeedStore(loader.load, nil)

	var wg sync.WaitGroup
	feeds := make([]*gtfs.Feed, 8)
	for i := range feeds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := store.Get(context.Background(), fixtureSource)
			assert.NoError(t, err)
			feeds[i] = f
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, f := range feeds {
		assert.Same(t, feeds[0], f)
	}
}

func TestParamsFromConfig(t *testing.T) {
	hours := query.HourWindow{Lower: 8, Upper: 18}
	p := ParamsFromConfig(config.QueryConfig{
		Weekdays:       []string{"saturday"},
		Hours:          &hours,
		ExcludedRoutes: []string{"R_SN"},
	}, "ParentX", "ParentY")

	assert.Equal(t, []string{"saturday"}, p.Weekdays)
	assert.Equal(t, hours, p.Window)
	assert.Equal(t, []string{"R_SN"}, p.ExcludedRouteIDs)
	require.NoError(t, p.Validate())

	d := ParamsFromConfig(config.QueryConfig{}, "A", "B")
	assert.Equal(t, DefaultParams("A", "B").Weekdays, d.Weekdays)
	assert.Equal(t, query.DefaultWindow, d.Window)
}
