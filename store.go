package sharedstops

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// Loader produces a feed for a source (file path, URL, ...)
type Loader func(ctx context.Context, source string) (*gtfs.Feed, error)

// FileLoader loads source as a local zip archive
func FileLoader(_ context.Context, source string) (*gtfs.Feed, error) {
	return gtfs.LoadFromFile(source)
}

type storedFeed struct {
	feed       *gtfs.Feed
	generation uint64
}

// FeedStore memoises loaded feeds by source. Feeds are immutable once stored;
// Reload swaps in a new snapshot and bumps the source's generation.
type FeedStore struct {
	mu    sync.RWMutex
	load  Loader
	log   *zap.Logger
	feeds map[string]storedFeed
}

// NewFeedStore creates a store. A nil loader means FileLoader, a nil logger means no logging.
func NewFeedStore(load Loader, log *zap.Logger) *FeedStore {
	if load == nil {
		load = FileLoader
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedStore{load: load, log: log, feeds: map[string]storedFeed{}}
}

// Get returns the feed for source, loading it on first use
func (s *FeedStore) Get(ctx context.Context, source string) (*gtfs.Feed, error) {
	sf, err := s.snapshot(ctx, source)
	return sf.feed, err
}

// Reload loads source again and replaces the stored snapshot
func (s *FeedStore) Reload(ctx context.Context, source string) (*gtfs.Feed, error) {
	feed, err := s.loadAndLog(ctx, source)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.feeds[source].generation + 1
	s.feeds[source] = storedFeed{feed: feed, generation: gen}
	s.log.Info("feed reloaded", zap.String("source", source), zap.Uint64("generation", gen))
	return feed, nil
}

// Generation returns how many times source has been loaded, 0 if never
func (s *FeedStore) Generation(source string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeds[source].generation
}

func (s *FeedStore) snapshot(ctx context.Context, source string) (storedFeed, error) {
	s.mu.RLock()
	sf, ok := s.feeds[source]
	s.mu.RUnlock()
	if ok {
		return sf, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sf, ok := s.feeds[source]; ok {
		return sf, nil
	}
	feed, err := s.loadAndLog(ctx, source)
	if err != nil {
		return storedFeed{}, err
	}
	sf = storedFeed{feed: feed, generation: 1}
	s.feeds[source] = sf
	return sf, nil
}

func (s *FeedStore) loadAndLog(ctx context.Context, source string) (*gtfs.Feed, error) {
	feed, err := s.load(ctx, source)
	if err != nil {
		s.log.Error("feed load failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	sum := feed.Summary()
	s.log.Info("feed loaded",
		zap.String("source", source),
		zap.Int("stops", sum.Stops),
		zap.Int("routes", sum.Routes),
		zap.Int("trips", sum.Trips),
		zap.Int("stop_times", sum.StopTimes),
		zap.Int("services", sum.Services),
		zap.Int("warnings", sum.Warnings),
	)
	for _, w := range feed.Warnings() {
		s.log.Warn("feed warning", zap.String("source", source), zap.String("warning", w))
	}
	return feed, nil
}
