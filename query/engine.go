package query

import (
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// Engine runs the station, route and projection queries over one feed snapshot.
// The feed is shared read-only; an Engine itself is not safe for concurrent use
// because it accumulates warnings.
type Engine struct {
	feed     *gtfs.Feed
	log      *zap.Logger
	warnings *WarningAggregator
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for data integrity warnings
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an engine over feed
func NewEngine(feed *gtfs.Feed, opts ...Option) *Engine {
	e := &Engine{
		feed:     feed,
		log:      zap.NewNop(),
		warnings: NewWarningAggregator(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Feed() *gtfs.Feed { return e.feed }

// Warnings returns the aggregator holding rows dropped by previous queries
func (e *Engine) Warnings() *WarningAggregator { return e.warnings }

func (e *Engine) reportIntegrity(err *DataIntegrityError) {
	e.warnings.AddIntegrity(err)
	e.log.Warn("dropping row with unresolved reference", zap.Error(err))
}
