package query

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Warning type constants
const (
	WarningMissingStop  = "missing_stop"
	WarningMissingTrip  = "missing_trip"
	WarningMissingRoute = "missing_route"
	WarningNoTimes      = "segment_without_times"
)

const maxExamples = 3

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects data problems found while running queries and
// logs consolidated summaries
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	info := w.warnings[warningType]
	if info == nil {
		info = &warningInfo{examples: make([]string, 0, maxExamples)}
		w.warnings[warningType] = info
	}
	info.count++
	if len(info.examples) < maxExamples {
		info.examples = append(info.examples, exampleID)
	}
}

// AddIntegrity records a dropped row under the warning type matching its missing reference
func (w *WarningAggregator) AddIntegrity(e *DataIntegrityError) {
	kind := WarningMissingStop
	switch {
	case strings.HasPrefix(e.Missing, "trip_id"):
		kind = WarningMissingTrip
	case strings.HasPrefix(e.Missing, "route_id"):
		kind = WarningMissingRoute
	}
	w.Add(kind, e.Key)
}

// Count returns the number of occurrences recorded for a warning type
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// Examples returns up to three example ids recorded for a warning type
func (w *WarningAggregator) Examples(warningType string) []string {
	if info := w.warnings[warningType]; info != nil {
		return append([]string(nil), info.examples...)
	}
	return nil
}

// Len returns the number of distinct warning types
func (w *WarningAggregator) Len() int { return len(w.warnings) }

// Reset forgets all recorded warnings
func (w *WarningAggregator) Reset() {
	w.warnings = make(map[string]*warningInfo)
}

// LogAll outputs all collected warnings in consolidated format, one entry per type
func (w *WarningAggregator) LogAll(log *zap.Logger, feed string) {
	if len(w.warnings) == 0 {
		return
	}
	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		info := w.warnings[t]
		description, action := describeWarning(t)
		log.Warn(description,
			zap.String("feed", feed),
			zap.String("type", t),
			zap.Int("occurrences", info.count),
			zap.String("action", action),
			zap.Strings("examples", info.examples),
		)
	}
}

func describeWarning(warningType string) (description, action string) {
	switch warningType {
	case WarningMissingStop:
		return "stop_times referencing stops absent from stops.txt", "Dropping the stop time from the projection"
	case WarningMissingTrip:
		return "stop_times referencing trips absent from trips.txt", "Dropping the stop time from the projection"
	case WarningMissingRoute:
		return "trips referencing routes absent from routes.txt", "Dropping the stop time from the projection"
	case WarningNoTimes:
		return "segments with a missing arrival or departure time", "Reporting the segment without travel time"
	default:
		return "unknown issue", "Continuing with fallback behavior"
	}
}
