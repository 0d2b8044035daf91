package query

import (
	"math"
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/gtfs"
)

// AnnotatedStop is a route stop tagged with whether its station is shared
type AnnotatedStop struct {
	ProjectedStop
	Shared bool `json:"shared"`
}

// TravelSegment is the hop between two consecutive stops of a route
type TravelSegment struct {
	FromSequence int           `json:"from_sequence"`
	ToSequence   int           `json:"to_sequence"`
	FromStopID   string        `json:"from_stop_id"`
	ToStopID     string        `json:"to_stop_id"`
	FromStopName string        `json:"from_stop_name"`
	ToStopName   string        `json:"to_stop_name"`
	Elapsed      time.Duration `json:"-"`
	// Minutes is Elapsed floored to whole minutes; a negative gap stays negative (-30s gives -1)
	Minutes    int     `json:"minutes"`
	DistanceKM float64 `json:"distance_km"`
	// HasTime is false when the departure or the next arrival is missing
	HasTime bool `json:"has_time"`
}

// RouteDetail is the annotated stop list and travel segments of one route
type RouteDetail struct {
	Stops    []AnnotatedStop `json:"stops"`
	Segments []TravelSegment `json:"segments"`
}

// Detail orders a single route's stops by stop_sequence, flags stops whose
// parent_station is in sharedParents, and computes the N-1 segments between them.
// Segment minutes are floor((next arrival - departure) / 1m).
func Detail(routeStops []ProjectedStop, sharedParents []string) RouteDetail {
	shared := stringSet(sharedParents)
	ordered := append([]ProjectedStop(nil), routeStops...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StopSequence < ordered[j].StopSequence
	})

	detail := RouteDetail{
		Stops:    make([]AnnotatedStop, len(ordered)),
		Segments: make([]TravelSegment, 0, max(len(ordered)-1, 0)),
	}
	for i, s := range ordered {
		_, isShared := shared[s.ParentStation]
		detail.Stops[i] = AnnotatedStop{ProjectedStop: s, Shared: isShared}
	}
	for i := 0; i+1 < len(ordered); i++ {
		detail.Segments = append(detail.Segments, segment(ordered[i], ordered[i+1]))
	}
	return detail
}

func segment(from, to ProjectedStop) TravelSegment {
	seg := TravelSegment{
		FromSequence: from.StopSequence,
		ToSequence:   to.StopSequence,
		FromStopID:   from.StopID,
		ToStopID:     to.StopID,
		FromStopName: from.StopName,
		ToStopName:   to.StopName,
	}
	seg.DistanceKM = gtfs.DistanceKM(
		gtfs.Stop{StopLat: from.StopLat, StopLon: from.StopLon},
		gtfs.Stop{StopLat: to.StopLat, StopLon: to.StopLon},
	)
	if !from.HasDeparture || !to.HasArrival {
		return seg
	}
	seg.Elapsed = to.Arrival - from.Departure
	seg.Minutes = int(math.Floor(seg.Elapsed.Minutes()))
	seg.HasTime = true
	return seg
}

// SegmentsWithoutTime counts segments lacking a travel time
func (d RouteDetail) SegmentsWithoutTime() int {
	n := 0
	for _, s := range d.Segments {
		if !s.HasTime {
			n++
		}
	}
	return n
}
