package query

// SharedStation is a parent station reached by both projections.
// Attributes come from the first matching row of the A side.
type SharedStation struct {
	ParentStation string  `json:"parent_station"`
	StopID        string  `json:"stop_id"`
	StopName      string  `json:"stop_name"`
	StopLat       float64 `json:"stop_lat"`
	StopLon       float64 `json:"stop_lon"`
	// Ungrouped is set when the match is between stops without a parent station
	Ungrouped bool `json:"ungrouped"`
}

func parentOf(s ProjectedStop) string { return s.ParentStation }

// Shared joins two projections on parent_station and returns one row per
// parent present in both, ordered by first appearance in a.
// Stops without a parent station match each other and yield one Ungrouped row.
func Shared(a, b []ProjectedStop) []SharedStation {
	matched := DistinctBy(Semi(a, parentOf, b, parentOf), parentOf)
	out := make([]SharedStation, len(matched))
	for i, s := range matched {
		out[i] = SharedStation{
			ParentStation: s.ParentStation,
			StopID:        s.StopID,
			StopName:      s.StopName,
			StopLat:       s.StopLat,
			StopLon:       s.StopLon,
			Ungrouped:     s.ParentStation == "",
		}
	}
	return out
}

// SharedParents lists the parent station ids of shared rows
func SharedParents(shared []SharedStation) []string {
	out := make([]string, len(shared))
	for i, s := range shared {
		out[i] = s.ParentStation
	}
	return out
}
