package query

import (
	"sort"
	"strings"
)

// stationMarker identifies parent stations by their stop_id
const stationMarker = "Parent"

// Station is a stop that groups platforms
type Station struct {
	StopID   string  `json:"stop_id"`
	StopName string  `json:"stop_name"`
	StopLat  float64 `json:"stop_lat"`
	StopLon  float64 `json:"stop_lon"`
}

// IsStationID reports whether a stop_id denotes a parent station
func IsStationID(stopID string) bool {
	return strings.Contains(stopID, stationMarker)
}

// ListStations returns every station sorted by name, then id
func (e *Engine) ListStations() []Station {
	out := make([]Station, 0)
	for _, s := range e.feed.Stops() {
		if !IsStationID(s.StopID) {
			continue
		}
		out = append(out, Station{
			StopID:   s.StopID,
			StopName: s.StopName,
			StopLat:  s.StopLat,
			StopLon:  s.StopLon,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StopName != out[j].StopName {
			return out[i].StopName < out[j].StopName
		}
		return out[i].StopID < out[j].StopID
	})
	return out
}
