package gtfs

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two WGS84 points in kilometers
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// DistanceKM returns the distance between two stops.
// Stops without coordinates (0,0) yield 0.
func DistanceKM(a, b Stop) float64 {
	if (a.StopLat == 0 && a.StopLon == 0) || (b.StopLat == 0 && b.StopLon == 0) {
		return 0
	}
	return HaversineKM(a.StopLat, a.StopLon, b.StopLat, b.StopLon)
}
