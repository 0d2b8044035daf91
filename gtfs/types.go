package gtfs

import "time"

// Stop corresponds to a single row in stops.txt
type Stop struct {
	StopID        string  `json:"stop_id"`
	StopName      string  `json:"stop_name"`
	StopLat       float64 `json:"stop_lat"`
	StopLon       float64 `json:"stop_lon"`
	LocationType  int     `json:"location_type"`
	ParentStation string  `json:"parent_station"` // empty when the stop is not grouped
}

// HasParent reports whether the stop belongs to a parent station
func (s Stop) HasParent() bool { return s.ParentStation != "" }

// Route corresponds to a single row in routes.txt
type Route struct {
	RouteID        string `json:"route_id"`
	AgencyID       string `json:"agency_id"`
	RouteShortName string `json:"route_short_name"`
	RouteLongName  string `json:"route_long_name"`
	RouteType      int    `json:"route_type"`
	RouteColor     string `json:"route_color"`
}

// Trip corresponds to a single row in trips.txt
type Trip struct {
	TripID       string `json:"trip_id"`
	RouteID      string `json:"route_id"`
	ServiceID    string `json:"service_id"`
	TripHeadsign string `json:"trip_headsign"`
	DirectionID  string `json:"direction_id"` // "0"|"1"|""
}

// StopTime corresponds to a single row in stop_times.txt.
// Arrival and Departure are offsets from midnight of the service day and may exceed 24h.
type StopTime struct {
	TripID        string        `json:"trip_id"`
	StopID        string        `json:"stop_id"`
	StopSequence  int           `json:"stop_sequence"`
	ArrivalTime   string        `json:"arrival_time"`
	DepartureTime string        `json:"departure_time"`
	Arrival       time.Duration `json:"-"`
	Departure     time.Duration `json:"-"`
	HasArrival    bool          `json:"-"`
	HasDeparture  bool          `json:"-"`
	PickupType    int           `json:"pickup_type"`   // 0=regular, 1=none, 2=phone, 3=coordinate
	DropOffType   int           `json:"drop_off_type"` // 0=regular, 1=none, 2=phone, 3=coordinate
	Row           int           `json:"-"`             // 0-based position in stop_times.txt
}

// AllowsPassengers reports whether regular boarding and alighting are both permitted
func (st StopTime) AllowsPassengers() bool {
	return st.PickupType == 0 && st.DropOffType == 0
}

// CalendarEntry corresponds to a single row in calendar.txt
type CalendarEntry struct {
	ServiceID string `json:"service_id"`
	Monday    bool   `json:"monday"`
	Tuesday   bool   `json:"tuesday"`
	Wednesday bool   `json:"wednesday"`
	Thursday  bool   `json:"thursday"`
	Friday    bool   `json:"friday"`
	Saturday  bool   `json:"saturday"`
	Sunday    bool   `json:"sunday"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Days returns the weekday flags ordered Monday..Sunday
func (c CalendarEntry) Days() [7]bool {
	return [7]bool{c.Monday, c.Tuesday, c.Wednesday, c.Thursday, c.Friday, c.Saturday, c.Sunday}
}

// Agency corresponds to a single row in agency.txt
type Agency struct {
	AgencyID       string `json:"agency_id"`
	AgencyName     string `json:"agency_name"`
	AgencyTimezone string `json:"agency_timezone"`
}

// Summary holds row counts of a loaded feed
type Summary struct {
	Stops     int `json:"stops"`
	Routes    int `json:"routes"`
	Trips     int `json:"trips"`
	StopTimes int `json:"stop_times"`
	Services  int `json:"services"`
	Warnings  int `json:"warnings"`
}
