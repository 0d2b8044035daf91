package sharedstops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/config"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

// Params selects the two stations to compare and the service filter applied to both
type Params struct {
	StationA         string           `json:"station_a"`
	StationB         string           `json:"station_b"`
	ExcludedRouteIDs []string         `json:"excluded_route_ids"`
	Weekdays         []string         `json:"weekdays" validate:"dive,weekday"`
	Window           query.HourWindow `json:"window"`
}

// DefaultParams returns the Monday to Friday, 06-22 filter for two stations
func DefaultParams(stationA, stationB string) Params {
	return Params{
		StationA: stationA,
		StationB: stationB,
		Weekdays: query.WorkWeek().Names(),
		Window:   query.DefaultWindow,
	}
}

// ParamsFromConfig fills the filter from the configured query defaults
func ParamsFromConfig(cfg config.QueryConfig, stationA, stationB string) Params {
	p := DefaultParams(stationA, stationB)
	if len(cfg.Weekdays) > 0 {
		p.Weekdays = append([]string(nil), cfg.Weekdays...)
	}
	if cfg.Hours != nil {
		p.Window = *cfg.Hours
	}
	p.ExcludedRouteIDs = append([]string(nil), cfg.ExcludedRoutes...)
	return p
}

var paramValidator = config.NewValidator()

// Validate checks weekday names and the hour window.
// Failures are reported as *query.InvalidFilterError.
func (p Params) Validate() error {
	if err := paramValidator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &query.InvalidFilterError{
				Field:  strings.ToLower(fe.Field()),
				Value:  fmt.Sprint(fe.Value()),
				Reason: "failed " + fe.Tag() + " check",
			}
		}
		return err
	}
	return p.Window.Validate()
}

// weekdaySet parses weekdays after Validate has accepted them
func (p Params) weekdaySet() query.WeekdaySet {
	set, _ := query.ParseWeekdays(p.Weekdays)
	return set
}
