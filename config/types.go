package config

import "github.com/theoremus-urban-solutions/gtfs-shared-stops/query"

// FeedConfig points at one static GTFS archive
type FeedConfig struct {
	Name      string `yaml:"name" validate:"required"`
	Path      string `yaml:"path" validate:"required"` // local file or http(s) URL
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// QueryConfig holds the filter defaults applied when a request leaves them unset
type QueryConfig struct {
	Weekdays       []string          `yaml:"weekdays" validate:"omitempty,dive,weekday"`
	Hours          *query.HourWindow `yaml:"hours" validate:"omitempty"`
	ExcludedRoutes []string          `yaml:"excludedRoutes"`
}

// CacheConfig sizes the per-session memo cache
type CacheConfig struct {
	Size int `yaml:"size" validate:"gte=0"`
}

// LoggingConfig selects the zap logger preset
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// OutputConfig selects how the CLI renders tables
type OutputConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=table json csv"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Feed    FeedConfig    `yaml:"feed" validate:"-"`
	Feeds   []FeedConfig  `yaml:"feeds" validate:"dive"`
	Query   QueryConfig   `yaml:"query"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}
