package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

const (
	DefaultCacheSize = 256
	DefaultLogLevel  = "info"
	DefaultFormat    = "table"
)

// DefaultPaths are searched in order when LoadAppConfig gets no explicit path
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// ErrNoFeed is returned by SelectFeed when nothing is configured
var ErrNoFeed = errors.New("no feed configured")

// Config is the global application configuration
var Config AppConfig

// NewValidator returns a validator with the project's custom tags registered.
// "weekday" accepts a calendar day column name in any case.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return query.IsWeekday(fl.Field().String())
	})
	return v
}

// LoadAppConfig loads and validates the first readable file among paths
// (DefaultPaths when none given) into Config
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	var used string
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			used = p
			break
		}
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return fmt.Errorf("config %s: %w", used, err)
	}
	Config = cfg
	return nil
}

// Parse decodes, validates and defaults a YAML document
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	if err := NewValidator().Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.Query.Hours != nil {
		if err := cfg.Query.Hours.Validate(); err != nil {
			return AppConfig{}, err
		}
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if len(cfg.Query.Weekdays) == 0 {
		cfg.Query.Weekdays = query.WorkWeek().Names()
	}
	if cfg.Query.Hours == nil {
		w := query.DefaultWindow
		cfg.Query.Hours = &w
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
}

// SelectFeed chooses a feed by name; fallback to first; if none, use top-level feed.
func (cfg AppConfig) SelectFeed(name string) (FeedConfig, error) {
	if name != "" {
		for _, f := range cfg.Feeds {
			if f.Name == name {
				return f, nil
			}
		}
		return FeedConfig{}, fmt.Errorf("feed %q: %w", name, ErrNoFeed)
	}
	if len(cfg.Feeds) > 0 {
		return cfg.Feeds[0], nil
	}
	if cfg.Feed.Path != "" {
		return cfg.Feed, nil
	}
	return FeedConfig{}, ErrNoFeed
}
