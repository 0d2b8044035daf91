package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	sharedstops "github.com/theoremus-urban-solutions/gtfs-shared-stops"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/config"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/formatter"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/internal/logging"
	"github.com/theoremus-urban-solutions/gtfs-shared-stops/query"
)

type options struct {
	configPath string
	feedName   string
	source     string
	call       string
	stationA   string
	stationB   string
	exclude    string
	days       string
	hours      string
	route      string
	format     string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("gtfs-shared-stops", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file (default: config.yml, ./config/config.yml)")
	fs.StringVar(&o.feedName, "feed", "", "feed name from config.feeds[]")
	fs.StringVar(&o.source, "source", "", "GTFS zip path or URL (overrides config)")
	fs.StringVar(&o.call, "call", "compare", "stations|routes|compare|detail")
	fs.StringVar(&o.stationA, "a", "", "station A stop_id")
	fs.StringVar(&o.stationB, "b", "", "station B stop_id")
	fs.StringVar(&o.exclude, "exclude", "", "comma-separated route_ids to exclude")
	fs.StringVar(&o.days, "days", "", "comma-separated weekdays (default from config)")
	fs.StringVar(&o.hours, "hours", "", "hour window LOWER-UPPER, exclusive (default from config)")
	fs.StringVar(&o.route, "route", "", "route_id for -call detail")
	fs.StringVar(&o.format, "format", "", "table|json|csv (default from config)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadConfig reads the config file; without an explicit path a missing default file is not an error
func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		if err := config.LoadAppConfig(path); err != nil {
			return config.AppConfig{}, err
		}
		return config.Config, nil
	}
	if err := config.LoadAppConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config.AppConfig{}, err
		}
		cfg, err := config.Parse(nil)
		if err != nil {
			return config.AppConfig{}, err
		}
		config.Config = cfg
	}
	return config.Config, nil
}

func buildParams(o options, cfg config.AppConfig) (sharedstops.Params, error) {
	p := sharedstops.ParamsFromConfig(cfg.Query, o.stationA, o.stationB)
	if o.exclude != "" {
		p.ExcludedRouteIDs = splitList(o.exclude)
	}
	if o.days != "" {
		p.Weekdays = splitList(o.days)
	}
	if o.hours != "" {
		w, err := query.ParseHourWindow(o.hours)
		if err != nil {
			return sharedstops.Params{}, err
		}
		p.Window = w
	}
	return p, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	logger := logging.Must(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	feedCfg := config.FeedConfig{Name: "cli", Path: o.source}
	if o.source == "" {
		if feedCfg, err = cfg.SelectFeed(o.feedName); err != nil {
			return err
		}
	}
	format := o.format
	if format == "" {
		format = cfg.Output.Format
	}

	f := newFetcher(time.Duration(feedCfg.TimeoutMS) * time.Millisecond)
	store := sharedstops.NewFeedStore(f.load, logger)
	sess := sharedstops.NewSession(store, feedCfg.Path, sharedstops.Options{CacheSize: cfg.Cache.Size, Logger: logger})
	defer sess.FlushWarnings()

	logger.Debug("running query", zap.String("call", o.call), zap.String("feed", feedCfg.Name))

	switch o.call {
	case "stations":
		stations, err := sess.Stations(ctx)
		if err != nil {
			return err
		}
		return formatter.Write(stdout, format, stations, formatter.StationsTable(stations))

	case "routes":
		routes, err := sess.Routes(ctx, o.stationA)
		if err != nil {
			return err
		}
		name, err := sess.StationName(ctx, o.stationA)
		if err != nil {
			return err
		}
		return formatter.Write(stdout, format, routes, formatter.RoutesTable("Routes at "+name, routes))

	case "compare":
		p, err := buildParams(o, cfg)
		if err != nil {
			return err
		}
		cmp, err := sess.Compare(ctx, p)
		if err != nil {
			return err
		}
		tables := []formatter.Table{
			formatter.RoutesTable("Routes", cmp.AllRoutes),
			formatter.ProjectionTable("Stops from A", cmp.StopsA),
			formatter.ProjectionTable("Stops from B", cmp.StopsB),
			formatter.SharedTable(cmp.Shared),
		}
		if mt := formatter.MessagesTable(cmp.Messages); mt != nil {
			tables = append([]formatter.Table{*mt}, tables...)
		}
		return formatter.Write(stdout, format, cmp, tables...)

	case "detail":
		if o.route == "" {
			return errors.New("-route is required for -call detail")
		}
		p, err := buildParams(o, cfg)
		if err != nil {
			return err
		}
		detail, err := sess.RouteDetail(ctx, p, o.route)
		if err != nil {
			return err
		}
		label, err := sess.RouteLabel(ctx, o.route)
		if err != nil {
			return err
		}
		return formatter.Write(stdout, format, detail, formatter.DetailTables(label, *detail)...)

	default:
		return fmt.Errorf("unknown call %q", o.call)
	}
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
