package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/browser"
	log "github.com/sirupsen/logrus"

	"fitdash/internal/analysis"
	"fitdash/internal/calendar"
	"fitdash/internal/chart"
	"fitdash/internal/config"
	"fitdash/internal/importer"
	"fitdash/internal/logging"
	"fitdash/internal/service"
	"fitdash/internal/store"
	"fitdash/internal/tui"
)

const usage = `Usage:
  fitdash                 open the terminal dashboard
  fitdash import <dir>    import JSON exports from dir
  fitdash chart [flags]   render a chart as HTML
  fitdash dashboard       print the period summary

Run 'fitdash chart -h' or 'fitdash dashboard -h' for flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	command := ""
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	// the terminal UI owns stdout
	setupLogging(cfg, command != "" && cfg.Log.Stdout)

	dataDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	db, err := store.Open(dataDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	cache := chart.NewCache(chart.NewBuilder(nil), cfg.Cache.SizeMB, cfg.Cache.TTLSeconds)
	querySvc := service.NewQueryService(db, cache, cfg)

	switch command {
	case "":
		return runTUI(querySvc)
	case "import":
		return runImport(db, cfg, args)
	case "chart":
		return runChart(querySvc, cfg, args)
	case "dashboard":
		return runDashboard(querySvc, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("No config file found, created an example at:\n  %s/config.json\n\n", configDir)
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("invalid config %s/config.json: %w", configDir, err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, stdout bool) {
	file := cfg.Log.File
	if file == "" {
		if dir, err := config.GetConfigDir(); err == nil {
			file = filepath.Join(dir, "fitdash")
		}
	}
	logging.Setup(logging.Params{
		LogFileName:   file,
		LogToStdout:   stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
}

func runTUI(querySvc *service.QueryService) error {
	app := tui.NewApp(querySvc, calendar.DateOf(time.Now()))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func runImport(db *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	owner := fs.String("owner", cfg.Identity.Owner, "owner of the imported data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: fitdash import [-owner name] <dir>")
	}

	res, err := importer.New(db, *owner).ImportDir(fs.Arg(0))
	if res != nil {
		fmt.Printf("Imported %s\n", res)
	}
	return err
}

func runChart(querySvc *service.QueryService, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	sportFlag := fs.String("sport", string(analysis.SportRunning), "sport of the trend chart")
	metricFlag := fs.String("metric", string(chart.MetricDistance), "metric to chart")
	activity := fs.String("activity", "", "chart one activity instead of the sport trend")
	health := fs.Bool("health", false, "chart a daily health metric (steps, resting_heart_rate, ...)")
	out := fs.String("out", "chart.html", "output HTML file")
	open := fs.Bool("open", false, "open the chart in the browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	metric, err := chart.ParseMetric(*metricFlag)
	if err != nil {
		return err
	}

	var spec *chart.Spec
	switch {
	case *health:
		spec, err = querySvc.HealthChart(querySvc.Owner(), metric, calendar.DateOf(time.Now()))
	case *activity != "":
		spec, err = activityChart(querySvc, *activity, metric)
	default:
		var sport analysis.SportType
		sport, err = analysis.ParseSport(*sportFlag)
		if err != nil {
			return err
		}
		spec, err = querySvc.TrendChart(querySvc.Owner(), sport, metric)
	}
	if err != nil {
		return err
	}

	for _, w := range spec.Warnings {
		log.Warnf("chart %s: %s", spec.Title, w)
	}
	if err := chart.WriteHTML(*out, spec, cfg.Display.ChartTheme); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d points)\n", *out, len(spec.Points))

	if *open {
		if err := browser.OpenFile(*out); err != nil {
			return fmt.Errorf("opening %s: %w", *out, err)
		}
	}
	return nil
}

func runDashboard(querySvc *service.QueryService, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	periodFlag := fs.String("period", string(calendar.PeriodWeek), "week, month or year")
	anchorFlag := fs.String("anchor", "", "last day of the period (YYYY-MM-DD), today by default")
	sportFlag := fs.String("sport", "", "limit the buckets to one sport")
	if err := fs.Parse(args); err != nil {
		return err
	}

	period, err := calendar.ParsePeriod(*periodFlag)
	if err != nil {
		return err
	}
	anchor := calendar.DateOf(time.Now())
	if *anchorFlag != "" {
		if anchor, err = calendar.ParseDate(*anchorFlag); err != nil {
			return err
		}
	}
	var sport analysis.SportType
	if *sportFlag != "" {
		if sport, err = analysis.ParseSport(*sportFlag); err != nil {
			return err
		}
	}

	d, err := querySvc.Dashboard(querySvc.Owner(), period, anchor, sport)
	if d == nil {
		return err
	}
	if err != nil {
		log.Warnf("dashboard zones: %s", err)
	}

	fmt.Println(d.Window.Label())
	fmt.Printf("Total: %d séances, %.1f km, %s\n", d.Totals.Count, d.Totals.DistanceKm, d.Totals.Duration.Round(time.Minute))
	for _, t := range d.BySport {
		fmt.Printf("  %-16s %3d  %8.1f km  %s\n", t.Sport.Label(), t.Count, t.DistanceKm, t.Duration.Round(time.Minute))
	}
	fmt.Println()
	for _, b := range d.Buckets {
		fmt.Printf("  %s  %6.1f h  %8.1f km\n", b.Start, b.Hours, b.DistanceKm)
	}
	if d.HasZoneLoad() {
		fmt.Println()
		if d.ZonesInferred {
			fmt.Printf("Zones estimées depuis la FC max observée (%.0f bpm)\n", d.Zones.MaxHR())
		}
		for i, z := range d.ZoneLoad {
			zone := analysis.Zone(i + 1)
			fmt.Printf("  %s %-12s %10s  %8.1f km\n", zone, zone.Name(), z.Duration.Round(time.Second), z.DistanceKm)
		}
	}
	return nil
}

// activityChart returns the chart of metric among the activity's charts
func activityChart(querySvc *service.QueryService, id string, metric chart.MetricKind) (*chart.Spec, error) {
	res, err := querySvc.ActivityCharts(id)
	if res == nil {
		return nil, err
	}
	for _, spec := range res.Charts {
		if spec.Metric == metric {
			return spec, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("activity %s has no %s samples", id, metric)
}
