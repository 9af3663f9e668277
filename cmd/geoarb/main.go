package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/geoarb/config"
	"github.com/alejandrodnm/geoarb/internal/adapters/notify"
	"github.com/alejandrodnm/geoarb/internal/colocation"
	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/engine"
	"github.com/alejandrodnm/geoarb/internal/graph"
	"github.com/alejandrodnm/geoarb/internal/history"
	"github.com/alejandrodnm/geoarb/internal/marketdata"
	"github.com/alejandrodnm/geoarb/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one simulation step, print the report and exit")
	steps := flag.Int("steps", 0, "run N steps back to back and exit (0 = run until interrupted)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print the full opportunity table (default: compact 1-line)")
	medium := flag.String("medium", "", "transmission medium: fiber|microwave|satellite (overrides config)")
	targets := flag.String("colocate", "", "comma-separated venue ids for the co-location optimizer (overrides config)")
	replay := flag.Bool("replay", false, "replay the recorded history after the run")
	trade := flag.Bool("trade", false, "book the best executable opportunity every step (simulated)")
	importDB := flag.String("import-db", "", "copy the configured JSON catalog into this SQLite file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *medium != "" {
		cfg.Scanner.Medium = *medium
	}
	if *targets != "" {
		cfg.Colocation.Targets = splitIDs(*targets)
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *importDB != "" {
		if err := runImport(ctx, cfg.Venues, *importDB); err != nil {
			slog.Error("catalog import failed", "err", err)
			os.Exit(1)
		}
		return
	}

	txMedium, err := domain.ParseMedium(cfg.Scanner.Medium)
	if err != nil {
		slog.Error("invalid medium", "err", err)
		os.Exit(1)
	}

	slog.Info("geoarb starting",
		"config", *configPath,
		"interval", cfg.TickInterval(),
		"medium", txMedium.String(),
		"venues", cfg.Venues.Path,
		"once", *once,
		"steps", *steps,
	)

	venues, err := loadVenues(ctx, cfg.Venues)
	if err != nil {
		slog.Error("failed to load venues", "err", err, "source", cfg.Venues.Source)
		os.Exit(1)
	}

	g := graph.New()
	for _, v := range venues {
		g.AddVenue(v)
	}
	g.ConnectAll(txMedium)

	mdCfg := marketdata.DefaultConfig()
	mdCfg.BasePrice = cfg.Simulation.BasePrice
	mdCfg.Volatility = cfg.Simulation.Volatility
	mdCfg.BaseSpreadBps = cfg.Simulation.BaseSpreadBps
	mdCfg.Seed = cfg.Simulation.Seed
	feed := marketdata.New(mdCfg, nil)
	feed.Initialize(g.Venues(), cfg.Simulation.Symbol)

	scanCfg := scanner.DefaultConfig()
	scanCfg.MinProfitBps = cfg.Scanner.MinProfitBps
	scanCfg.FeePercent = cfg.Scanner.FeePercent
	scanCfg.SlippagePercent = cfg.Scanner.SlippagePercent
	scanCfg.WindowMs = cfg.Scanner.WindowMs
	scanCfg.Medium = txMedium
	scanCfg.Workers = cfg.Scanner.Workers
	scanCfg.Filter = scanner.FilterConfig{
		RequireExecutable: cfg.Scanner.RequireExecutable,
		MinNetProfit:      cfg.Scanner.MinNetProfit,
	}
	s := scanner.New(scanCfg, g, feed)

	recorder := history.New(cfg.History.Capacity, nil)
	notifier := notify.NewConsole(*table)

	engCfg := engine.Config{
		TickInterval:     cfg.TickInterval(),
		RecordEvery:      cfg.Simulation.RecordEvery,
		TopN:             cfg.Scanner.TopN,
		Symbol:           cfg.Simulation.Symbol,
		AutoInject:       cfg.Simulation.AutoInject,
		InjectEvery:      cfg.InjectEvery(),
		InjectMaxPercent: cfg.Simulation.InjectMaxPercent,
		AutoExecute:      *trade,
		Seed:             cfg.EngineSeed(),
	}
	eng := engine.New(engCfg, g, feed, s, recorder, notifier)

	notifier.PrintVenues(g.Venues())
	notifier.PrintNetwork(g.Stats(), g.Medium())

	switch {
	case *once:
		_, err = eng.RunSteps(ctx, 1)
	case *steps > 0:
		_, err = eng.RunSteps(ctx, *steps)
	default:
		err = eng.Run(ctx)
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	printReport(notifier, reportInput{
		quotes:    feed,
		scanner:   s,
		optimizer: colocation.New(g),
		recorder:  recorder,
		engine:    eng,
		targets:   cfg.Colocation.Targets,
		top:       cfg.Colocation.Top,
		window:    cfg.History.WindowSnapshots,
	})
	if *replay {
		runReplay(ctx, recorder, notifier)
	}

	slog.Info("geoarb stopped cleanly", "steps", eng.Steps())
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
