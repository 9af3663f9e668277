// Package engine drives the simulation: it advances the price feed, scans for
// opportunities, records history and reports the best routes each step.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/ports"
)

// Network is the subset of the venue graph the engine needs.
type Network interface {
	Venues() []domain.Venue
	ConnectAll(medium domain.Medium)
}

// Feed is the price source advanced once per step.
type Feed interface {
	Tick()
	InjectShock(venueID string, percent float64)
}

// OpportunityScanner decouples the engine from *scanner.Scanner.
type OpportunityScanner interface {
	ScanAll() []domain.ArbitrageOpportunity
	SetMedium(m domain.Medium)
}

// SnapshotRecorder stores scan results for replay.
type SnapshotRecorder interface {
	Record(opps []domain.ArbitrageOpportunity) domain.OpportunitySnapshot
}

// Config controls pacing and reporting of the simulation loop.
type Config struct {
	TickInterval     time.Duration
	RecordEvery      int // record one snapshot every N steps
	TopN             int // opportunities passed to the notifier (0 = all)
	Symbol           string
	AutoInject       bool
	InjectEvery      time.Duration
	InjectMaxPercent float64
	AutoExecute      bool             // book the best executable opportunity every step
	Seed             int64            // 0 = seeded from the clock
	Clock            func() time.Time // nil = time.Now
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		TickInterval:     time.Second,
		RecordEvery:      1,
		TopN:             10,
		Symbol:           "BTC/USD",
		InjectEvery:      3 * time.Second,
		InjectMaxPercent: 1.0,
	}
}

// Shock describes a demo price deviation injected by the engine.
type Shock struct {
	VenueID string
	Percent float64
}

// StepResult summarizes one simulation step.
type StepResult struct {
	Step          int
	Opportunities []domain.ArbitrageOpportunity // full ranked scan
	Top           []domain.ArbitrageOpportunity // what the notifier received
	Snapshot      *domain.OpportunitySnapshot   // nil when the step was not recorded
	Shock         *Shock                        // nil when nothing was injected
	Executed      *domain.ArbitrageOpportunity  // set when AutoExecute booked a trade
}

// Engine orchestrates feed → scan → record → notify.
type Engine struct {
	cfg      Config
	network  Network
	feed     Feed
	scanner  OpportunityScanner
	recorder SnapshotRecorder
	notifier ports.Notifier

	now     func() time.Time
	limiter *rate.Limiter

	mu    sync.Mutex
	rng   *rand.Rand
	steps int
	stats domain.TradingStats
}

// New creates an engine with all dependencies injected. recorder and notifier may be nil.
func New(
	cfg Config,
	network Network,
	feed Feed,
	scanner OpportunityScanner,
	recorder SnapshotRecorder,
	notifier ports.Notifier,
) *Engine {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.RecordEvery <= 0 {
		cfg.RecordEvery = def.RecordEvery
	}
	if cfg.InjectEvery <= 0 {
		cfg.InjectEvery = def.InjectEvery
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = cfg.Clock().UnixNano()
	}

	return &Engine{
		cfg:      cfg,
		network:  network,
		feed:     feed,
		scanner:  scanner,
		recorder: recorder,
		notifier: notifier,
		now:      cfg.Clock,
		limiter:  rate.NewLimiter(rate.Every(cfg.InjectEvery), 1),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Run steps the simulation every TickInterval until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"interval", e.cfg.TickInterval,
		"symbol", e.cfg.Symbol,
		"auto_inject", e.cfg.AutoInject,
	)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped", "steps", e.Steps())
			return nil
		case <-ticker.C:
			if _, err := e.Step(ctx); err != nil {
				return err
			}
		}
	}
}

// RunSteps executes n steps back to back and returns the last result.
func (e *Engine) RunSteps(ctx context.Context, n int) (StepResult, error) {
	var last StepResult
	for range n {
		res, err := e.Step(ctx)
		if err != nil {
			return last, err
		}
		last = res
	}
	return last, nil
}

// Step executes one simulation cycle. Only context cancellation is returned as
// an error; notifier failures are logged.
func (e *Engine) Step(ctx context.Context) (StepResult, error) {
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	e.mu.Lock()
	e.steps++
	res := StepResult{Step: e.steps}
	e.mu.Unlock()

	// 1. Market data
	e.feed.Tick()
	if e.cfg.AutoInject {
		res.Shock = e.maybeInject()
	}

	// 2. Scan
	res.Opportunities = e.scanner.ScanAll()
	res.Top = topN(res.Opportunities, e.cfg.TopN)
	if e.cfg.AutoExecute && len(res.Opportunities) > 0 && res.Opportunities[0].IsExecutable {
		best := res.Opportunities[0]
		e.Execute(best)
		res.Executed = &best
	}

	// 3. History
	if e.recorder != nil && res.Step%e.cfg.RecordEvery == 0 {
		snap := e.recorder.Record(res.Opportunities)
		res.Snapshot = &snap
	}

	// 4. Reporting
	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, res.Top); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Debug("engine step complete",
		"step", res.Step,
		"opportunities", len(res.Opportunities),
		"recorded", res.Snapshot != nil,
	)
	return res, nil
}

// maybeInject shifts a random venue's price when the limiter allows it.
func (e *Engine) maybeInject() *Shock {
	if !e.limiter.AllowN(e.now(), 1) {
		return nil
	}
	venues := e.network.Venues()
	if len(venues) == 0 {
		return nil
	}

	e.mu.Lock()
	v := venues[e.rng.Intn(len(venues))]
	pct := e.rng.Float64() * e.cfg.InjectMaxPercent
	e.mu.Unlock()

	e.feed.InjectShock(v.ID, pct)
	slog.Info("demo shock injected", "venue", v.ID, "percent", pct)
	return &Shock{VenueID: v.ID, Percent: pct}
}

// InjectShock forwards a manual price deviation to the feed.
func (e *Engine) InjectShock(venueID string, percent float64) {
	e.feed.InjectShock(venueID, percent)
}

// SetMedium switches the transmission medium: the scanner config is updated
// and every graph edge is recomputed.
func (e *Engine) SetMedium(m domain.Medium) {
	e.scanner.SetMedium(m)
	e.network.ConnectAll(m)
	slog.Info("transmission medium changed", "medium", m.String())
}

// Steps returns the number of steps executed so far.
func (e *Engine) Steps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.steps
}

// --- simulated execution ---

// Execute books a simulated trade on opp and returns the updated stats.
func (e *Engine) Execute(opp domain.ArbitrageOpportunity) domain.TradingStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Apply(opp)
	slog.Info("simulated trade executed",
		"route", opp.Route(),
		"net_profit", opp.NetProfit,
		"total_trades", e.stats.TotalTrades,
	)
	return e.stats
}

// Stats returns the simulated trading ledger.
func (e *Engine) Stats() domain.TradingStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ResetStats clears the simulated trading ledger.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	e.stats = domain.TradingStats{}
	e.mu.Unlock()
}

func topN(opps []domain.ArbitrageOpportunity, n int) []domain.ArbitrageOpportunity {
	if n <= 0 || len(opps) <= n {
		return opps
	}
	return opps[:n]
}
