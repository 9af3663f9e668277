package marketdata

// generator.go — simulated per-venue quotes.
//
// Each venue's last price follows a random walk with two components:
//   - a global shock drawn once per tick and applied to every venue, so that
//     venues co-move the way real cross-venue markets do;
//   - a local shock per venue (30% of the global magnitude) that lets prices
//     drift apart and open exploitable spreads.
//
// Bid/ask are always rebuilt symmetrically around the last price, so ask >= bid.

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// Config holds the stochastic process parameters.
type Config struct {
	BasePrice        float64 // starting mid price, e.g. BTC in USD
	Volatility       float64 // relative magnitude of per-tick shocks
	BaseSpreadBps    float64
	SpreadStdDev     float64 // bps
	LocalNoiseFactor float64 // local shock size relative to the global one
	MinPrice         float64
	MinVolume        float64
	Seed             int64 // 0 = seed from the clock
}

// DefaultConfig returns the parameters of the demo BTC/USD feed.
func DefaultConfig() Config {
	return Config{
		BasePrice:        50_000,
		Volatility:       0.0002,
		BaseSpreadBps:    2.0,
		SpreadStdDev:     0.3,
		LocalNoiseFactor: 0.3,
		MinPrice:         100,
		MinVolume:        100,
	}
}

// Generator owns the quote map and the random source. Implements ports.QuoteProvider.
type Generator struct {
	mu     sync.RWMutex
	cfg    Config
	rng    *rand.Rand
	now    func() time.Time
	order  []string // venue iteration order, fixed at Initialize
	quotes map[string]*domain.PriceQuote
}

// New creates a generator. A nil clock means time.Now.
func New(cfg Config, clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = clock().UnixNano()
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		now:    clock,
		quotes: make(map[string]*domain.PriceQuote),
	}
}

// Initialize seeds one quote per venue around the base price.
// Previous quotes are discarded.
func (g *Generator) Initialize(venues []domain.Venue, symbol string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	g.order = make([]string, 0, len(venues))
	g.quotes = make(map[string]*domain.PriceQuote, len(venues))

	for _, v := range venues {
		if _, dup := g.quotes[v.ID]; !dup {
			g.order = append(g.order, v.ID)
		}
		// geographic dispersion: [-5.0, +4.9] around base
		offset := float64(g.rng.Intn(100)-50) * 0.1
		q := &domain.PriceQuote{
			VenueID:   v.ID,
			Symbol:    symbol,
			Last:      g.cfg.BasePrice + offset,
			Volume:    1000 + float64(g.rng.Intn(9000)),
			Timestamp: ts,
		}
		spreadBps := math.Max(0, g.cfg.BaseSpreadBps+g.rng.NormFloat64()*g.cfg.SpreadStdDev)
		setBook(q, spreadBps)
		g.quotes[v.ID] = q
	}

	slog.Debug("price feeds initialized", "venues", len(g.order), "symbol", symbol)
}

// Tick advances every quote one step of the random walk.
func (g *Generator) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	scale := g.cfg.Volatility * g.cfg.BasePrice
	global := g.rng.NormFloat64() * scale

	for _, id := range g.order {
		q := g.quotes[id]
		local := g.rng.NormFloat64() * scale * g.cfg.LocalNoiseFactor

		q.Last += global + local
		if q.Last < g.cfg.MinPrice {
			q.Last = g.cfg.MinPrice
		}

		spreadBps := g.cfg.BaseSpreadBps + math.Abs(g.rng.NormFloat64()*g.cfg.SpreadStdDev)
		setBook(q, math.Max(0, spreadBps))
		q.Timestamp = ts

		q.Volume += float64(g.rng.Intn(200) - 100)
		if q.Volume < g.cfg.MinVolume {
			q.Volume = g.cfg.MinVolume
		}
	}
}

// InjectShock moves one venue's price by percent and rebuilds its book
// with the base spread. Unknown ids are ignored.
func (g *Generator) InjectShock(venueID string, percent float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	q, ok := g.quotes[venueID]
	if !ok {
		return
	}
	q.Last *= 1 + percent/100
	setBook(q, math.Max(0, g.cfg.BaseSpreadBps))

	slog.Debug("price shock injected", "venue", venueID, "percent", percent, "last", q.Last)
}

// Quote returns a copy of the venue's current quote.
func (g *Generator) Quote(venueID string) (domain.PriceQuote, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	q, ok := g.quotes[venueID]
	if !ok {
		return domain.PriceQuote{}, false
	}
	return *q, true
}

// Quotes returns a copy of all current quotes keyed by venue id.
func (g *Generator) Quotes() map[string]domain.PriceQuote {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]domain.PriceQuote, len(g.quotes))
	for id, q := range g.quotes {
		out[id] = *q
	}
	return out
}

// SetVolatility takes effect on the next tick.
func (g *Generator) SetVolatility(v float64) {
	g.mu.Lock()
	g.cfg.Volatility = v
	g.mu.Unlock()
}

// Volatility returns the current volatility.
func (g *Generator) Volatility() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.Volatility
}

// SetBaseSpread sets the base spread in bps. Takes effect on the next tick.
func (g *Generator) SetBaseSpread(bps float64) {
	g.mu.Lock()
	g.cfg.BaseSpreadBps = bps
	g.mu.Unlock()
}

// BaseSpread returns the base spread in bps.
func (g *Generator) BaseSpread() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.BaseSpreadBps
}

// setBook rebuilds bid/ask symmetrically around the last price.
func setBook(q *domain.PriceQuote, spreadBps float64) {
	half := q.Last * spreadBps / 10_000 / 2
	q.Bid = q.Last - half
	q.Ask = q.Last + half
}
