package scanner_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/graph"
	"github.com/alejandrodnm/geoarb/internal/marketdata"
	"github.com/alejandrodnm/geoarb/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNetwork struct {
	venues  []domain.Venue
	latency map[string]float64 // "FROM>TO" → ms
}

func (m *mockNetwork) Venue(id string) (domain.Venue, bool) {
	for _, v := range m.venues {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Venue{}, false
}

func (m *mockNetwork) Venues() []domain.Venue { return m.venues }

func (m *mockNetwork) Latency(from, to string) float64 {
	if l, ok := m.latency[from+">"+to]; ok {
		return l
	}
	return domain.NoPath
}

type mockQuotes struct {
	quotes map[string]domain.PriceQuote
}

func (m *mockQuotes) Quote(id string) (domain.PriceQuote, bool) {
	q, ok := m.quotes[id]
	return q, ok
}

func (m *mockQuotes) Quotes() map[string]domain.PriceQuote { return m.quotes }

// --- helpers ---

func makeVenue(id string) domain.Venue {
	return domain.NewVenue(id, id, id, 0, 0, domain.CategoryCrypto)
}

func makeQuote(id string, bid, ask float64) domain.PriceQuote {
	return domain.PriceQuote{VenueID: id, Symbol: "BTC/USD", Bid: bid, Ask: ask, Last: (bid + ask) / 2, Timestamp: 1_700_000_000_000}
}

// A vende barato (ask 100), B compra caro (bid 101), 10ms entre ellos.
func twoVenueFixture() (*mockNetwork, *mockQuotes) {
	net := &mockNetwork{
		venues:  []domain.Venue{makeVenue("A"), makeVenue("B")},
		latency: map[string]float64{"A>B": 10, "B>A": 10},
	}
	quotes := &mockQuotes{quotes: map[string]domain.PriceQuote{
		"A": makeQuote("A", 99.9, 100),
		"B": makeQuote("B", 101, 101.1),
	}}
	return net, quotes
}

// --- Evaluate ---

func TestScanner_Evaluate_Formulas(t *testing.T) {
	net, quotes := twoVenueFixture()
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opp := s.Evaluate(net.venues[0], net.venues[1], quotes.quotes["A"], quotes.quotes["B"])

	assert.NotEmpty(t, opp.ID)
	assert.Equal(t, "A", opp.BuyVenueID)
	assert.Equal(t, "B", opp.SellVenueID)
	assert.Equal(t, 100.0, opp.BuyPrice)
	assert.Equal(t, 101.0, opp.SellPrice)
	assert.InDelta(t, 1.0, opp.PriceDiff, 1e-9)
	assert.InDelta(t, 1.0, opp.ProfitPct, 1e-9)
	assert.Equal(t, 10.0, opp.LatencyMs)
	assert.Equal(t, 20.0, opp.RTTMs)
	assert.Equal(t, 200.0, opp.WindowMs)
	assert.True(t, opp.IsExecutable)
	// 1.0 - 2×100×0.1% - 100×0.05% = 1.0 - 0.2 - 0.05
	assert.InDelta(t, 0.75, opp.NetProfit, 1e-9)
	// 10×1 + (100-10) + 200/100
	assert.InDelta(t, 102.0, opp.Score, 1e-9)
	assert.Equal(t, int64(1_700_000_000_000), opp.DetectedAt)
}

func TestScanner_Evaluate_SlowRouteNotExecutable(t *testing.T) {
	net, quotes := twoVenueFixture()
	net.latency["A>B"] = 150 // RTT 300 > 200
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opp := s.Evaluate(net.venues[0], net.venues[1], quotes.quotes["A"], quotes.quotes["B"])
	assert.False(t, opp.IsExecutable)
	// la latencia > 100 no aporta puntos
	assert.InDelta(t, 10.0+2.0, opp.Score, 1e-9)
}

func TestScanner_Evaluate_BelowThresholdIsZeroScore(t *testing.T) {
	net, quotes := twoVenueFixture()
	net.latency["A>B"] = 0.001 // latencia arbitrariamente pequeña
	cfg := scanner.DefaultConfig()
	cfg.MinProfitBps = 500 // 5% > 1% de profit
	s := scanner.New(cfg, net, quotes)

	opp := s.Evaluate(net.venues[0], net.venues[1], quotes.quotes["A"], quotes.quotes["B"])
	assert.False(t, opp.IsExecutable)
	assert.Equal(t, 0.0, opp.Score)
}

func TestScanner_Evaluate_NoPathNeverExecutable(t *testing.T) {
	net, quotes := twoVenueFixture()
	delete(net.latency, "A>B")
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opp := s.Evaluate(net.venues[0], net.venues[1], quotes.quotes["A"], quotes.quotes["B"])
	assert.True(t, domain.IsNoPath(opp.LatencyMs))
	assert.False(t, opp.IsExecutable)
}

// --- ScanAll ---

func TestScanner_ScanAll_SingleDirection(t *testing.T) {
	net, quotes := twoVenueFixture()
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opps := s.ScanAll()
	require.Len(t, opps, 1)
	assert.Equal(t, "A", opps[0].BuyVenueID)
	assert.Equal(t, "B", opps[0].SellVenueID)
	assert.True(t, opps[0].IsExecutable)
	assert.Greater(t, opps[0].NetProfit, 0.0)
}

func TestScanner_ScanAll_DiscoversReverseDirection(t *testing.T) {
	net, quotes := twoVenueFixture()
	// ahora B es el barato
	quotes.quotes["A"] = makeQuote("A", 101, 101.1)
	quotes.quotes["B"] = makeQuote("B", 99.9, 100)
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opps := s.ScanAll()
	require.Len(t, opps, 1)
	assert.Equal(t, "B", opps[0].BuyVenueID)
	assert.Equal(t, "A", opps[0].SellVenueID)
}

func TestScanner_ScanAll_SkipsVenuesWithoutQuotes(t *testing.T) {
	net, quotes := twoVenueFixture()
	net.venues = append(net.venues, makeVenue("C"))
	net.latency["A>C"], net.latency["C>A"] = 1, 1
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	opps := s.ScanAll()
	require.Len(t, opps, 1)
	assert.NotEqual(t, "C", opps[0].SellVenueID)
}

func TestScanner_ScanAll_SkipsInactiveVenues(t *testing.T) {
	net, quotes := twoVenueFixture()
	net.venues[1].Active = false
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	assert.Empty(t, s.ScanAll())
}

func TestScanner_ScanAll_Empty(t *testing.T) {
	s := scanner.New(scanner.DefaultConfig(), &mockNetwork{}, &mockQuotes{})
	assert.Empty(t, s.ScanAll())
	assert.Equal(t, domain.ScannerStats{}, s.Stats())
}

func TestScanner_ScanAll_SortedByScoreDesc(t *testing.T) {
	g := graph.New()
	venues := []domain.Venue{
		domain.NewVenue("NYSE", "NYSE", "New York", 40.7069, -74.0113, domain.CategoryEquity),
		domain.NewVenue("NASDAQ", "Nasdaq", "New York", 40.7570, -73.9860, domain.CategoryEquity),
		domain.NewVenue("CME", "CME", "Chicago", 41.8789, -87.6359, domain.CategoryDerivatives),
		domain.NewVenue("LSE", "LSE", "London", 51.5155, -0.0922, domain.CategoryEquity),
		domain.NewVenue("EUREX", "Eurex", "Frankfurt", 50.1109, 8.6821, domain.CategoryDerivatives),
		domain.NewVenue("TSE", "TSE", "Tokyo", 35.6824, 139.7774, domain.CategoryEquity),
	}
	for _, v := range venues {
		g.AddVenue(v)
	}
	g.ConnectAll(domain.MediumFiber)

	cfg := marketdata.DefaultConfig()
	cfg.Seed = 2024
	gen := marketdata.New(cfg, func() time.Time { return time.Unix(1_700_000_000, 0) })
	gen.Initialize(venues, "BTC/USD")
	gen.InjectShock("NYSE", -0.8)
	gen.InjectShock("EUREX", 0.6)
	gen.InjectShock("CME", 0.3)

	s := scanner.New(scanner.DefaultConfig(), g, gen)
	opps := s.ScanAll()
	require.NotEmpty(t, opps)

	for i := 0; i+1 < len(opps); i++ {
		assert.GreaterOrEqual(t, opps[i].Score, opps[i+1].Score, "index %d", i)
	}
	for _, opp := range opps {
		assert.True(t, opp.IsExecutable)
		assert.Greater(t, opp.NetProfit, 0.0)
	}
}

func TestScanner_ScanAll_WorkerCountDoesNotChangeOrder(t *testing.T) {
	g := graph.New()
	var venues []domain.Venue
	for i := 0; i < 12; i++ {
		id := string(rune('A' + i))
		v := domain.NewVenue(id, id, id, float64(i*7-40), float64(i*29-170), domain.CategoryCrypto)
		venues = append(venues, v)
		g.AddVenue(v)
	}
	g.ConnectAll(domain.MediumMicrowave)

	scan := func(workers int) []string {
		cfg := marketdata.DefaultConfig()
		cfg.Seed = 99
		gen := marketdata.New(cfg, func() time.Time { return time.Unix(1_700_000_000, 0) })
		gen.Initialize(venues, "BTC/USD")
		gen.InjectShock("C", 0.9)
		gen.InjectShock("H", -0.7)

		scfg := scanner.DefaultConfig()
		scfg.Medium = domain.MediumMicrowave
		scfg.Filter.RequireExecutable = false
		scfg.Workers = workers
		var routes []string
		for _, opp := range scanner.New(scfg, g, gen).ScanAll() {
			routes = append(routes, opp.Route())
		}
		return routes
	}

	sequential := scan(1)
	require.NotEmpty(t, sequential)
	assert.Equal(t, sequential, scan(8))
}

// --- TopN / Stats ---

func TestScanner_TopN(t *testing.T) {
	net, quotes := twoVenueFixture()
	net.venues = append(net.venues, makeVenue("C"))
	quotes.quotes["C"] = makeQuote("C", 102, 102.1)
	net.latency["A>C"], net.latency["C>A"] = 5, 5
	net.latency["B>C"], net.latency["C>B"] = 5, 5
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	all := s.ScanAll()
	require.Len(t, all, 3) // A→B, A→C, B→C

	top := s.TopN(2)
	require.Len(t, top, 2)
	assert.Equal(t, all[0].Route(), top[0].Route())
	assert.Equal(t, all[1].Route(), top[1].Route())

	assert.Len(t, s.TopN(10), 3, "n >= size devuelve todo")
	assert.Empty(t, s.TopN(0))
}

func TestScanner_Stats_LastScan(t *testing.T) {
	net, quotes := twoVenueFixture()
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	assert.Equal(t, 0, s.Stats().TotalOpportunities, "sin escaneo previo")

	s.ScanAll()
	stats := s.Stats()
	assert.Equal(t, 1, stats.TotalOpportunities)
	assert.Equal(t, 1, stats.ExecutableOpportunities)
	assert.InDelta(t, 1.0, stats.AvgProfitPct, 1e-9)
	assert.InDelta(t, 1.0, stats.MaxProfitPct, 1e-9)
	assert.Equal(t, 10.0, stats.AvgLatencyMs)
}

// --- Config ---

func TestScanner_Config_RoundTrip(t *testing.T) {
	s := scanner.New(scanner.DefaultConfig(), &mockNetwork{}, &mockQuotes{})

	s.SetFeePercent(0.25)
	s.SetSlippagePercent(0.07)
	s.SetMinProfitBps(12.5)
	s.SetWindowMs(350)
	s.SetMedium(domain.MediumMicrowave)

	assert.Equal(t, 0.25, s.FeePercent())
	assert.Equal(t, 0.07, s.SlippagePercent())
	assert.Equal(t, 12.5, s.MinProfitBps())
	assert.Equal(t, 350.0, s.WindowMs())
	assert.Equal(t, domain.MediumMicrowave, s.Medium())
}

func TestScanner_Config_NotRetroactive(t *testing.T) {
	net, quotes := twoVenueFixture()
	s := scanner.New(scanner.DefaultConfig(), net, quotes)

	before := s.ScanAll()
	require.Len(t, before, 1)
	snapshot := before[0]

	s.SetFeePercent(1.0)
	s.SetWindowMs(10)

	assert.Equal(t, snapshot, before[0])
	assert.InDelta(t, 0.75, before[0].NetProfit, 1e-9)
	assert.Empty(t, s.ScanAll(), "la nueva config sí afecta al siguiente escaneo")
}
