package colocation_test

import (
	"math"
	"testing"

	"github.com/alejandrodnm/geoarb/internal/colocation"
	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

// Triángulo degenerado sobre el ecuador: A(0°) B(10°) C(30°).
// Sumas a todos los venues: A = 10+30 = 40°, B = 10+20 = 30°, C = 30+20 = 50°.
func triangle() *graph.Graph {
	g := graph.New()
	g.AddVenue(domain.NewVenue("A", "A", "A", 0, 0, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("B", "B", "B", 0, 10, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("C", "C", "C", 0, 30, domain.CategoryEquity))
	g.ConnectAll(domain.MediumFiber)
	return g
}

func degLatency(deg float64) float64 {
	km := deg * math.Pi / 180 * domain.EarthRadiusKm
	return domain.PropagationDelay(km, domain.MediumFiber)
}

type partialNetwork struct {
	*graph.Graph
	blocked map[string]bool // "FROM>TO"
}

func (p *partialNetwork) Latency(from, to string) float64 {
	if p.blocked[from+">"+to] {
		return domain.NoPath
	}
	return p.Graph.Latency(from, to)
}

// --- Optimize ---

func TestOptimizer_Optimize_HandComputedTriangle(t *testing.T) {
	opt := colocation.New(triangle())

	r := opt.Optimize([]string{"A", "B", "C"})

	require.True(t, r.Valid())
	assert.Equal(t, "B", r.OptimalID)
	assert.InDelta(t, degLatency(30), r.TotalLatencyMs, 1e-6)
	assert.InDelta(t, degLatency(10), r.AvgLatencyMs, 1e-6)
	assert.Equal(t, 0.0, r.MinLatencyMs, "el candidato está en el target set")
	assert.InDelta(t, degLatency(20), r.MaxLatencyMs, 1e-6)
	assert.InDelta(t, 40.0, r.ImprovementPercent, 1e-6) // (50-30)/50
	require.Len(t, r.LatencyToTargets, 3)
	assert.InDelta(t, degLatency(10), r.LatencyToTargets["A"], 1e-6)
}

func TestOptimizer_Optimize_CandidateOutsideTargets(t *testing.T) {
	g := graph.New()
	g.AddVenue(domain.NewVenue("N", "N", "N", 10, 0, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("S", "S", "S", -10, 0, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("E", "E", "E", 0, 10, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("W", "W", "W", 0, -10, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("HUB", "Hub", "Hub", 0, 0, domain.CategoryEquity))
	g.ConnectAll(domain.MediumFiber)

	// HUB suma 4×10° = 40°; cada target suma 20° + 2×~14.1° ≈ 48.3°
	r := colocation.New(g).Optimize([]string{"N", "S", "E", "W"})
	assert.Equal(t, "HUB", r.OptimalID)
	assert.InDelta(t, 4*degLatency(10), r.TotalLatencyMs, 1e-6)
	assert.InDelta(t, degLatency(10), r.MinLatencyMs, 1e-6)
	assert.InDelta(t, degLatency(10), r.MaxLatencyMs, 1e-6)
	assert.NotContains(t, r.LatencyToTargets, "HUB")
	assert.Greater(t, r.ImprovementPercent, 0.0)
}

func TestOptimizer_Optimize_TieGoesToFirstInRegistry(t *testing.T) {
	g := graph.New()
	g.AddVenue(domain.NewVenue("X", "X", "X", 0, 0, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("P", "P", "P", 0, 5, domain.CategoryEquity))
	g.AddVenue(domain.NewVenue("Q", "Q", "Q", 0, 5, domain.CategoryEquity))
	g.ConnectAll(domain.MediumFiber)

	r := colocation.New(g).Optimize([]string{"X"})
	assert.Equal(t, "X", r.OptimalID)

	r = colocation.New(g).Optimize([]string{"P", "Q"})
	assert.Equal(t, "P", r.OptimalID)
}

func TestOptimizer_Optimize_EmptyTargets(t *testing.T) {
	r := colocation.New(triangle()).Optimize(nil)

	assert.False(t, r.Valid())
	assert.Equal(t, "", r.OptimalID)
	assert.True(t, math.IsInf(r.TotalLatencyMs, 1))
}

func TestOptimizer_Optimize_UnreachableDisqualifies(t *testing.T) {
	net := &partialNetwork{Graph: triangle(), blocked: map[string]bool{"B>A": true}}

	r := colocation.New(net).Optimize([]string{"A", "B", "C"})
	// B descalificado → A (40°) gana a C (50°)
	assert.Equal(t, "A", r.OptimalID)
	assert.InDelta(t, 20.0, r.ImprovementPercent, 1e-6)
}

func TestOptimizer_Optimize_UnknownTarget(t *testing.T) {
	r := colocation.New(triangle()).Optimize([]string{"A", "NOPE"})
	assert.False(t, r.Valid())
}

// --- TopLocations ---

func TestOptimizer_TopLocations_Ranked(t *testing.T) {
	opt := colocation.New(triangle())

	top := opt.TopLocations([]string{"A", "B", "C"}, 5)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].OptimalID)
	assert.Equal(t, "A", top[1].OptimalID)
	assert.Equal(t, "C", top[2].OptimalID)
	for i := 0; i+1 < len(top); i++ {
		assert.LessOrEqual(t, top[i].TotalLatencyMs, top[i+1].TotalLatencyMs)
	}
	assert.InDelta(t, top[2].TotalLatencyMs/3, top[2].AvgLatencyMs, 1e-9)

	assert.Len(t, opt.TopLocations([]string{"A", "B", "C"}, 2), 2)
	assert.Empty(t, opt.TopLocations(nil, 3))
}

func TestOptimizer_TopLocations_FirstMatchesOptimize(t *testing.T) {
	opt := colocation.New(triangle())
	targets := []string{"A", "C"}

	assert.Equal(t, opt.Optimize(targets).OptimalID, opt.TopLocations(targets, 1)[0].OptimalID)
}
