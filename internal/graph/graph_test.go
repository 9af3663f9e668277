package graph_test

import (
	"testing"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func venue(id string, lat, lon float64) domain.Venue {
	return domain.NewVenue(id, id+" Exchange", id+" City", lat, lon, domain.CategoryEquity)
}

// Tres venues sobre el ecuador: A(0°) B(10°) C(30°).
func newEquatorGraph(medium domain.Medium) *graph.Graph {
	g := graph.New()
	g.AddVenue(venue("A", 0, 0))
	g.AddVenue(venue("B", 0, 10))
	g.AddVenue(venue("C", 0, 30))
	g.ConnectAll(medium)
	return g
}

// --- tests ---

func TestGraph_ConnectAll_CompleteAndSymmetric(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)

	ids := []string{"A", "B", "C"}
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			lat := g.Latency(a, b)
			assert.False(t, domain.IsNoPath(lat), "%s→%s debe tener arista", a, b)
			assert.Equal(t, lat, g.Latency(b, a))
		}
	}

	stats := g.Stats()
	assert.Equal(t, 3, stats.Venues)
	assert.Equal(t, 3, stats.Connections)
}

func TestGraph_Latency_MatchesLatencyModel(t *testing.T) {
	g := newEquatorGraph(domain.MediumMicrowave)

	a, _ := g.Venue("A")
	c, _ := g.Venue("C")
	assert.InDelta(t, domain.VenueLatency(a, c, domain.MediumMicrowave), g.Latency("A", "C"), 1e-12)

	e, ok := g.Edge("A", "C")
	require.True(t, ok)
	assert.Equal(t, domain.MediumMicrowave, e.Medium)
	assert.InDelta(t, 2*e.LatencyMs, e.RTT(), 1e-12)
}

func TestGraph_Latency_UnknownIsNoPath(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)

	assert.True(t, domain.IsNoPath(g.Latency("A", "ZZZ")))
	assert.True(t, domain.IsNoPath(g.Latency("ZZZ", "A")))
	assert.True(t, domain.IsNoPath(g.Latency("A", "A")), "sin self-edge")
}

func TestGraph_AddVenue_RequiresReconnect(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)
	g.AddVenue(venue("D", 10, 10))

	assert.True(t, domain.IsNoPath(g.Latency("A", "D")), "no auto-invalidation")

	g.ConnectAll(domain.MediumFiber)
	assert.False(t, domain.IsNoPath(g.Latency("A", "D")))
	assert.Equal(t, 6, g.Stats().Connections)
}

func TestGraph_AddVenue_OverwriteKeepsOrder(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)
	g.AddVenue(venue("A", 45, 45))

	venues := g.Venues()
	require.Len(t, venues, 3)
	assert.Equal(t, "A", venues[0].ID)
	assert.Equal(t, 45.0, venues[0].Latitude, "last write wins")
}

func TestGraph_ConnectAll_MediumChange(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)
	fiber := g.Latency("A", "B")

	g.ConnectAll(domain.MediumSatellite)
	assert.Equal(t, domain.MediumSatellite, g.Medium())
	assert.Greater(t, g.Latency("A", "B"), fiber)
}

func TestGraph_AverageLatencyFrom(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)

	want := (g.Latency("B", "A") + g.Latency("B", "C")) / 2
	assert.InDelta(t, want, g.AverageLatencyFrom("B"), 1e-12)
	assert.Equal(t, 0.0, g.AverageLatencyFrom("ZZZ"))
}

func TestGraph_Stats(t *testing.T) {
	g := newEquatorGraph(domain.MediumFiber)
	stats := g.Stats()

	ab, ac, bc := g.Latency("A", "B"), g.Latency("A", "C"), g.Latency("B", "C")
	assert.InDelta(t, (ab+ac+bc)/3, stats.AvgLatencyMs, 1e-9)
	assert.Equal(t, ab, stats.MinLatencyMs)
	assert.Equal(t, ac, stats.MaxLatencyMs)
	assert.Greater(t, stats.AvgDistanceKm, 0.0)

	abEdge, ok := g.Edge("A", "B")
	require.True(t, ok)
	acEdge, ok := g.Edge("A", "C")
	require.True(t, ok)
	assert.Equal(t, abEdge.DistanceKm, stats.MinDistanceKm)
	assert.Equal(t, acEdge.DistanceKm, stats.MaxDistanceKm)
	assert.LessOrEqual(t, stats.MinDistanceKm, stats.AvgDistanceKm)
	assert.GreaterOrEqual(t, stats.MaxDistanceKm, stats.AvgDistanceKm)
}

func TestGraph_Stats_Empty(t *testing.T) {
	g := graph.New()
	g.ConnectAll(domain.MediumFiber)

	assert.Equal(t, domain.NetworkStats{}, g.Stats())

	g.AddVenue(venue("A", 0, 0))
	g.ConnectAll(domain.MediumFiber)
	stats := g.Stats()
	assert.Equal(t, 1, stats.Venues)
	assert.Equal(t, 0, stats.Connections)
	assert.Equal(t, 0.0, stats.MinLatencyMs)
	assert.Equal(t, 0.0, stats.MinDistanceKm)
}
