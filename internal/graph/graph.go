package graph

// graph.go — registro de venues + caché de latencias punto a punto.
//
// El grafo siempre es completo: ConnectAll crea una arista en cada dirección
// para cada par de venues. Por eso Latency es un lookup directo O(1) y no una
// búsqueda de camino mínimo. Si un par no tiene arista (IDs desconocidos, o
// venues añadidos después del último ConnectAll) la respuesta es domain.NoPath.

import (
	"log/slog"
	"math"
	"sync"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// edgeKey es el par ordenado (from, to).
type edgeKey struct {
	from, to string
}

// Graph implementa ports.Network.
type Graph struct {
	mu     sync.RWMutex
	order  []string // orden de registro
	venues map[string]domain.Venue
	edges  map[edgeKey]domain.LatencyEdge
	pairs  []domain.LatencyEdge // una dirección por par, para estadísticas
	medium domain.Medium
}

// New crea un grafo vacío.
func New() *Graph {
	return &Graph{
		venues: make(map[string]domain.Venue),
		edges:  make(map[edgeKey]domain.LatencyEdge),
	}
}

// AddVenue inserta un venue. Reinsertar un ID existente lo sobreescribe
// (last write wins) y conserva su posición en el orden de registro.
// No invalida las aristas: hay que volver a llamar a ConnectAll.
func (g *Graph) AddVenue(v domain.Venue) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.venues[v.ID]; exists {
		slog.Debug("venue overwritten", "id", v.ID)
	} else {
		g.order = append(g.order, v.ID)
	}
	g.venues[v.ID] = v
}

// Venue devuelve el venue con el ID dado.
func (g *Graph) Venue(id string) (domain.Venue, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.venues[id]
	return v, ok
}

// Venues devuelve una copia de los venues en orden de registro.
func (g *Graph) Venues() []domain.Venue {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Venue, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.venues[id])
	}
	return out
}

// Len devuelve el número de venues registrados.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Medium devuelve el medio usado en el último ConnectAll.
func (g *Graph) Medium() domain.Medium {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.medium
}

// ConnectAll recalcula el conjunto completo de aristas bidireccionales
// para los venues actuales y el medio dado. O(n²).
func (g *Graph) ConnectAll(medium domain.Medium) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.order)
	g.medium = medium
	g.edges = make(map[edgeKey]domain.LatencyEdge, n*(n-1))
	g.pairs = make([]domain.LatencyEdge, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		a := g.venues[g.order[i]]
		for j := i + 1; j < n; j++ {
			b := g.venues[g.order[j]]
			dist := domain.VenueDistance(a, b)
			lat := domain.PropagationDelay(dist, medium)

			fwd := domain.LatencyEdge{From: a.ID, To: b.ID, DistanceKm: dist, LatencyMs: lat, Medium: medium}
			rev := domain.LatencyEdge{From: b.ID, To: a.ID, DistanceKm: dist, LatencyMs: lat, Medium: medium}
			g.edges[edgeKey{a.ID, b.ID}] = fwd
			g.edges[edgeKey{b.ID, a.ID}] = rev
			g.pairs = append(g.pairs, fwd)
		}
	}

	slog.Debug("graph connected",
		"venues", n,
		"connections", len(g.pairs),
		"medium", medium.String(),
	)
}

// Latency devuelve la latencia one-way cacheada, o domain.NoPath.
func (g *Graph) Latency(fromID, toID string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[edgeKey{fromID, toID}]
	if !ok {
		return domain.NoPath
	}
	return e.LatencyMs
}

// Edge devuelve la arista dirigida entre dos venues.
func (g *Graph) Edge(fromID, toID string) (domain.LatencyEdge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[edgeKey{fromID, toID}]
	return e, ok
}

// AverageLatencyFrom devuelve la latencia media desde un venue al resto,
// ignorando los inalcanzables. 0 si no hay conexiones.
func (g *Graph) AverageLatencyFrom(id string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total, count := 0.0, 0
	for _, other := range g.order {
		if other == id {
			continue
		}
		e, ok := g.edges[edgeKey{id, other}]
		if !ok || domain.IsNoPath(e.LatencyMs) {
			continue
		}
		total += e.LatencyMs
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Stats devuelve las estadísticas del conjunto de aristas.
// Todo a cero (salvo Venues) si no hay aristas.
func (g *Graph) Stats() domain.NetworkStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := domain.NetworkStats{
		Venues:      len(g.order),
		Connections: len(g.pairs),
	}
	if len(g.pairs) == 0 {
		return stats
	}

	totalDist, totalLat := 0.0, 0.0
	stats.MinLatencyMs = math.Inf(1)
	stats.MinDistanceKm = math.Inf(1)
	for _, e := range g.pairs {
		totalDist += e.DistanceKm
		totalLat += e.LatencyMs
		stats.MinDistanceKm = math.Min(stats.MinDistanceKm, e.DistanceKm)
		stats.MaxDistanceKm = math.Max(stats.MaxDistanceKm, e.DistanceKm)
		stats.MinLatencyMs = math.Min(stats.MinLatencyMs, e.LatencyMs)
		stats.MaxLatencyMs = math.Max(stats.MaxLatencyMs, e.LatencyMs)
	}
	n := float64(len(g.pairs))
	stats.AvgDistanceKm = totalDist / n
	stats.AvgLatencyMs = totalLat / n
	return stats
}
