package domain

// LatencyEdge es la conexión derivada entre dos venues. No se persiste:
// el grafo la recalcula cuando cambia el registro o el medio.
type LatencyEdge struct {
	From       string
	To         string
	DistanceKm float64
	LatencyMs  float64 // one-way
	Medium     Medium
}

// RTT devuelve el round-trip de la arista.
func (e LatencyEdge) RTT() float64 {
	return e.LatencyMs * 2
}

// NetworkStats resume el conjunto de aristas del grafo.
// Conexiones = pares no dirigidos.
type NetworkStats struct {
	Venues        int
	Connections   int
	AvgDistanceKm float64
	MinDistanceKm float64
	MaxDistanceKm float64
	AvgLatencyMs  float64
	MinLatencyMs  float64
	MaxLatencyMs  float64
}
