package ports

// LatencyProvider responde latencias one-way punto a punto.
// Devuelve domain.NoPath si alguno de los IDs es desconocido o no hay arista.
type LatencyProvider interface {
	Latency(fromID, toID string) float64
}

// Network es el registro de venues junto con sus latencias (el grafo completo).
type Network interface {
	VenueRegistry
	LatencyProvider
}
