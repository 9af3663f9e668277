package colocation

// optimizer.go — elige dónde colocar un nodo para minimizar la latencia
// agregada a un conjunto de venues objetivo.
//
// Cada venue del registro es candidato (no tiene que ser uno de los targets).
// Un candidato con algún target inalcanzable queda descalificado.
// Empates: gana el primer candidato mínimo en orden de registro.

import (
	"math"
	"sort"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/ports"
)

// Optimizer busca el punto de co-location sobre el grafo de venues.
type Optimizer struct {
	network ports.Network
}

// New crea un Optimizer sobre la red dada.
func New(network ports.Network) *Optimizer {
	return &Optimizer{network: network}
}

// Optimize devuelve el candidato con menor latencia total a los targets.
// Sin targets, o sin candidatos válidos, devuelve domain.EmptyColocation().
func (o *Optimizer) Optimize(targetIDs []string) domain.ColocationResult {
	result := domain.EmptyColocation()
	if len(targetIDs) == 0 {
		return result
	}

	worst := 0.0
	for _, candidate := range o.network.Venues() {
		eval, ok := o.evaluate(candidate.ID, targetIDs)
		if !ok {
			continue
		}
		worst = math.Max(worst, eval.TotalLatencyMs)

		// estrictamente menor: el primero en orden de registro gana los empates
		if eval.TotalLatencyMs < result.TotalLatencyMs {
			result = eval
		}
	}

	if worst > 0 && result.TotalLatencyMs < worst {
		result.ImprovementPercent = (worst - result.TotalLatencyMs) / worst * 100
	}
	return result
}

// TopLocations devuelve hasta n candidatos válidos ordenados por latencia total ascendente.
func (o *Optimizer) TopLocations(targetIDs []string, n int) []domain.ColocationResult {
	results := []domain.ColocationResult{}
	if len(targetIDs) == 0 || n <= 0 {
		return results
	}

	for _, candidate := range o.network.Venues() {
		if eval, ok := o.evaluate(candidate.ID, targetIDs); ok {
			results = append(results, eval)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalLatencyMs < results[j].TotalLatencyMs
	})

	if len(results) > n {
		results = results[:n]
	}
	return results
}

// evaluate calcula las latencias de un candidato a todos los targets.
// Devuelve false si algún target es inalcanzable.
func (o *Optimizer) evaluate(candidateID string, targetIDs []string) (domain.ColocationResult, bool) {
	r := domain.ColocationResult{
		OptimalID:        candidateID,
		MinLatencyMs:     math.Inf(1),
		LatencyToTargets: make(map[string]float64, len(targetIDs)),
	}

	for _, target := range targetIDs {
		lat := o.latency(candidateID, target)
		if domain.IsNoPath(lat) {
			return domain.ColocationResult{}, false
		}
		r.TotalLatencyMs += lat
		r.MinLatencyMs = math.Min(r.MinLatencyMs, lat)
		r.MaxLatencyMs = math.Max(r.MaxLatencyMs, lat)
		r.LatencyToTargets[target] = lat
	}

	r.AvgLatencyMs = r.TotalLatencyMs / float64(len(targetIDs))
	return r, true
}

// latency trata al propio candidato como alcanzable a 0ms.
func (o *Optimizer) latency(from, to string) float64 {
	if from == to {
		if _, ok := o.network.Venue(from); ok {
			return 0
		}
	}
	return o.network.Latency(from, to)
}
