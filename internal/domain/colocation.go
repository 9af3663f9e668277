package domain

import "math"

// ColocationResult es la evaluación de un candidato de co-location contra un conjunto de targets.
// Se recalcula en cada llamada, nunca se cachea.
type ColocationResult struct {
	OptimalID          string
	TotalLatencyMs     float64
	AvgLatencyMs       float64
	MinLatencyMs       float64
	MaxLatencyMs       float64
	LatencyToTargets   map[string]float64
	ImprovementPercent float64 // vs el peor candidato válido
}

// EmptyColocation devuelve el resultado centinela: sin candidato y latencia infinita.
func EmptyColocation() ColocationResult {
	return ColocationResult{
		TotalLatencyMs:   math.Inf(1),
		MinLatencyMs:     math.Inf(1),
		LatencyToTargets: map[string]float64{},
	}
}

// Valid devuelve true si el resultado tiene un candidato elegido.
func (r ColocationResult) Valid() bool {
	return r.OptimalID != "" && !math.IsInf(r.TotalLatencyMs, 1)
}
