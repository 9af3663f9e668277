package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownMedium se devuelve al parsear un medio de transmisión desconocido.
var ErrUnknownMedium = errors.New("unknown transmission medium")

const (
	EarthRadiusKm     = 6371.0
	SpeedOfLightKmMs  = 299.792458 // km/ms (c en el vacío)
	FiberSpeedFactor  = 0.67
	MicrowaveFactor   = 0.99
	SatelliteOverhead = 250.0 // ms, relay geoestacionario
)

// NoPath es la latencia centinela cuando no hay arista entre dos venues.
var NoPath = math.Inf(1)

// IsNoPath devuelve true si la latencia es el centinela "sin camino" (o inválida).
func IsNoPath(latencyMs float64) bool {
	return math.IsInf(latencyMs, 1) || math.IsNaN(latencyMs)
}

// Medium es el medio físico de transmisión entre venues.
type Medium int

const (
	MediumFiber Medium = iota
	MediumMicrowave
	MediumSatellite
)

func (m Medium) String() string {
	switch m {
	case MediumFiber:
		return "Fiber Optic"
	case MediumMicrowave:
		return "Microwave"
	case MediumSatellite:
		return "Satellite"
	default:
		return "Unknown"
	}
}

// SpeedFactor devuelve la fracción de c a la que viaja la señal.
func (m Medium) SpeedFactor() float64 {
	if m == MediumFiber {
		return FiberSpeedFactor
	}
	return MicrowaveFactor
}

// ParseMedium acepta los valores de configuración: fiber | microwave | satellite.
func ParseMedium(s string) (Medium, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fiber", "fiber_optic", "fiber optic":
		return MediumFiber, nil
	case "microwave":
		return MediumMicrowave, nil
	case "satellite":
		return MediumSatellite, nil
	default:
		return MediumFiber, fmt.Errorf("%w: %q", ErrUnknownMedium, s)
	}
}

// Distance calcula la distancia de gran círculo en km (fórmula haversine).
// No valida rangos: coordenadas fuera de rango producen un número válido pero sin sentido.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// PropagationDelay devuelve la latencia one-way en ms para una distancia y medio.
//
// Fórmula: d / (c × factor) [+ 250ms si es satélite]
//
// Solo modela la línea recta escalada por el medio, no los desvíos de rutas terrestres.
func PropagationDelay(distanceKm float64, m Medium) float64 {
	delay := distanceKm / (SpeedOfLightKmMs * m.SpeedFactor())
	if m == MediumSatellite {
		delay += SatelliteOverhead
	}
	return delay
}

// RoundTrip devuelve el RTT, siempre exactamente 2× la latencia one-way.
func RoundTrip(distanceKm float64, m Medium) float64 {
	return 2 * PropagationDelay(distanceKm, m)
}

// VenueDistance devuelve la distancia en km entre dos venues.
func VenueDistance(a, b Venue) float64 {
	return Distance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// VenueLatency devuelve la latencia one-way entre dos venues.
func VenueLatency(a, b Venue, m Medium) float64 {
	return PropagationDelay(VenueDistance(a, b), m)
}

// IsArbitragePossible indica si el RTT cabe en la ventana y el gap es positivo.
func IsArbitragePossible(priceDiff, latencyMs, windowMs float64) bool {
	return latencyMs*2 < windowMs && priceDiff > 0
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
