package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidVenue se devuelve cuando un venue no pasa la validación de carga.
	ErrInvalidVenue = errors.New("invalid venue")
	// ErrUnknownCategory se devuelve al parsear una categoría fuera del conjunto cerrado.
	ErrUnknownCategory = errors.New("unknown venue category")
)

const (
	defaultFeePercent   = 0.1 // 0.1% por operación
	defaultMinProfitBps = 5.0
)

// Category clasifica el tipo de venue. Conjunto cerrado.
type Category int

const (
	CategoryEquity Category = iota
	CategoryDerivatives
	CategoryCrypto
	CategoryForex
)

func (c Category) String() string {
	switch c {
	case CategoryEquity:
		return "Equity"
	case CategoryDerivatives:
		return "Derivatives"
	case CategoryCrypto:
		return "Crypto"
	case CategoryForex:
		return "Forex"
	default:
		return "Unknown"
	}
}

// ParseCategory convierte el tipo textual del catálogo ("equity", "crypto", ...).
// Un valor desconocido devuelve CategoryEquity junto con ErrUnknownCategory,
// el loader decide si es fatal.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equity":
		return CategoryEquity, nil
	case "derivatives":
		return CategoryDerivatives, nil
	case "crypto":
		return CategoryCrypto, nil
	case "forex":
		return CategoryForex, nil
	default:
		return CategoryEquity, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Venue es un centro de negociación con su posición geográfica.
// Inmutable después de la carga; el resto de componentes lo referencian por ID.
type Venue struct {
	ID        string
	Name      string
	City      string
	Latitude  float64 // [-90, 90]
	Longitude float64 // [-180, 180]
	Category  Category

	FeePercent   float64 // fee por operación, en %
	MinProfitBps float64 // profit mínimo en basis points
	Active       bool
}

// NewVenue crea un Venue con los parámetros de trading por defecto.
func NewVenue(id, name, city string, lat, lon float64, cat Category) Venue {
	return Venue{
		ID:           id,
		Name:         name,
		City:         city,
		Latitude:     lat,
		Longitude:    lon,
		Category:     cat,
		FeePercent:   defaultFeePercent,
		MinProfitBps: defaultMinProfitBps,
		Active:       true,
	}
}

// Validate comprueba ID y rangos de coordenadas.
// Los loaders deben llamarlo antes de entregar el venue al registro.
func (v Venue) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidVenue)
	}
	if v.Latitude < -90 || v.Latitude > 90 {
		return fmt.Errorf("%w: %s latitude %.4f out of range", ErrInvalidVenue, v.ID, v.Latitude)
	}
	if v.Longitude < -180 || v.Longitude > 180 {
		return fmt.Errorf("%w: %s longitude %.4f out of range", ErrInvalidVenue, v.ID, v.Longitude)
	}
	return nil
}
