package catalog

// json.go — catálogo de venues en formato JSON.
//
// Formato:
//
//	{"exchanges": [{"id": "NYSE", "name": "...", "city": "...", "lat": 40.7, "lon": -74.0, "type": "equity"}]}
//
// lat y lon son obligatorios; un venue sin coordenadas invalida el catálogo.
// Los campos fee_percent, min_profit_bps y active son opcionales; si faltan se
// usan los valores por defecto de domain.NewVenue.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// ErrMissingExchanges se devuelve cuando el documento no tiene la clave "exchanges".
var ErrMissingExchanges = errors.New("missing 'exchanges' field")

type document struct {
	Exchanges *[]venueJSON `json:"exchanges"`
}

type venueJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Type         string   `json:"type"`
	FeePercent   *float64 `json:"fee_percent,omitempty"`
	MinProfitBps *float64 `json:"min_profit_bps,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}

// JSONFile implementa ports.VenueSource leyendo un fichero JSON.
type JSONFile struct {
	path string
}

// NewJSONFile crea una fuente de venues sobre el fichero dado.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// LoadVenues abre y parsea el fichero.
func (f *JSONFile) LoadVenues(_ context.Context) ([]domain.Venue, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadVenues: open %q: %w", f.path, err)
	}
	defer file.Close()

	venues, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadVenues: %s: %w", f.path, err)
	}
	slog.Info("venues loaded", "source", f.path, "count", len(venues))
	return venues, nil
}

// Parse decodifica un documento de catálogo y valida cada venue.
// Un tipo desconocido no es fatal: se registra un warning y se usa Equity.
func Parse(r io.Reader) ([]domain.Venue, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Exchanges == nil {
		return nil, ErrMissingExchanges
	}

	venues := make([]domain.Venue, 0, len(*doc.Exchanges))
	for i, raw := range *doc.Exchanges {
		v, err := raw.toDomain()
		if err != nil {
			return nil, fmt.Errorf("exchange #%d: %w", i, err)
		}
		venues = append(venues, v)
	}
	return venues, nil
}

func (raw venueJSON) toDomain() (domain.Venue, error) {
	if raw.Lat == nil || raw.Lon == nil {
		return domain.Venue{}, fmt.Errorf("%w: %q missing lat/lon", domain.ErrInvalidVenue, raw.ID)
	}
	cat, err := domain.ParseCategory(raw.Type)
	if err != nil {
		slog.Warn("unknown venue type, using equity", "venue", raw.ID, "type", raw.Type)
	}

	v := domain.NewVenue(raw.ID, raw.Name, raw.City, *raw.Lat, *raw.Lon, cat)
	if raw.FeePercent != nil {
		v.FeePercent = *raw.FeePercent
	}
	if raw.MinProfitBps != nil {
		v.MinProfitBps = *raw.MinProfitBps
	}
	if raw.Active != nil {
		v.Active = *raw.Active
	}

	if err := v.Validate(); err != nil {
		return domain.Venue{}, err
	}
	return v, nil
}
