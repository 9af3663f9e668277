package ports

import (
	"context"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// VenueSource carga el catálogo de venues desde un colaborador externo (JSON, SQLite).
// Es responsable de rechazar entradas malformadas antes de construir el Venue.
type VenueSource interface {
	LoadVenues(ctx context.Context) ([]domain.Venue, error)
}

// VenueRegistry da acceso de solo lectura a los venues cargados, en orden de registro.
type VenueRegistry interface {
	Venue(id string) (domain.Venue, bool)
	Venues() []domain.Venue
}
