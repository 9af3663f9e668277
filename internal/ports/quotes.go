package ports

import "github.com/alejandrodnm/geoarb/internal/domain"

// QuoteProvider expone las cotizaciones actuales por venue.
type QuoteProvider interface {
	// Quote devuelve la cotización de un venue, false si no existe.
	Quote(venueID string) (domain.PriceQuote, bool)
	// Quotes devuelve una copia de todas las cotizaciones actuales.
	Quotes() map[string]domain.PriceQuote
}
