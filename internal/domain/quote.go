package domain

// PriceQuote es la cotización de un venue en un instante.
// Invariante: Ask >= Bid (el generador siempre aplica el spread simétrico alrededor del mid).
type PriceQuote struct {
	VenueID   string
	Symbol    string
	Bid       float64
	Ask       float64
	Last      float64
	Volume    float64
	Timestamp int64 // ms desde epoch
}

// Spread devuelve ask - bid.
func (q PriceQuote) Spread() float64 {
	return q.Ask - q.Bid
}

// Mid devuelve el precio medio entre bid y ask.
func (q PriceQuote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// SpreadBps devuelve el spread relativo al mid en basis points.
// Devuelve 0 si el mid no es positivo.
func (q PriceQuote) SpreadBps() float64 {
	mid := q.Mid()
	if mid <= 0 {
		return 0
	}
	return q.Spread() / mid * 10_000
}
