package domain

// ArbitrageOpportunity es el resultado de evaluar un par (buy venue, sell venue).
// Es un valor: no se muta después de construido.
type ArbitrageOpportunity struct {
	ID           string
	BuyVenueID   string
	SellVenueID  string
	BuyPrice     float64 // ask del venue de compra
	SellPrice    float64 // bid del venue de venta
	PriceDiff    float64 // SellPrice - BuyPrice
	ProfitPct    float64 // PriceDiff / BuyPrice × 100, antes de fees
	LatencyMs    float64 // one-way
	RTTMs        float64
	WindowMs     float64 // duración estimada de la discrepancia
	NetProfit    float64 // PriceDiff - fees (ambas patas) - slippage
	IsExecutable bool    // RTT < ventana y profit >= umbral
	Score        float64
	DetectedAt   int64 // ms desde epoch
}

// Route devuelve "BUY → SELL" para presentación.
func (o ArbitrageOpportunity) Route() string {
	return o.BuyVenueID + " → " + o.SellVenueID
}

// Profitable devuelve true si la oportunidad es ejecutable y deja profit neto.
func (o ArbitrageOpportunity) Profitable() bool {
	return o.IsExecutable && o.NetProfit > 0
}

// ScannerStats resume el último escaneo completo.
type ScannerStats struct {
	TotalOpportunities      int
	ExecutableOpportunities int
	AvgProfitPct            float64
	MaxProfitPct            float64
	AvgLatencyMs            float64
}

// OpportunitySnapshot es el registro inmutable de un tick de grabación.
type OpportunitySnapshot struct {
	ID              string
	Timestamp       int64 // ms desde epoch
	Opportunities   []ArbitrageOpportunity
	TotalCount      int
	ExecutableCount int
	AvgProfit       float64 // media de NetProfit
	MaxProfit       float64 // pico de NetProfit
}

// WindowStats agrega las últimas N snapshots del historial.
type WindowStats struct {
	Snapshots                   int
	TotalOpportunities          int
	AvgOpportunitiesPerSnapshot float64
	AvgProfit                   float64
	TotalPotentialProfit        float64 // suma de MaxProfit por snapshot
	MostActiveIndex             int     // índice en el buffer de la snapshot con más oportunidades
}
