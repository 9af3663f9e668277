package scanner

import (
	"math"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/ports"
	"github.com/google/uuid"
)

const (
	scoreProfitWeight = 10.0  // puntos por cada 1% de profit
	scoreLatencyCap   = 100.0 // ms: por encima, la latencia no aporta puntos
	scoreWindowDiv    = 100.0 // la ventana solo desempata
)

// Analyzer evalúa un par dirigido (compra, venta) con una configuración fija.
type Analyzer struct {
	cfg     Config
	latency ports.LatencyProvider
}

// NewAnalyzer crea un Analyzer con la configuración y el proveedor de latencias dados.
func NewAnalyzer(cfg Config, latency ports.LatencyProvider) *Analyzer {
	return &Analyzer{cfg: cfg, latency: latency}
}

// Evaluate calcula todas las métricas de comprar en buy y vender en sell.
//
// Fórmulas:
//
//	buyPrice   = ask(buy),  sellPrice = bid(sell)
//	profit%    = (sellPrice - buyPrice) / buyPrice × 100
//	rtt        = 2 × latency(buy, sell)
//	netProfit  = diff - 2 × buyPrice × fee% - buyPrice × slippage%
//	score      = 10 × profit% + max(0, 100 - latency) + window / 100
//
// Si profit% < umbral mínimo la oportunidad no es ejecutable y su score es 0,
// sin importar la latencia (filtro duro, no penalización).
func (a *Analyzer) Evaluate(buy, sell domain.Venue, buyQuote, sellQuote domain.PriceQuote) domain.ArbitrageOpportunity {
	opp := domain.ArbitrageOpportunity{
		ID:          uuid.New().String(),
		BuyVenueID:  buy.ID,
		SellVenueID: sell.ID,
		BuyPrice:    buyQuote.Ask,
		SellPrice:   sellQuote.Bid,
		WindowMs:    a.cfg.WindowMs,
		DetectedAt:  buyQuote.Timestamp,
	}

	opp.PriceDiff = opp.SellPrice - opp.BuyPrice
	if opp.BuyPrice != 0 {
		opp.ProfitPct = opp.PriceDiff / opp.BuyPrice * 100
	}

	opp.LatencyMs = a.latency.Latency(buy.ID, sell.ID)
	opp.RTTMs = opp.LatencyMs * 2
	opp.IsExecutable = opp.RTTMs < opp.WindowMs // NoPath (+Inf) nunca es ejecutable

	fees := opp.BuyPrice * (a.cfg.FeePercent / 100) * 2 // compra + venta
	slippage := opp.BuyPrice * (a.cfg.SlippagePercent / 100)
	opp.NetProfit = opp.PriceDiff - fees - slippage

	opp.Score = scoreProfitWeight*opp.ProfitPct +
		math.Max(0, scoreLatencyCap-opp.LatencyMs) +
		opp.WindowMs/scoreWindowDiv

	if opp.ProfitPct < a.cfg.MinProfitBps/100 {
		opp.IsExecutable = false
		opp.Score = 0
	}
	return opp
}
