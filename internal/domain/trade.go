package domain

// TradingStats acumula las ejecuciones simuladas sobre oportunidades detectadas.
type TradingStats struct {
	TotalTrades      int
	SuccessfulTrades int
	TotalProfit      float64
	BestTradeProfit  float64
	BestTradeRoute   string
}

// SuccessRate devuelve el % de trades con profit positivo (0 si no hay trades).
func (s TradingStats) SuccessRate() float64 {
	if s.TotalTrades == 0 {
		return 0
	}
	return float64(s.SuccessfulTrades) / float64(s.TotalTrades) * 100
}

// Apply registra la ejecución simulada de una oportunidad.
// Solo los trades con profit positivo cuentan como exitosos y pueden ser el mejor trade.
func (s *TradingStats) Apply(opp ArbitrageOpportunity) {
	s.TotalTrades++
	s.TotalProfit += opp.NetProfit
	if opp.NetProfit <= 0 {
		return
	}
	s.SuccessfulTrades++
	if opp.NetProfit > s.BestTradeProfit {
		s.BestTradeProfit = opp.NetProfit
		s.BestTradeRoute = opp.Route()
	}
}
