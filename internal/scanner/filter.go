package scanner

import (
	"github.com/alejandrodnm/geoarb/internal/domain"
)

// FilterConfig contiene los criterios de retención de un escaneo.
type FilterConfig struct {
	// RequireExecutable descarta oportunidades cuyo RTT no cabe en la ventana.
	RequireExecutable bool
	// MinNetProfit descarta oportunidades con profit neto <= este valor.
	MinNetProfit float64
}

// DefaultFilterConfig conserva solo lo ejecutable con profit neto estrictamente positivo.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		RequireExecutable: true,
		MinNetProfit:      0,
	}
}

// Filter aplica los filtros configurados sobre una lista de oportunidades.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve las oportunidades que pasan todos los filtros.
func (f *Filter) Apply(opps []domain.ArbitrageOpportunity) []domain.ArbitrageOpportunity {
	result := make([]domain.ArbitrageOpportunity, 0, len(opps))
	for _, opp := range opps {
		if f.passes(opp) {
			result = append(result, opp)
		}
	}
	return result
}

// passes devuelve true si la oportunidad supera todos los criterios.
func (f *Filter) passes(opp domain.ArbitrageOpportunity) bool {
	if f.cfg.RequireExecutable && !opp.IsExecutable {
		return false
	}
	return opp.NetProfit > f.cfg.MinNetProfit
}
