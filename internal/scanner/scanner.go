package scanner

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/alejandrodnm/geoarb/internal/ports"
)

// Config contiene la configuración del scanner.
// Los cambios solo afectan a evaluaciones posteriores.
type Config struct {
	MinProfitBps    float64 // umbral mínimo de profit bruto, en bps
	FeePercent      float64 // fee por pata, en %
	SlippagePercent float64 // slippage sobre la pata de compra, en %
	WindowMs        float64 // duración media de una discrepancia
	Medium          domain.Medium
	Filter          FilterConfig
	Workers         int // goroutines para evaluación paralela (0 = NumCPU*2)
}

// DefaultConfig devuelve los parámetros por defecto del scanner.
func DefaultConfig() Config {
	return Config{
		MinProfitBps:    5.0,
		FeePercent:      0.1,
		SlippagePercent: 0.05,
		WindowMs:        200.0,
		Medium:          domain.MediumFiber,
		Filter:          DefaultFilterConfig(),
	}
}

// Scanner convierte cotizaciones + grafo en una lista ranqueada de oportunidades.
type Scanner struct {
	mu       sync.RWMutex
	cfg      Config
	network  ports.Network
	quotes   ports.QuoteProvider
	lastScan []domain.ArbitrageOpportunity
}

// New crea un Scanner con todas las dependencias inyectadas.
func New(cfg Config, network ports.Network, quotes ports.QuoteProvider) *Scanner {
	return &Scanner{
		cfg:     cfg,
		network: network,
		quotes:  quotes,
	}
}

// Evaluate evalúa un par dirigido con la configuración actual.
func (s *Scanner) Evaluate(buy, sell domain.Venue, buyQuote, sellQuote domain.PriceQuote) domain.ArbitrageOpportunity {
	return NewAnalyzer(s.Config(), s.network).Evaluate(buy, sell, buyQuote, sellQuote)
}

// ScanAll evalúa ambas direcciones de cada par de venues con cotización,
// filtra y devuelve el resultado ordenado por score descendente.
// El orden de empates es el de registro (sort estable).
func (s *Scanner) ScanAll() []domain.ArbitrageOpportunity {
	cfg := s.Config()
	analyzer := NewAnalyzer(cfg, s.network)

	venues := activeVenues(s.network.Venues())
	quotes := s.quotes.Quotes()

	var pairs []pair
	for i := 0; i < len(venues); i++ {
		a := venues[i]
		qa, ok := quotes[a.ID]
		if !ok {
			continue
		}
		for j := i + 1; j < len(venues); j++ {
			b := venues[j]
			qb, ok := quotes[b.ID]
			if !ok {
				continue
			}
			// La dirección no se asume: se evalúan las dos.
			pairs = append(pairs,
				pair{buy: a, sell: b, buyQuote: qa, sellQuote: qb},
				pair{buy: b, sell: a, buyQuote: qb, sellQuote: qa},
			)
		}
	}

	opps := evaluatePairsConcurrent(analyzer, pairs, cfg.Workers)
	evaluated := len(opps)
	ranked := rankByScore(NewFilter(cfg.Filter).Apply(opps))

	s.mu.Lock()
	s.lastScan = ranked
	s.mu.Unlock()

	slog.Debug("scan complete",
		"venues", len(venues),
		"evaluated", evaluated,
		"opportunities", len(ranked),
	)
	return ranked
}

// TopN devuelve las n mejores oportunidades de un escaneo completo.
func (s *Scanner) TopN(n int) []domain.ArbitrageOpportunity {
	if n <= 0 {
		return []domain.ArbitrageOpportunity{}
	}
	opps := s.ScanAll()
	if len(opps) > n {
		opps = opps[:n]
	}
	return opps
}

// Stats devuelve las estadísticas del último escaneo completo.
func (s *Scanner) Stats() domain.ScannerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStats(s.lastScan)
}

// computeStats agrega conteos, profit medio/máximo y latencia media.
func computeStats(opps []domain.ArbitrageOpportunity) domain.ScannerStats {
	stats := domain.ScannerStats{TotalOpportunities: len(opps)}
	if len(opps) == 0 {
		return stats
	}

	stats.MaxProfitPct = math.Inf(-1)
	for _, opp := range opps {
		if opp.IsExecutable {
			stats.ExecutableOpportunities++
		}
		stats.AvgProfitPct += opp.ProfitPct
		stats.MaxProfitPct = math.Max(stats.MaxProfitPct, opp.ProfitPct)
		stats.AvgLatencyMs += opp.LatencyMs
	}
	n := float64(len(opps))
	stats.AvgProfitPct /= n
	stats.AvgLatencyMs /= n
	return stats
}

// activeVenues descarta los venues marcados como inactivos.
func activeVenues(venues []domain.Venue) []domain.Venue {
	out := venues[:0:0]
	for _, v := range venues {
		if v.Active {
			out = append(out, v)
		}
	}
	return out
}

// rankByScore ordena por score descendente conservando el orden de entrada en empates.
func rankByScore(opps []domain.ArbitrageOpportunity) []domain.ArbitrageOpportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Score > opps[j].Score
	})
	return opps
}

// --- configuración ---

// Config devuelve una copia de la configuración actual.
func (s *Scanner) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetMinProfitBps cambia el umbral mínimo de profit (bps).
func (s *Scanner) SetMinProfitBps(bps float64) {
	s.mu.Lock()
	s.cfg.MinProfitBps = bps
	s.mu.Unlock()
}

// SetFeePercent cambia el fee por pata (%).
func (s *Scanner) SetFeePercent(pct float64) {
	s.mu.Lock()
	s.cfg.FeePercent = pct
	s.mu.Unlock()
}

// SetSlippagePercent cambia el slippage estimado (%).
func (s *Scanner) SetSlippagePercent(pct float64) {
	s.mu.Lock()
	s.cfg.SlippagePercent = pct
	s.mu.Unlock()
}

// SetWindowMs cambia la ventana media de oportunidad.
func (s *Scanner) SetWindowMs(ms float64) {
	s.mu.Lock()
	s.cfg.WindowMs = ms
	s.mu.Unlock()
}

// SetMedium registra el medio de transmisión. El grafo es dueño de las aristas:
// quien cambia el medio debe también reconectar el grafo (engine.SetMedium lo hace).
func (s *Scanner) SetMedium(m domain.Medium) {
	s.mu.Lock()
	s.cfg.Medium = m
	s.mu.Unlock()
}

// MinProfitBps devuelve el umbral mínimo de profit.
func (s *Scanner) MinProfitBps() float64 { return s.Config().MinProfitBps }

// FeePercent devuelve el fee por pata.
func (s *Scanner) FeePercent() float64 { return s.Config().FeePercent }

// SlippagePercent devuelve el slippage estimado.
func (s *Scanner) SlippagePercent() float64 { return s.Config().SlippagePercent }

// WindowMs devuelve la ventana media de oportunidad.
func (s *Scanner) WindowMs() float64 { return s.Config().WindowMs }

// Medium devuelve el medio de transmisión configurado.
func (s *Scanner) Medium() domain.Medium { return s.Config().Medium }
