package scanner

// concurrent.go — worker pool para evaluar pares dirigidos en paralelo.
//
// Con N venues hay N×(N-1) evaluaciones por escaneo. Cada resultado se escribe
// en la posición de su par, así el orden de salida es el mismo que el de
// entrada sin importar qué worker termine antes.

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// pair es un par dirigido listo para evaluar.
type pair struct {
	buy, sell           domain.Venue
	buyQuote, sellQuote domain.PriceQuote
}

// evaluatePairsConcurrent evalúa todos los pares usando un worker pool.
// Si workers <= 0 usa runtime.NumCPU() × 2.
func evaluatePairsConcurrent(analyzer *Analyzer, pairs []pair, workers int) []domain.ArbitrageOpportunity {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	workers = min(workers, len(pairs))

	opps := make([]domain.ArbitrageOpportunity, len(pairs))
	workCh := make(chan int, len(pairs))

	// Worker pool: cada worker toma índices de workCh y escribe en su hueco.
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				p := pairs[idx]
				opps[idx] = analyzer.Evaluate(p.buy, p.sell, p.buyQuote, p.sellQuote)
			}
		}()
	}

	for idx := range pairs {
		workCh <- idx
	}
	close(workCh)
	wg.Wait()

	slog.Debug("concurrent evaluation complete",
		"pairs", len(pairs),
		"workers", workers,
	)
	return opps
}
