package main

import (
	"context"
	"time"

	"github.com/alejandrodnm/geoarb/internal/adapters/notify"
	"github.com/alejandrodnm/geoarb/internal/colocation"
	"github.com/alejandrodnm/geoarb/internal/engine"
	"github.com/alejandrodnm/geoarb/internal/history"
	"github.com/alejandrodnm/geoarb/internal/ports"
	"github.com/alejandrodnm/geoarb/internal/scanner"
)

type reportInput struct {
	quotes    ports.QuoteProvider
	scanner   *scanner.Scanner
	optimizer *colocation.Optimizer
	recorder  *history.Recorder
	engine    *engine.Engine
	targets   []string
	top       int
	window    int
}

// printReport imprime el resumen de salida: mercado, scanner, co-location,
// historial y trading simulado.
func printReport(n *notify.Console, in reportInput) {
	n.PrintQuotes(in.quotes.Quotes())
	n.PrintScannerStats(in.scanner.Stats())

	if len(in.targets) > 0 {
		n.PrintColocation(in.optimizer.Optimize(in.targets))
		n.PrintTopLocations(in.optimizer.TopLocations(in.targets, in.top))
	}

	n.PrintWindowStats(in.recorder.WindowStats(in.window))
	n.PrintTradingStats(in.engine.Stats())
}

// runReplay reproduce el historial completo una vez, a 10 frames por segundo.
func runReplay(ctx context.Context, rec *history.Recorder, n *notify.Console) {
	total := rec.Len()
	if total == 0 {
		return
	}

	rec.Seek(0)
	rec.Start()
	defer rec.Stop()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; i < total; i++ {
		snap, ok := rec.NextFrame()
		if !ok {
			return
		}
		n.PrintReplayFrame(snap, i, total)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
