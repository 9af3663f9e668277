package notify

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// PrintWindowStats imprime el agregado de las últimas snapshots.
func (c *Console) PrintWindowStats(stats domain.WindowStats) {
	fmt.Fprintf(c.out, "\n── HISTORY (last %d snapshots) ──\n", stats.Snapshots)
	if stats.Snapshots == 0 {
		fmt.Fprintln(c.out, "  (empty)")
		return
	}
	fmt.Fprintf(c.out, "  Opportunities:    %d (%.1f per snapshot)\n",
		stats.TotalOpportunities, stats.AvgOpportunitiesPerSnapshot)
	fmt.Fprintf(c.out, "  Avg net profit:   $%.2f\n", stats.AvgProfit)
	fmt.Fprintf(c.out, "  Potential profit: $%.2f\n", stats.TotalPotentialProfit)
	fmt.Fprintf(c.out, "  Most active:      #%d\n", stats.MostActiveIndex)
}

// PrintReplayFrame imprime una snapshot reproducida desde el historial.
func (c *Console) PrintReplayFrame(snap domain.OpportunitySnapshot, index, total int) {
	at := time.UnixMilli(snap.Timestamp).Format("15:04:05.000")
	fmt.Fprintf(c.out, "[replay %d/%d %s] %d opps exec:%d avg$%.2f max$%.2f\n",
		index+1, total, at, snap.TotalCount, snap.ExecutableCount, snap.AvgProfit, snap.MaxProfit)
}

// PrintTradingStats imprime el ledger de ejecuciones simuladas.
func (c *Console) PrintTradingStats(stats domain.TradingStats) {
	fmt.Fprintf(c.out, "\n── SIMULATED TRADING ──\n")
	fmt.Fprintf(c.out, "  Trades:       %d (%d successful, %.1f%%)\n",
		stats.TotalTrades, stats.SuccessfulTrades, stats.SuccessRate())
	fmt.Fprintf(c.out, "  Total profit: $%.2f\n", stats.TotalProfit)
	if stats.BestTradeRoute != "" {
		fmt.Fprintf(c.out, "  Best trade:   %s $%.2f\n", stats.BestTradeRoute, stats.BestTradeProfit)
	}
}
