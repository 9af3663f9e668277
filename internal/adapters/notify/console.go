package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
// table=false imprime una línea compacta por ciclo.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table, now: time.Now}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, now: time.Now}
}

// Notify imprime las oportunidades en el modo configurado.
func (c *Console) Notify(_ context.Context, opportunities []domain.ArbitrageOpportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found\n", c.stamp())
		return nil
	}

	if c.table {
		c.printFull(opportunities)
	} else {
		c.printCompact(opportunities)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.ArbitrageOpportunity) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d opps → exec:%d", c.stamp(), len(opps), countExecutable(opps))

	for i, opp := range opps {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, " | %s %+.3f%% net$%.2f %s",
			opp.Route(), opp.ProfitPct, opp.NetProfit, formatMs(opp.LatencyMs))
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de oportunidades ranqueadas.
func (c *Console) printFull(opps []domain.ArbitrageOpportunity) {
	fmt.Fprintf(c.out, "\n[%s] %d opportunities — executable:%d\n",
		c.stamp(), len(opps), countExecutable(opps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Route", "Buy", "Sell", "Profit%", "Latency", "RTT", "Net $", "Exec", "Score")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Route(),
			fmt.Sprintf("%.2f", opp.BuyPrice),
			fmt.Sprintf("%.2f", opp.SellPrice),
			fmt.Sprintf("%.4f", opp.ProfitPct),
			formatMs(opp.LatencyMs),
			formatMs(opp.RTTMs),
			fmt.Sprintf("%.2f", opp.NetProfit),
			execLabel(opp.IsExecutable),
			fmt.Sprintf("%.1f", opp.Score),
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  Exec = RTT dentro de la ventana y profit sobre el umbral")
}

// PrintScannerStats imprime el resumen del último escaneo.
func (c *Console) PrintScannerStats(stats domain.ScannerStats) {
	fmt.Fprintf(c.out, "\n── SCANNER ──\n")
	fmt.Fprintf(c.out, "  Opportunities: %d (%d executable)\n",
		stats.TotalOpportunities, stats.ExecutableOpportunities)
	fmt.Fprintf(c.out, "  Avg profit:    %.4f%%  max %.4f%%\n", stats.AvgProfitPct, stats.MaxProfitPct)
	fmt.Fprintf(c.out, "  Avg latency:   %s\n", formatMs(stats.AvgLatencyMs))
}

func (c *Console) stamp() string {
	return c.now().Format("15:04:05")
}

func countExecutable(opps []domain.ArbitrageOpportunity) int {
	n := 0
	for _, opp := range opps {
		if opp.IsExecutable {
			n++
		}
	}
	return n
}

func execLabel(ok bool) string {
	if ok {
		return "YES"
	}
	return "no"
}

// formatMs muestra NoPath como "n/a" en lugar de "+Inf".
func formatMs(ms float64) string {
	if domain.IsNoPath(ms) {
		return "n/a"
	}
	return fmt.Sprintf("%.2fms", ms)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
