package notify

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/geoarb/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// PrintVenues imprime el catálogo cargado en orden de registro.
func (c *Console) PrintVenues(venues []domain.Venue) {
	fmt.Fprintf(c.out, "\n── VENUES (%d) ──\n", len(venues))

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "City", "Type", "Lat", "Lon", "Fee%", "Active")
	for _, v := range venues {
		table.Append(
			v.ID,
			truncate(v.Name, 30),
			v.City,
			v.Category.String(),
			fmt.Sprintf("%.4f", v.Latitude),
			fmt.Sprintf("%.4f", v.Longitude),
			fmt.Sprintf("%.3f", v.FeePercent),
			execLabel(v.Active),
		)
	}
	table.Render()
}

// PrintQuotes imprime la última cotización de cada venue, ordenadas por id.
func (c *Console) PrintQuotes(quotes map[string]domain.PriceQuote) {
	ids := make([]string, 0, len(quotes))
	for id := range quotes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(c.out, "\n── QUOTES ──\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("Venue", "Symbol", "Bid", "Ask", "Spread bps", "Volume")
	for _, id := range ids {
		q := quotes[id]
		table.Append(
			id,
			q.Symbol,
			fmt.Sprintf("%.2f", q.Bid),
			fmt.Sprintf("%.2f", q.Ask),
			fmt.Sprintf("%.2f", q.SpreadBps()),
			fmt.Sprintf("%.0f", q.Volume),
		)
	}
	table.Render()
}

// PrintNetwork imprime el resumen del grafo de latencias.
func (c *Console) PrintNetwork(stats domain.NetworkStats, medium domain.Medium) {
	fmt.Fprintf(c.out, "\n── NETWORK (%s) ──\n", medium)
	fmt.Fprintf(c.out, "  Venues:       %d\n", stats.Venues)
	fmt.Fprintf(c.out, "  Connections:  %d\n", stats.Connections)
	fmt.Fprintf(c.out, "  Distance:     avg %.0f km  min %.0f km  max %.0f km\n",
		stats.AvgDistanceKm, stats.MinDistanceKm, stats.MaxDistanceKm)
	fmt.Fprintf(c.out, "  Latency:      avg %s  min %s  max %s\n",
		formatMs(stats.AvgLatencyMs), formatMs(stats.MinLatencyMs), formatMs(stats.MaxLatencyMs))
}

// PrintColocation imprime la ubicación óptima y la latencia a cada target.
func (c *Console) PrintColocation(result domain.ColocationResult) {
	fmt.Fprintf(c.out, "\n── CO-LOCATION ──\n")
	if !result.Valid() {
		fmt.Fprintln(c.out, "  no candidate reaches every target")
		return
	}

	fmt.Fprintf(c.out, "  Optimal location: %s\n", result.OptimalID)
	fmt.Fprintf(c.out, "  Total latency:    %s\n", formatMs(result.TotalLatencyMs))
	fmt.Fprintf(c.out, "  Avg latency:      %s\n", formatMs(result.AvgLatencyMs))
	fmt.Fprintf(c.out, "  Min / max:        %s / %s\n", formatMs(result.MinLatencyMs), formatMs(result.MaxLatencyMs))
	fmt.Fprintf(c.out, "  Improvement:      %.1f%% vs worst location\n", result.ImprovementPercent)

	targets := make([]string, 0, len(result.LatencyToTargets))
	for id := range result.LatencyToTargets {
		targets = append(targets, id)
	}
	sort.Strings(targets)

	table := tablewriter.NewWriter(c.out)
	table.Header("Target", "Latency")
	for _, id := range targets {
		table.Append(id, formatMs(result.LatencyToTargets[id]))
	}
	table.Render()
}

// PrintTopLocations imprime el ranking de candidatos.
func (c *Console) PrintTopLocations(results []domain.ColocationResult) {
	fmt.Fprintf(c.out, "\n── TOP LOCATIONS (%d) ──\n", len(results))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Venue", "Total", "Avg", "Max")
	for i, r := range results {
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.OptimalID,
			formatMs(r.TotalLatencyMs),
			formatMs(r.AvgLatencyMs),
			formatMs(r.MaxLatencyMs),
		)
	}
	table.Render()
}
