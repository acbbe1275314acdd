package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/message"

	"github.com/jhoicas/granite-api/internal/application/dto"
)

// standTable ocupación por stand con fila de totales. Números con el formato del idioma.
func standTable(p *message.Printer, stands []dto.StandOccupancyResponse) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Stand", "Capacidad", "Usadas", "Libres", "Cobertura", "Banda"})

	var capacity, used, available int
	for _, s := range stands {
		tw.AppendRow(table.Row{
			s.Label,
			p.Sprintf("%d", s.MaxCapacity),
			p.Sprintf("%d", s.Used),
			p.Sprintf("%d", s.Available),
			s.Coverage.StringFixed(2),
			s.Band,
		})
		capacity += s.MaxCapacity
		used += s.Used
		available += s.Available
	}
	tw.AppendFooter(table.Row{
		p.Sprintf("%d stands", len(stands)),
		p.Sprintf("%d", capacity),
		p.Sprintf("%d", used),
		p.Sprintf("%d", available),
		"",
		"",
	})

	right := []string{"Capacidad", "Usadas", "Libres", "Cobertura"}
	configs := make([]table.ColumnConfig, 0, len(right))
	for _, name := range right {
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// qualityTable losas por calidad ordenadas por nombre; vacío si no hay stock.
func qualityTable(p *message.Printer, dist map[string]int) string {
	if len(dist) == 0 {
		return ""
	}
	qualities := make([]string, 0, len(dist))
	for q := range dist {
		qualities = append(qualities, q)
	}
	sort.Strings(qualities)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Calidad", "Losas"})
	for _, q := range qualities {
		tw.AppendRow(table.Row{q, p.Sprintf("%d", dist[q])})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Name: "Losas", Align: text.AlignRight}})
	return tw.Render()
}
