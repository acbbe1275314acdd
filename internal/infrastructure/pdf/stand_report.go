// Package pdf genera el reporte de ocupación de stands con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + título        │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: capacidad total / usada / disponible / cobertura  │
//	│  CALIDADES: losas por calidad    │  BANDAS: stands por banda│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Stand | Capacidad | Usadas | Libres | % | Banda     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/domain/measurement"
)

var _ inventory.StandReportGenerator = (*MarotoStandReport)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}

	bandColors = map[string]*props.Color{
		measurement.BandNominal:  {Red: 46, Green: 125, Blue: 50},
		measurement.BandModerate: {Red: 180, Green: 140, Blue: 0},
		measurement.BandHigh:     {Red: 230, Green: 100, Blue: 0},
		measurement.BandCritical: {Red: 198, Green: 40, Blue: 40},
	}
	bandOrder = []string{
		measurement.BandNominal, measurement.BandModerate, measurement.BandHigh, measurement.BandCritical,
	}
)

// MarotoStandReport implementa inventory.StandReportGenerator usando Maroto v2.
type MarotoStandReport struct {
	company string
	printer *message.Printer
}

// NewMarotoStandReport construye el generador. lang define el formato de números (separador de miles).
func NewMarotoStandReport(company string, lang language.Tag) *MarotoStandReport {
	return &MarotoStandReport{company: company, printer: message.NewPrinter(lang)}
}

// GenerateStandReport genera el PDF y devuelve sus bytes.
func (g *MarotoStandReport) GenerateStandReport(
	_ context.Context,
	summary *dto.StandSummaryResponse,
	stands []dto.StandOccupancyResponse,
) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("pdf: resumen vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ocupación de stands", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(summary))
	m.AddRows(g.distributionRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.standRows(stands) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoStandReport) headerRow(summary *dto.StandSummaryResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Reporte de ocupación de stands", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(summary.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{Size: 9, Align: align.Right, Top: 7}),
		),
	)
}

func (g *MarotoStandReport) summaryRow(s *dto.StandSummaryResponse) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Top: 7}),
		)
	}
	return row.New(18).Add(
		cell("CAPACIDAD TOTAL", g.printer.Sprintf("%d losas", s.TotalCapacity)),
		cell("USADA", g.printer.Sprintf("%d losas", s.UsedCapacity)),
		cell("DISPONIBLE", g.printer.Sprintf("%d losas", s.AvailableCapacity)),
		cell("COBERTURA", g.percent(s.Coverage)),
	)
}

func (g *MarotoStandReport) distributionRow(s *dto.StandSummaryResponse) core.Row {
	qualities := make([]string, 0, len(s.QualityDistribution))
	for q := range s.QualityDistribution {
		qualities = append(qualities, q)
	}
	sort.Strings(qualities)

	left := []core.Component{
		text.New("LOSAS POR CALIDAD", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	}
	for i, q := range qualities {
		left = append(left, text.New(g.printer.Sprintf("%s: %d", q, s.QualityDistribution[q]),
			props.Text{Size: 8, Top: float64(6 + 4*i), Color: colorGray}))
	}

	right := []core.Component{
		text.New("STANDS POR BANDA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	}
	for i, b := range bandOrder {
		right = append(right, text.New(g.printer.Sprintf("%s: %d", b, s.Bands[b]),
			props.Text{Size: 8, Top: float64(6 + 4*i), Color: bandColors[b]}))
	}
	right = append(right, text.New(
		g.printer.Sprintf("Área total: %s ft² · %d/%d stands ocupados",
			g.printer.Sprintf("%.2f", s.TotalArea.InexactFloat64()), s.OccupiedStands, s.TotalStands),
		props.Text{Size: 8, Top: float64(6 + 4*len(bandOrder)), Color: colorGray}))

	lines := len(qualities)
	if len(bandOrder)+1 > lines {
		lines = len(bandOrder) + 1
	}
	return row.New(float64(8+4*lines)).Add(
		col.New(6).Add(left...),
		col.New(6).Add(right...),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Stand", 2, align.Left),
		h("Capacidad", 2, align.Right),
		h("Usadas", 2, align.Right),
		h("Libres", 2, align.Right),
		h("Ocupación", 2, align.Right),
		h("Banda", 2, align.Center),
	)
}

func (g *MarotoStandReport) standRows(stands []dto.StandOccupancyResponse) []core.Row {
	out := make([]core.Row, 0, len(stands))
	for _, s := range stands {
		num := func(n int) core.Col {
			return col.New(2).Add(text.New(g.printer.Sprintf("%d", n),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(s.Label, props.Text{Size: 8, Top: 1, Left: 1})),
			num(s.MaxCapacity),
			num(s.Used),
			num(s.Available),
			col.New(2).Add(text.New(g.percent(s.Coverage), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(s.Band, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: bandColors[s.Band],
			})),
		))
	}
	return out
}

// percent fracción 0..1 como porcentaje con el formato del idioma.
func (g *MarotoStandReport) percent(fraction decimal.Decimal) string {
	return g.printer.Sprintf("%.0f%%", fraction.Mul(decimal.NewFromInt(100)).InexactFloat64())
}
