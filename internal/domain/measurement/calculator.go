// Package measurement agrupa las fórmulas puras de área, cobertura y cantidades netas.
// Todas las cifras usan decimal para reproducir el redondeo de facturación sin error binario.
package measurement

import "github.com/shopspring/decimal"

var (
	// KerfAllowance pulgadas descontadas por corte/recorte antes de convertir a pies.
	KerfAllowance = decimal.NewFromInt(6)

	inchesPerFoot    = decimal.NewFromInt(12)
	inchesPerQuarter = decimal.NewFromInt(3)
	quarterFoot      = decimal.RequireFromString("0.25")
)

// AreaPlaces decimales del área y de la cobertura.
const AreaPlaces = 2

// LinearFeet convierte una dimensión en pulgadas a pies facturables.
// Resta la holgura de 6", pasa a pies y redondea hacia abajo al cuarto de pie:
//
//	floor((dim-6)/12) + floor(((dim-6) mod 12)/3) * 0.25
//
// El módulo es el resto no negativo (dim-6) - 12*floor((dim-6)/12).
func LinearFeet(inches decimal.Decimal) decimal.Decimal {
	net := inches.Sub(KerfAllowance)
	feet := net.Div(inchesPerFoot).Floor()
	rem := net.Sub(feet.Mul(inchesPerFoot))
	quarters := rem.Div(inchesPerQuarter).Floor()
	return feet.Add(quarters.Mul(quarterFoot))
}

// Area = pies(largo) * pies(alto) * losas, redondeada a 2 decimales.
func Area(lengthIn, heightIn decimal.Decimal, slabCount int) decimal.Decimal {
	return LinearFeet(lengthIn).
		Mul(LinearFeet(heightIn)).
		Mul(decimal.NewFromInt(int64(slabCount))).
		Round(AreaPlaces)
}

// NetQuantity entregado - devuelto. Un neto negativo no se corrige: lo reporta el llamador.
func NetQuantity(issued, returned decimal.Decimal) decimal.Decimal {
	return issued.Sub(returned)
}

// Coverage área por unidad de químico. ok=false (sin valor, no error) cuando totalNet es 0.
func Coverage(totalArea, totalNet decimal.Decimal) (decimal.Decimal, bool) {
	if totalNet.IsZero() {
		return decimal.Zero, false
	}
	return totalArea.Div(totalNet).Round(AreaPlaces), true
}

// ChemicalUsage netos de resina y endurecedor de la etapa de epóxico.
type ChemicalUsage struct {
	ResinNet    decimal.Decimal
	HardenerNet decimal.Decimal
	TotalNet    decimal.Decimal
}

// ChemicalNet calcula los netos por separado y su suma.
func ChemicalNet(resinIssue, resinReturn, hardenerIssue, hardenerReturn decimal.Decimal) ChemicalUsage {
	resin := NetQuantity(resinIssue, resinReturn)
	hardener := NetQuantity(hardenerIssue, hardenerReturn)
	return ChemicalUsage{
		ResinNet:    resin,
		HardenerNet: hardener,
		TotalNet:    resin.Add(hardener),
	}
}

// NegativeFields nombres de los netos negativos (problema de captura) para informar al operador.
func (u ChemicalUsage) NegativeFields() []string {
	var out []string
	if u.ResinNet.IsNegative() {
		out = append(out, "resin_net")
	}
	if u.HardenerNet.IsNegative() {
		out = append(out, "hardener_net")
	}
	if u.TotalNet.IsNegative() {
		out = append(out, "total_net")
	}
	return out
}

// Occupancy fracción ocupada de un stand, redondeada a 2 decimales. 0 si capacity <= 0.
func Occupancy(used, capacity int) decimal.Decimal {
	if capacity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(used)).
		Div(decimal.NewFromInt(int64(capacity))).
		Round(AreaPlaces)
}

// Bandas informativas de ocupación para el tablero de operadores.
const (
	BandNominal  = "nominal"
	BandModerate = "moderate"
	BandHigh     = "high"
	BandCritical = "critical"
)

var (
	bandModerateFrom = decimal.RequireFromString("0.40")
	bandHighFrom     = decimal.RequireFromString("0.70")
	bandCriticalFrom = decimal.RequireFromString("0.90")
)

// Band clasifica una ocupación: <40% nominal, 40–70% moderate, 70–90% high, >=90% critical.
func Band(coverage decimal.Decimal) string {
	switch {
	case coverage.GreaterThanOrEqual(bandCriticalFrom):
		return BandCritical
	case coverage.GreaterThanOrEqual(bandHighFrom):
		return BandHigh
	case coverage.GreaterThanOrEqual(bandModerateFrom):
		return BandModerate
	default:
		return BandNominal
	}
}

// BandFor clasifica con la fracción exacta used/capacity, sin redondear.
func BandFor(used, capacity int) string {
	if capacity <= 0 {
		return BandCritical
	}
	return Band(decimal.NewFromInt(int64(used)).Div(decimal.NewFromInt(int64(capacity))))
}
