package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/granite-api/internal/domain"
)

// Measurements mediciones específicas de una etapa (unión discriminada por Stage).
// Cada variante tiene su constructor y su propio conjunto de campos obligatorios.
type Measurements interface {
	Stage() Stage
	Validate() error
}

var (
	_ Measurements = (*CuttingMeasurements)(nil)
	_ Measurements = (*GrindingMeasurements)(nil)
	_ Measurements = (*ChemicalMeasurements)(nil)
	_ Measurements = (*EpoxyMeasurements)(nil)
	_ Measurements = (*PolishingMeasurements)(nil)
)

// CuttingMeasurements corte del bloque en losas.
type CuttingMeasurements struct {
	SlabCount     int             `json:"slab_count"`
	SlabThickness decimal.Decimal `json:"slab_thickness_mm"`
	Blade         string          `json:"blade,omitempty"`
}

// NewCuttingMeasurements construye y valida las mediciones de corte.
func NewCuttingMeasurements(slabCount int, thicknessMM decimal.Decimal, blade string) (*CuttingMeasurements, error) {
	m := &CuttingMeasurements{SlabCount: slabCount, SlabThickness: thicknessMM, Blade: strings.TrimSpace(blade)}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *CuttingMeasurements) Stage() Stage { return StageCutting }

func (m *CuttingMeasurements) Validate() error {
	if m.SlabCount <= 0 {
		return domain.Invalid("slab_count", "debe ser mayor que cero")
	}
	if !m.SlabThickness.IsPositive() {
		return domain.Invalid("slab_thickness_mm", "debe ser mayor que cero")
	}
	return nil
}

// GrindingMeasurements desbaste.
type GrindingMeasurements struct {
	AbrasiveGrit   string `json:"abrasive_grit"`
	SlabsProcessed int    `json:"slabs_processed"`
}

// NewGrindingMeasurements construye y valida las mediciones de desbaste.
func NewGrindingMeasurements(grit string, slabsProcessed int) (*GrindingMeasurements, error) {
	m := &GrindingMeasurements{AbrasiveGrit: strings.TrimSpace(grit), SlabsProcessed: slabsProcessed}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *GrindingMeasurements) Stage() Stage { return StageGrinding }

func (m *GrindingMeasurements) Validate() error {
	if strings.TrimSpace(m.AbrasiveGrit) == "" {
		return domain.Invalid("abrasive_grit", "es requerido")
	}
	if m.SlabsProcessed <= 0 {
		return domain.Invalid("slabs_processed", "debe ser mayor que cero")
	}
	return nil
}

// ChemicalMeasurements conversión química.
type ChemicalMeasurements struct {
	ChemicalName string          `json:"chemical_name"`
	Quantity     decimal.Decimal `json:"quantity_liters"`
}

// NewChemicalMeasurements construye y valida las mediciones de conversión química.
func NewChemicalMeasurements(chemicalName string, quantity decimal.Decimal) (*ChemicalMeasurements, error) {
	m := &ChemicalMeasurements{ChemicalName: strings.TrimSpace(chemicalName), Quantity: quantity}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ChemicalMeasurements) Stage() Stage { return StageChemicalConversion }

func (m *ChemicalMeasurements) Validate() error {
	if strings.TrimSpace(m.ChemicalName) == "" {
		return domain.Invalid("chemical_name", "es requerido")
	}
	if m.Quantity.IsNegative() {
		return domain.Invalid("quantity_liters", "no puede ser negativa")
	}
	return nil
}

// EpoxyMeasurements resina y endurecedor entregados/devueltos.
// Los campos derivados los calcula el motor al completar el trabajo.
type EpoxyMeasurements struct {
	EpoxyType      string          `json:"epoxy_type"`
	SlabCount      int             `json:"slab_count"`
	ResinIssue     decimal.Decimal `json:"resin_issue"`
	ResinReturn    decimal.Decimal `json:"resin_return"`
	HardenerIssue  decimal.Decimal `json:"hardener_issue"`
	HardenerReturn decimal.Decimal `json:"hardener_return"`

	TotalArea   decimal.Decimal  `json:"total_area"`
	ResinNet    decimal.Decimal  `json:"resin_net"`
	HardenerNet decimal.Decimal  `json:"hardener_net"`
	TotalNet    decimal.Decimal  `json:"total_net"`
	Coverage    *decimal.Decimal `json:"coverage,omitempty"` // nil cuando TotalNet es 0
}

// NewEpoxyMeasurements construye y valida las mediciones de epóxico.
func NewEpoxyMeasurements(epoxyType string, slabCount int, resinIssue, resinReturn, hardenerIssue, hardenerReturn decimal.Decimal) (*EpoxyMeasurements, error) {
	m := &EpoxyMeasurements{
		EpoxyType:      strings.TrimSpace(epoxyType),
		SlabCount:      slabCount,
		ResinIssue:     resinIssue,
		ResinReturn:    resinReturn,
		HardenerIssue:  hardenerIssue,
		HardenerReturn: hardenerReturn,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *EpoxyMeasurements) Stage() Stage { return StageEpoxy }

// Validate no rechaza netos negativos: se reportan, no se corrigen.
func (m *EpoxyMeasurements) Validate() error {
	if strings.TrimSpace(m.EpoxyType) == "" {
		return domain.Invalid("epoxy_type", "es requerido")
	}
	if m.SlabCount <= 0 {
		return domain.Invalid("slab_count", "debe ser mayor que cero")
	}
	quantities := []struct {
		field string
		value decimal.Decimal
	}{
		{"resin_issue", m.ResinIssue},
		{"resin_return", m.ResinReturn},
		{"hardener_issue", m.HardenerIssue},
		{"hardener_return", m.HardenerReturn},
	}
	for _, q := range quantities {
		if q.value.IsNegative() {
			return domain.Invalid(q.field, "no puede ser negativa")
		}
	}
	return nil
}

// PolishingMeasurements pulido.
type PolishingMeasurements struct {
	PolishGrade      string `json:"polish_grade"`
	SurfaceQuality   string `json:"surface_quality"`
	PolishingMinutes int    `json:"polishing_minutes"`
}

// NewPolishingMeasurements construye y valida las mediciones de pulido.
func NewPolishingMeasurements(grade, surfaceQuality string, minutes int) (*PolishingMeasurements, error) {
	m := &PolishingMeasurements{
		PolishGrade:      strings.TrimSpace(grade),
		SurfaceQuality:   strings.TrimSpace(surfaceQuality),
		PolishingMinutes: minutes,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PolishingMeasurements) Stage() Stage { return StagePolishing }

func (m *PolishingMeasurements) Validate() error {
	if strings.TrimSpace(m.PolishGrade) == "" {
		return domain.Invalid("polish_grade", "es requerido")
	}
	if strings.TrimSpace(m.SurfaceQuality) == "" {
		return domain.Invalid("surface_quality", "es requerido")
	}
	if m.PolishingMinutes <= 0 {
		return domain.Invalid("polishing_minutes", "debe ser mayor que cero")
	}
	return nil
}

// MarshalMeasurements serializa la variante para la columna JSONB; nil -> nil.
func MarshalMeasurements(m Measurements) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// UnmarshalMeasurements reconstruye la variante correspondiente a stage.
func UnmarshalMeasurements(stage Stage, data []byte) (Measurements, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var m Measurements
	switch stage {
	case StageCutting:
		m = &CuttingMeasurements{}
	case StageGrinding:
		m = &GrindingMeasurements{}
	case StageChemicalConversion:
		m = &ChemicalMeasurements{}
	case StageEpoxy:
		m = &EpoxyMeasurements{}
	case StagePolishing:
		m = &PolishingMeasurements{}
	default:
		return nil, fmt.Errorf("etapa desconocida %q", stage)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode measurements %s: %w", stage, err)
	}
	return m, nil
}
