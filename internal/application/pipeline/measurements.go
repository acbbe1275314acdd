package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/measurement"
)

// DecodeMeasurements decodifica las mediciones según la etapa y las construye con el
// constructor de la variante. Campos que no pertenecen a la etapa se rechazan.
// Un cuerpo vacío devuelve (nil, nil); completar sin mediciones lo rechaza la máquina de estados.
func DecodeMeasurements(stage entity.Stage, raw json.RawMessage) (entity.Measurements, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	invalid := func(err error) error {
		return domain.Invalid("measurements", "formato inválido para "+string(stage)+": "+err.Error())
	}

	switch stage {
	case entity.StageCutting:
		var in dto.CuttingInput
		if err := dec.Decode(&in); err != nil {
			return nil, invalid(err)
		}
		m, err := entity.NewCuttingMeasurements(in.SlabCount, in.SlabThickness, in.Blade)
		if err != nil {
			return nil, err
		}
		return m, nil
	case entity.StageGrinding:
		var in dto.GrindingInput
		if err := dec.Decode(&in); err != nil {
			return nil, invalid(err)
		}
		m, err := entity.NewGrindingMeasurements(in.AbrasiveGrit, in.SlabsProcessed)
		if err != nil {
			return nil, err
		}
		return m, nil
	case entity.StageChemicalConversion:
		var in dto.ChemicalInput
		if err := dec.Decode(&in); err != nil {
			return nil, invalid(err)
		}
		m, err := entity.NewChemicalMeasurements(in.ChemicalName, in.Quantity)
		if err != nil {
			return nil, err
		}
		return m, nil
	case entity.StageEpoxy:
		var in dto.EpoxyInput
		if err := dec.Decode(&in); err != nil {
			return nil, invalid(err)
		}
		m, err := entity.NewEpoxyMeasurements(in.EpoxyType, in.SlabCount,
			in.ResinIssue, in.ResinReturn, in.HardenerIssue, in.HardenerReturn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case entity.StagePolishing:
		var in dto.PolishingInput
		if err := dec.Decode(&in); err != nil {
			return nil, invalid(err)
		}
		m, err := entity.NewPolishingMeasurements(in.PolishGrade, in.SurfaceQuality, in.PolishingMinutes)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, domain.Invalid("stage", "etapa desconocida")
}

// deriveEpoxy completa área total, netos y cobertura a partir de la geometría del bloque.
func deriveEpoxy(block *entity.Block, m *entity.EpoxyMeasurements) {
	m.TotalArea = measurement.Area(block.Length, block.Height, m.SlabCount)
	usage := measurement.ChemicalNet(m.ResinIssue, m.ResinReturn, m.HardenerIssue, m.HardenerReturn)
	m.ResinNet = usage.ResinNet
	m.HardenerNet = usage.HardenerNet
	m.TotalNet = usage.TotalNet
	m.Coverage = nil
	if cov, ok := measurement.Coverage(m.TotalArea, usage.TotalNet); ok {
		m.Coverage = &cov
	}
}

// measurementWarnings netos negativos de epóxico: se informan, nunca se corrigen.
func measurementWarnings(m entity.Measurements) []string {
	epoxy, ok := m.(*entity.EpoxyMeasurements)
	if !ok || epoxy == nil {
		return nil
	}
	usage := measurement.ChemicalUsage{
		ResinNet:    epoxy.ResinNet,
		HardenerNet: epoxy.HardenerNet,
		TotalNet:    epoxy.TotalNet,
	}
	var warnings []string
	for _, field := range usage.NegativeFields() {
		warnings = append(warnings, field+" negativo: revisar cantidades entregadas y devueltas")
	}
	return warnings
}
