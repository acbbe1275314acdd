package entity

import "time"

// Motivos de parada de máquina durante un trabajo.
const (
	StoppageNone        = "none"
	StoppageMechanical  = "mechanical"
	StoppageElectrical  = "electrical"
	StoppageMaterial    = "material"
	StoppageMaintenance = "maintenance"
	StoppageOther       = "other"
)

// ValidStoppageReason indica si r es un motivo de parada conocido.
func ValidStoppageReason(r string) bool {
	switch r {
	case StoppageNone, StoppageMechanical, StoppageElectrical, StoppageMaterial, StoppageMaintenance, StoppageOther:
		return true
	}
	return false
}

// Stoppage sub-registro opcional de parada. Si Reason != none, Start y End son obligatorios.
type Stoppage struct {
	Reason           string     `json:"reason"`
	Start            *time.Time `json:"start,omitempty"`
	End              *time.Time `json:"end,omitempty"`
	MaintenanceNotes string     `json:"maintenance_notes,omitempty"`
}

// ProductionJob un intento de procesar un bloque en una etapa.
// Stage se asigna al crear y nunca cambia; los trabajos no se eliminan (auditoría).
type ProductionJob struct {
	ID           string
	BlockID      string
	Stage        Stage
	Status       JobStatus
	StartTime    *time.Time
	EndTime      *time.Time
	Measurements Measurements
	MachineID    string
	TrolleyID    *string
	Stoppage     *Stoppage
	Notes        string
	Comment      string // motivo de omisión, falla o cancelación
	Photos       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SortTime instante usado para ordenar intentos de una misma etapa.
// Los trabajos omitidos o sin inicio usan CreatedAt.
func (j *ProductionJob) SortTime() time.Time {
	if j.StartTime != nil {
		return *j.StartTime
	}
	return j.CreatedAt
}

// Clone copia profunda (punteros y slices) para adaptadores en memoria.
func (j *ProductionJob) Clone() *ProductionJob {
	if j == nil {
		return nil
	}
	c := *j
	if j.StartTime != nil {
		t := *j.StartTime
		c.StartTime = &t
	}
	if j.EndTime != nil {
		t := *j.EndTime
		c.EndTime = &t
	}
	if j.TrolleyID != nil {
		s := *j.TrolleyID
		c.TrolleyID = &s
	}
	if j.Stoppage != nil {
		st := *j.Stoppage
		c.Stoppage = &st
	}
	if j.Photos != nil {
		c.Photos = append([]string(nil), j.Photos...)
	}
	if j.Measurements != nil {
		if data, err := MarshalMeasurements(j.Measurements); err == nil {
			if m, err := UnmarshalMeasurements(j.Stage, data); err == nil {
				c.Measurements = m
			}
		}
	}
	return &c
}
