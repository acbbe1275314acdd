package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// StartJobRequest body para POST /api/jobs.
type StartJobRequest struct {
	BlockID   string    `json:"block_id"`
	Stage     string    `json:"stage"`
	MachineID string    `json:"machine_id"`
	TrolleyID *string   `json:"trolley_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	Notes     string    `json:"notes,omitempty"`
	Photos    []string  `json:"photos,omitempty"`
}

// PlanJobRequest body para POST /api/jobs/plan (trabajo pendiente).
type PlanJobRequest struct {
	BlockID string `json:"block_id"`
	Stage   string `json:"stage"`
	Notes   string `json:"notes,omitempty"`
}

// SkipStageRequest body para POST /api/jobs/skip-stage.
type SkipStageRequest struct {
	BlockID string `json:"block_id"`
	Stage   string `json:"stage"`
	Comment string `json:"comment"`
}

// BeginJobRequest body para POST /api/jobs/:id/begin.
type BeginJobRequest struct {
	MachineID string    `json:"machine_id"`
	TrolleyID *string   `json:"trolley_id,omitempty"`
	StartTime time.Time `json:"start_time"`
}

// StoppageRequest sub-registro de parada.
type StoppageRequest struct {
	Reason           string     `json:"reason"`
	Start            *time.Time `json:"start,omitempty"`
	End              *time.Time `json:"end,omitempty"`
	MaintenanceNotes string     `json:"maintenance_notes,omitempty"`
}

// CompleteJobRequest body para POST /api/jobs/:id/complete.
// Measurements se decodifica según la etapa del trabajo; campos ajenos a la etapa se rechazan.
type CompleteJobRequest struct {
	EndTime      *time.Time       `json:"end_time"`
	Measurements json.RawMessage  `json:"measurements"`
	Stoppage     *StoppageRequest `json:"stoppage,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	Photos       []string         `json:"photos,omitempty"`
}

// SkipJobRequest body para POST /api/jobs/:id/skip.
type SkipJobRequest struct {
	Comment string `json:"comment"`
}

// FailJobRequest body para POST /api/jobs/:id/fail.
type FailJobRequest struct {
	EndTime *time.Time `json:"end_time,omitempty"`
	Reason  string     `json:"reason"`
}

// CancelJobRequest body para POST /api/jobs/:id/cancel.
type CancelJobRequest struct {
	Reason string `json:"reason"`
}

// JobResponse salida de un trabajo. Warnings informa netos químicos negativos.
type JobResponse struct {
	ID           string           `json:"id"`
	BlockID      string           `json:"block_id"`
	Stage        string           `json:"stage"`
	Status       string           `json:"status"`
	StartTime    *time.Time       `json:"start_time"`
	EndTime      *time.Time       `json:"end_time"`
	Measurements any              `json:"measurements"`
	MachineID    string           `json:"machine_id,omitempty"`
	TrolleyID    *string          `json:"trolley_id,omitempty"`
	Stoppage     *StoppageRequest `json:"stoppage,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Comment      string           `json:"comment,omitempty"`
	Photos       []string         `json:"photos"`
	Warnings     []string         `json:"warnings,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EligibilityResponse diagnóstico de elegibilidad de un bloque para una etapa.
type EligibilityResponse struct {
	BlockID   string `json:"block_id"`
	Stage     string `json:"stage"`
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason,omitempty"`
	OpenJobID string `json:"open_job_id,omitempty"`
}

// Mediciones por etapa tal como llegan del transporte.

// CuttingInput mediciones de corte.
type CuttingInput struct {
	SlabCount     int             `json:"slab_count"`
	SlabThickness decimal.Decimal `json:"slab_thickness_mm"`
	Blade         string          `json:"blade"`
}

// GrindingInput mediciones de desbaste.
type GrindingInput struct {
	AbrasiveGrit   string `json:"abrasive_grit"`
	SlabsProcessed int    `json:"slabs_processed"`
}

// ChemicalInput mediciones de conversión química.
type ChemicalInput struct {
	ChemicalName string          `json:"chemical_name"`
	Quantity     decimal.Decimal `json:"quantity_liters"`
}

// EpoxyInput mediciones de epóxico (cantidades entregadas y devueltas).
type EpoxyInput struct {
	EpoxyType      string          `json:"epoxy_type"`
	SlabCount      int             `json:"slab_count"`
	ResinIssue     decimal.Decimal `json:"resin_issue"`
	ResinReturn    decimal.Decimal `json:"resin_return"`
	HardenerIssue  decimal.Decimal `json:"hardener_issue"`
	HardenerReturn decimal.Decimal `json:"hardener_return"`
}

// PolishingInput mediciones de pulido.
type PolishingInput struct {
	PolishGrade      string `json:"polish_grade"`
	SurfaceQuality   string `json:"surface_quality"`
	PolishingMinutes int    `json:"polishing_minutes"`
}
