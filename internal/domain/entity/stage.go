package entity

// Stage etapa de procesamiento; el orden de Stages es fijo.
type Stage string

const (
	StageCutting            Stage = "cutting"
	StageGrinding           Stage = "grinding"
	StageChemicalConversion Stage = "chemical_conversion"
	StageEpoxy              Stage = "epoxy"
	StagePolishing          Stage = "polishing"
)

// Stages secuencia ordenada de etapas.
var Stages = []Stage{
	StageCutting,
	StageGrinding,
	StageChemicalConversion,
	StageEpoxy,
	StagePolishing,
}

// FinalStage etapa cuyo paso habilita el ingreso a inventario.
const FinalStage = StagePolishing

// ParseStage valida el nombre de una etapa.
func ParseStage(s string) (Stage, bool) {
	st := Stage(s)
	return st, st.Valid()
}

// Valid reporta si la etapa pertenece a la secuencia.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index posición de la etapa en la secuencia, -1 si no existe.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Previous etapa inmediatamente anterior; false para cutting.
func (s Stage) Previous() (Stage, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return Stages[i-1], true
}

func (s Stage) String() string { return string(s) }

// JobStatus estado de un ProductionJob.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusPaused     JobStatus = "paused"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusSkipped    JobStatus = "skipped"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// OpenJobStatuses estados no terminales: a lo sumo uno por (bloque, etapa).
var OpenJobStatuses = []JobStatus{JobStatusPending, JobStatusInProgress, JobStatusPaused}

// Terminal reporta si el estado ya no admite transiciones.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusSkipped, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Passed completed y skipped son los únicos que habilitan la etapa siguiente.
func (s JobStatus) Passed() bool {
	return s == JobStatusCompleted || s == JobStatusSkipped
}

// Valid reporta si el estado es conocido.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusPaused,
		JobStatusCompleted, JobStatusSkipped, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}
