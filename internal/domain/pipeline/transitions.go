package pipeline

import (
	"strings"
	"time"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
)

var transitions = map[entity.JobStatus][]entity.JobStatus{
	entity.JobStatusPending: {
		entity.JobStatusInProgress, entity.JobStatusSkipped, entity.JobStatusCancelled,
	},
	entity.JobStatusInProgress: {
		entity.JobStatusCompleted, entity.JobStatusFailed, entity.JobStatusCancelled, entity.JobStatusPaused,
	},
	entity.JobStatusPaused: {
		entity.JobStatusInProgress, entity.JobStatusCancelled,
	},
}

// CanTransition reporta si la máquina de estados permite from -> to.
func CanTransition(from, to entity.JobStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ensureTransition rechaza transiciones no permitidas con un ValidationError.
func ensureTransition(job *entity.ProductionJob, to entity.JobStatus) error {
	if !CanTransition(job.Status, to) {
		return domain.Invalid("status", "transición inválida de "+string(job.Status)+" a "+string(to))
	}
	return nil
}

// ValidateStoppage si el motivo no es none, inicio y fin son obligatorios y ordenados.
func ValidateStoppage(s *entity.Stoppage) error {
	if s == nil {
		return nil
	}
	reason := s.Reason
	if reason == "" {
		reason = entity.StoppageNone
	}
	if !entity.ValidStoppageReason(reason) {
		return domain.Invalid("stoppage.reason", "motivo desconocido")
	}
	if reason == entity.StoppageNone {
		return nil
	}
	if s.Start == nil || s.Start.IsZero() {
		return domain.Invalid("stoppage.start", "es requerido cuando hay motivo de parada")
	}
	if s.End == nil || s.End.IsZero() {
		return domain.Invalid("stoppage.end", "es requerido cuando hay motivo de parada")
	}
	if s.End.Before(*s.Start) {
		return domain.Invalid("stoppage.end", "debe ser posterior al inicio de la parada")
	}
	return nil
}

// Begin pending -> in_progress. Requiere máquina y hora de inicio.
func Begin(job *entity.ProductionJob, machineID string, trolleyID *string, start time.Time, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusInProgress); err != nil {
		return err
	}
	if job.Status != entity.JobStatusPending {
		return domain.Invalid("status", "solo un trabajo pendiente puede iniciarse")
	}
	if strings.TrimSpace(machineID) == "" {
		return domain.Invalid("machine_id", "es requerido")
	}
	if start.IsZero() {
		return domain.Invalid("start_time", "es requerido")
	}
	job.Status = entity.JobStatusInProgress
	job.MachineID = strings.TrimSpace(machineID)
	job.TrolleyID = trolleyID
	job.StartTime = &start
	job.UpdatedAt = now
	return nil
}

// Complete in_progress -> completed. Si alguna validación falla el trabajo no se modifica.
func Complete(job *entity.ProductionJob, end *time.Time, m entity.Measurements, stoppage *entity.Stoppage, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusCompleted); err != nil {
		return err
	}
	if end == nil || end.IsZero() {
		return domain.Invalid("end_time", "es requerido para completar")
	}
	if job.StartTime == nil {
		return domain.Invalid("start_time", "el trabajo no tiene hora de inicio")
	}
	if end.Before(*job.StartTime) {
		return domain.Invalid("end_time", "debe ser mayor o igual a la hora de inicio")
	}
	if m == nil {
		return domain.Invalid("measurements", "son requeridas para "+string(job.Stage))
	}
	if m.Stage() != job.Stage {
		return domain.Invalid("measurements", "corresponden a "+string(m.Stage())+" y el trabajo es de "+string(job.Stage))
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := ValidateStoppage(stoppage); err != nil {
		return err
	}
	e := *end
	job.Status = entity.JobStatusCompleted
	job.EndTime = &e
	job.Measurements = m
	job.Stoppage = stoppage
	job.UpdatedAt = now
	return nil
}

// Skip pending -> skipped. El comentario es obligatorio; inicio, fin y mediciones se anulan.
func Skip(job *entity.ProductionJob, comment string, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusSkipped); err != nil {
		return err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return domain.Invalid("comment", "es obligatorio al omitir una etapa")
	}
	job.Status = entity.JobStatusSkipped
	job.Comment = comment
	job.StartTime = nil
	job.EndTime = nil
	job.Measurements = nil
	job.Stoppage = nil
	job.UpdatedAt = now
	return nil
}

// Fail in_progress -> failed. end puede omitirse; si viene debe ser >= inicio.
func Fail(job *entity.ProductionJob, end *time.Time, reason string, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusFailed); err != nil {
		return err
	}
	if end != nil {
		if job.StartTime != nil && end.Before(*job.StartTime) {
			return domain.Invalid("end_time", "debe ser mayor o igual a la hora de inicio")
		}
		e := *end
		job.EndTime = &e
	}
	job.Status = entity.JobStatusFailed
	job.Comment = strings.TrimSpace(reason)
	job.UpdatedAt = now
	return nil
}

// Cancel pending|in_progress|paused -> cancelled.
func Cancel(job *entity.ProductionJob, reason string, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusCancelled); err != nil {
		return err
	}
	job.Status = entity.JobStatusCancelled
	job.Comment = strings.TrimSpace(reason)
	job.UpdatedAt = now
	return nil
}

// Pause in_progress -> paused. El trabajo pausado sigue abierto.
func Pause(job *entity.ProductionJob, now time.Time) error {
	if err := ensureTransition(job, entity.JobStatusPaused); err != nil {
		return err
	}
	job.Status = entity.JobStatusPaused
	job.UpdatedAt = now
	return nil
}

// Resume paused -> in_progress.
func Resume(job *entity.ProductionJob, now time.Time) error {
	if job.Status != entity.JobStatusPaused {
		return domain.Invalid("status", "solo un trabajo pausado puede reanudarse")
	}
	job.Status = entity.JobStatusInProgress
	job.UpdatedAt = now
	return nil
}
