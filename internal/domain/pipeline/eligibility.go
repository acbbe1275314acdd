// Package pipeline contiene las reglas puras de la máquina de estados de etapas:
// elegibilidad por orden de etapas, transiciones permitidas y validación al completar.
package pipeline

import (
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// OpenJob devuelve el trabajo no terminal de la etapa, o nil.
func OpenJob(jobs []*entity.ProductionJob, stage entity.Stage) *entity.ProductionJob {
	for _, j := range jobs {
		if j.Stage == stage && !j.Status.Terminal() {
			return j
		}
	}
	return nil
}

// LatestJob intento más reciente de la etapa por hora de inicio (los omitidos usan la hora de creación).
// Empates: gana el creado después. No usa el orden de IDs.
func LatestJob(jobs []*entity.ProductionJob, stage entity.Stage) *entity.ProductionJob {
	var latest *entity.ProductionJob
	for _, j := range jobs {
		if j.Stage != stage {
			continue
		}
		if latest == nil || newer(j, latest) {
			latest = j
		}
	}
	return latest
}

func newer(a, b *entity.ProductionJob) bool {
	at, bt := a.SortTime(), b.SortTime()
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Passed reporta si el intento más reciente de la etapa quedó completado u omitido.
// Un intento posterior fallido o cancelado deja la etapa sin pasar hasta que otro la complete.
func Passed(jobs []*entity.ProductionJob, stage entity.Stage) bool {
	latest := LatestJob(jobs, stage)
	return latest != nil && latest.Status.Passed()
}

// CheckEligibility aplica la regla de elegibilidad del bloque para la etapa sobre su historial.
// Devuelve *domain.ConflictError si ya hay un trabajo abierto en la etapa y
// *domain.EligibilityError si la etapa previa no está pasada.
func CheckEligibility(blockID string, stage entity.Stage, jobs []*entity.ProductionJob) error {
	if !stage.Valid() {
		return domain.Invalid("stage", "etapa desconocida")
	}
	if open := OpenJob(jobs, stage); open != nil {
		return &domain.ConflictError{BlockID: blockID, Stage: string(stage), JobID: open.ID}
	}
	prev, ok := stage.Previous()
	if !ok {
		return nil
	}
	if !Passed(jobs, prev) {
		return &domain.EligibilityError{BlockID: blockID, Stage: string(stage), Required: string(prev)}
	}
	return nil
}

// Eligible versión booleana de CheckEligibility.
func Eligible(blockID string, stage entity.Stage, jobs []*entity.ProductionJob) bool {
	return CheckEligibility(blockID, stage, jobs) == nil
}

// FinishedProduction el bloque pasó la etapa final y puede ingresar a inventario.
func FinishedProduction(jobs []*entity.ProductionJob) bool {
	return Passed(jobs, entity.FinalStage)
}
