package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	rules "github.com/jhoicas/granite-api/internal/domain/pipeline"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

// CompleteJobInput datos para completar un trabajo con las mediciones ya construidas.
type CompleteJobInput struct {
	EndTime      *time.Time
	Measurements entity.Measurements
	Stoppage     *entity.Stoppage
	Notes        *string
	Photos       []string
}

// jobMutation aplica una transición al trabajo bloqueado. block es el bloque del trabajo.
type jobMutation func(job *entity.ProductionJob, block *entity.Block, now time.Time) error

// mutateJob bloquea el trabajo, aplica fn y persiste. Si fn falla no se escribe nada.
func (uc *PipelineUseCase) mutateJob(ctx context.Context, jobID, op string, fn jobMutation) (*entity.ProductionJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, domain.Invalid("id", "es requerido")
	}
	var out *entity.ProductionJob
	err := uc.txRunner.RunPipeline(ctx, func(blockRepo repository.BlockRepository, jobRepo repository.JobRepository) error {
		// Orden de bloqueo: bloque y luego trabajo, igual que al crear trabajos.
		current, err := jobRepo.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFound("trabajo", jobID)
		}
		block, err := blockRepo.GetForUpdate(ctx, current.BlockID)
		if err != nil {
			return err
		}
		if block == nil {
			return domain.NotFound("bloque", current.BlockID)
		}
		job, err := jobRepo.GetForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return domain.NotFound("trabajo", jobID)
		}
		now := time.Now()
		if err := fn(job, block, now); err != nil {
			return err
		}
		if err := jobRepo.Update(ctx, job); err != nil {
			return err
		}
		if err := syncBlockStatus(ctx, blockRepo, block, job, now); err != nil {
			return err
		}
		out = job
		return nil
	})
	if err != nil {
		if domain.IsDomainError(err) {
			uc.log.Warn().Err(err).Str("job_id", jobID).Str("op", op).Msg("transición rechazada")
		} else {
			uc.log.Error().Err(err).Str("job_id", jobID).Str("op", op).Msg("transición fallida")
		}
		return nil, domain.Storage(op, err)
	}
	uc.log.Info().Str("job_id", out.ID).Str("block_id", out.BlockID).Str("stage", string(out.Stage)).
		Str("status", string(out.Status)).Msg(op)
	return out, nil
}

// BeginJob pending -> in_progress.
func (uc *PipelineUseCase) BeginJob(ctx context.Context, jobID string, in dto.BeginJobRequest) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "iniciar trabajo", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Begin(job, in.MachineID, in.TrolleyID, in.StartTime, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// CompleteJob in_progress -> completed. Para epóxico deriva área, netos y cobertura
// de la geometría del bloque; netos negativos se guardan y se informan como advertencia.
func (uc *PipelineUseCase) CompleteJob(ctx context.Context, jobID string, in CompleteJobInput) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "completar trabajo", func(job *entity.ProductionJob, block *entity.Block, now time.Time) error {
		if epoxy, ok := in.Measurements.(*entity.EpoxyMeasurements); ok && epoxy != nil {
			deriveEpoxy(block, epoxy)
		}
		if err := rules.Complete(job, in.EndTime, in.Measurements, in.Stoppage, now); err != nil {
			return err
		}
		if in.Notes != nil {
			job.Notes = strings.TrimSpace(*in.Notes)
		}
		if len(in.Photos) > 0 {
			job.Photos = append(job.Photos, in.Photos...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toJobResponse(job)
	for _, w := range out.Warnings {
		uc.log.Warn().Str("job_id", job.ID).Str("block_id", job.BlockID).Msg(w)
	}
	return out, nil
}

// CompleteJobFromRequest decodifica las mediciones según la etapa del trabajo y lo completa.
func (uc *PipelineUseCase) CompleteJobFromRequest(ctx context.Context, jobID string, req dto.CompleteJobRequest) (*dto.JobResponse, error) {
	current, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, domain.Storage("obtener trabajo", err)
	}
	if current == nil {
		return nil, domain.NotFound("trabajo", jobID)
	}
	m, err := DecodeMeasurements(current.Stage, req.Measurements)
	if err != nil {
		return nil, err
	}
	return uc.CompleteJob(ctx, jobID, CompleteJobInput{
		EndTime:      req.EndTime,
		Measurements: m,
		Stoppage:     toStoppage(req.Stoppage),
		Notes:        req.Notes,
		Photos:       req.Photos,
	})
}

// SkipJob pending -> skipped con comentario obligatorio.
func (uc *PipelineUseCase) SkipJob(ctx context.Context, jobID, comment string) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "omitir trabajo", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Skip(job, comment, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// FailJob in_progress -> failed. Un nuevo intento de la etapa es posible después.
func (uc *PipelineUseCase) FailJob(ctx context.Context, jobID string, in dto.FailJobRequest) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "marcar trabajo fallido", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Fail(job, in.EndTime, in.Reason, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// CancelJob pending|in_progress|paused -> cancelled.
func (uc *PipelineUseCase) CancelJob(ctx context.Context, jobID, reason string) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "cancelar trabajo", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Cancel(job, reason, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// PauseJob in_progress -> paused.
func (uc *PipelineUseCase) PauseJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "pausar trabajo", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Pause(job, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ResumeJob paused -> in_progress.
func (uc *PipelineUseCase) ResumeJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := uc.mutateJob(ctx, jobID, "reanudar trabajo", func(job *entity.ProductionJob, _ *entity.Block, now time.Time) error {
		return rules.Resume(job, now)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}
