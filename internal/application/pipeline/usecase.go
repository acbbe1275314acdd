// Package pipeline implementa el motor de etapas de producción: elegibilidad por orden de
// etapas, un único trabajo abierto por (bloque, etapa) y transiciones validadas.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/usecase"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	rules "github.com/jhoicas/granite-api/internal/domain/pipeline"
	"github.com/jhoicas/granite-api/internal/domain/repository"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// PipelineUseCase motor de etapas. Las escrituras corren en TxRunner con la fila del bloque
// (operaciones por bloque/etapa) o del trabajo (operaciones por trabajo) bloqueada.
type PipelineUseCase struct {
	txRunner  TxRunner
	blockRepo repository.BlockRepository
	jobRepo   repository.JobRepository
	log       *logger.Logger
}

// NewPipelineUseCase construye el caso de uso.
func NewPipelineUseCase(
	txRunner TxRunner,
	blockRepo repository.BlockRepository,
	jobRepo repository.JobRepository,
	log *logger.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		txRunner:  txRunner,
		blockRepo: blockRepo,
		jobRepo:   jobRepo,
		log:       log.Component("pipeline"),
	}
}

func parseStage(s string) (entity.Stage, error) {
	stage, ok := entity.ParseStage(strings.TrimSpace(s))
	if !ok {
		return "", domain.Invalid("stage", "etapa desconocida: "+s)
	}
	return stage, nil
}

// GetEligibleBlocks bloques que pueden iniciar la etapa según la regla de elegibilidad.
// Lectura sin bloqueo: puede quedar desactualizada frente a escrituras concurrentes.
func (uc *PipelineUseCase) GetEligibleBlocks(ctx context.Context, stageName string) ([]dto.BlockResponse, error) {
	stage, err := parseStage(stageName)
	if err != nil {
		return nil, err
	}
	stages := []entity.Stage{stage}
	prev, hasPrev := stage.Previous()
	if hasPrev {
		stages = append(stages, prev)
	}
	jobs, err := uc.jobRepo.ListByStages(ctx, stages...)
	if err != nil {
		return nil, domain.Storage("listar trabajos por etapa", err)
	}
	byBlock := make(map[string][]*entity.ProductionJob)
	for _, j := range jobs {
		byBlock[j.BlockID] = append(byBlock[j.BlockID], j)
	}

	var candidates []*entity.Block
	if hasPrev {
		ids := make([]string, 0, len(byBlock))
		for id, history := range byBlock {
			if rules.Passed(history, prev) {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			candidates, err = uc.blockRepo.ListByIDs(ctx, ids)
		}
	} else {
		candidates, err = uc.blockRepo.List(ctx, repository.BlockFilter{})
	}
	if err != nil {
		return nil, domain.Storage("listar bloques candidatos", err)
	}

	out := make([]dto.BlockResponse, 0, len(candidates))
	for _, b := range candidates {
		if rules.Eligible(b.ID, stage, byBlock[b.ID]) {
			out = append(out, *usecase.ToBlockResponse(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockNumber < out[j].BlockNumber })
	return out, nil
}

// CheckEligibility diagnóstico de elegibilidad de un bloque para una etapa.
func (uc *PipelineUseCase) CheckEligibility(ctx context.Context, blockID, stageName string) (*dto.EligibilityResponse, error) {
	stage, err := parseStage(stageName)
	if err != nil {
		return nil, err
	}
	block, err := uc.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, domain.Storage("obtener bloque", err)
	}
	if block == nil {
		return nil, domain.NotFound("bloque", blockID)
	}
	jobs, err := uc.jobRepo.ListByBlock(ctx, blockID)
	if err != nil {
		return nil, domain.Storage("listar trabajos del bloque", err)
	}
	out := &dto.EligibilityResponse{BlockID: blockID, Stage: string(stage), Eligible: true}
	if err := rules.CheckEligibility(blockID, stage, jobs); err != nil {
		out.Eligible = false
		out.Reason = err.Error()
		if open := rules.OpenJob(jobs, stage); open != nil {
			out.OpenJobID = open.ID
		}
	}
	return out, nil
}

// StartJob crea un trabajo en curso para (bloque, etapa).
// Falla con EligibilityError si la etapa previa no está pasada y ConflictError si ya hay uno abierto.
func (uc *PipelineUseCase) StartJob(ctx context.Context, in dto.StartJobRequest) (*dto.JobResponse, error) {
	stage, err := parseStage(in.Stage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.BlockID) == "" {
		return nil, domain.Invalid("block_id", "es requerido")
	}
	if strings.TrimSpace(in.MachineID) == "" {
		return nil, domain.Invalid("machine_id", "es requerido")
	}
	if in.StartTime.IsZero() {
		return nil, domain.Invalid("start_time", "es requerido")
	}

	now := time.Now()
	start := in.StartTime
	job := &entity.ProductionJob{
		ID:        uuid.New().String(),
		BlockID:   in.BlockID,
		Stage:     stage,
		Status:    entity.JobStatusInProgress,
		StartTime: &start,
		MachineID: strings.TrimSpace(in.MachineID),
		TrolleyID: in.TrolleyID,
		Notes:     strings.TrimSpace(in.Notes),
		Photos:    in.Photos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.createJob(ctx, job, now); err != nil {
		return nil, err
	}
	uc.log.Info().Str("job_id", job.ID).Str("block_id", job.BlockID).Str("stage", string(stage)).Msg("trabajo iniciado")
	return toJobResponse(job), nil
}

// PlanJob crea un trabajo pendiente (mismas verificaciones que StartJob). Desde pending se puede omitir.
func (uc *PipelineUseCase) PlanJob(ctx context.Context, in dto.PlanJobRequest) (*dto.JobResponse, error) {
	stage, err := parseStage(in.Stage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.BlockID) == "" {
		return nil, domain.Invalid("block_id", "es requerido")
	}
	now := time.Now()
	job := &entity.ProductionJob{
		ID:        uuid.New().String(),
		BlockID:   in.BlockID,
		Stage:     stage,
		Status:    entity.JobStatusPending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.createJob(ctx, job, now); err != nil {
		return nil, err
	}
	uc.log.Info().Str("job_id", job.ID).Str("block_id", job.BlockID).Str("stage", string(stage)).Msg("trabajo planificado")
	return toJobResponse(job), nil
}

// SkipStage planifica y omite la etapa en una sola transacción.
func (uc *PipelineUseCase) SkipStage(ctx context.Context, in dto.SkipStageRequest) (*dto.JobResponse, error) {
	stage, err := parseStage(in.Stage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.BlockID) == "" {
		return nil, domain.Invalid("block_id", "es requerido")
	}
	now := time.Now()
	job := &entity.ProductionJob{
		ID:        uuid.New().String(),
		BlockID:   in.BlockID,
		Stage:     stage,
		Status:    entity.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rules.Skip(job, in.Comment, now); err != nil {
		return nil, err
	}
	if err := uc.createJob(ctx, job, now); err != nil {
		return nil, err
	}
	uc.log.Info().Str("job_id", job.ID).Str("block_id", job.BlockID).Str("stage", string(stage)).Msg("etapa omitida")
	return toJobResponse(job), nil
}

// createJob verifica elegibilidad con la fila del bloque bloqueada e inserta el trabajo.
func (uc *PipelineUseCase) createJob(ctx context.Context, job *entity.ProductionJob, now time.Time) error {
	err := uc.txRunner.RunPipeline(ctx, func(blockRepo repository.BlockRepository, jobRepo repository.JobRepository) error {
		block, err := blockRepo.GetForUpdate(ctx, job.BlockID)
		if err != nil {
			return err
		}
		if block == nil {
			return domain.NotFound("bloque", job.BlockID)
		}
		jobs, err := jobRepo.ListByBlock(ctx, block.ID)
		if err != nil {
			return err
		}
		if err := rules.CheckEligibility(block.ID, job.Stage, jobs); err != nil {
			return err
		}
		if err := jobRepo.Create(ctx, job); err != nil {
			return err
		}
		return syncBlockStatus(ctx, blockRepo, block, job, now)
	})
	if err != nil {
		uc.logRejected(err, job.BlockID, job.Stage, "trabajo rechazado")
		return domain.Storage("crear trabajo", err)
	}
	return nil
}

// syncBlockStatus deriva el estado del bloque del trabajo recién escrito:
// received pasa a in_production con el primer trabajo y el pulido pasado lo deja en finished.
// Un bloque archivado no cambia.
func syncBlockStatus(ctx context.Context, blockRepo repository.BlockRepository, block *entity.Block, job *entity.ProductionJob, now time.Time) error {
	next := block.Status
	switch {
	case block.Status == entity.BlockStatusArchived:
		return nil
	case job.Stage == entity.FinalStage && job.Status.Passed():
		next = entity.BlockStatusFinished
	case block.Status == entity.BlockStatusReceived:
		next = entity.BlockStatusInProduction
	}
	if next == block.Status {
		return nil
	}
	if err := blockRepo.UpdateStatus(ctx, block.ID, next, now); err != nil {
		return err
	}
	block.Status = next
	return nil
}

// GetJob obtiene un trabajo por ID.
func (uc *PipelineUseCase) GetJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener trabajo", err)
	}
	if job == nil {
		return nil, domain.NotFound("trabajo", id)
	}
	return toJobResponse(job), nil
}

// ListBlockJobs historial completo de trabajos de un bloque, en orden de etapa e intento.
func (uc *PipelineUseCase) ListBlockJobs(ctx context.Context, blockID string) ([]dto.JobResponse, error) {
	block, err := uc.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, domain.Storage("obtener bloque", err)
	}
	if block == nil {
		return nil, domain.NotFound("bloque", blockID)
	}
	jobs, err := uc.jobRepo.ListByBlock(ctx, blockID)
	if err != nil {
		return nil, domain.Storage("listar trabajos del bloque", err)
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		if a.Stage.Index() != b.Stage.Index() {
			return a.Stage.Index() < b.Stage.Index()
		}
		return a.SortTime().Before(b.SortTime())
	})
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *toJobResponse(j))
	}
	return out, nil
}

func (uc *PipelineUseCase) logRejected(err error, blockID string, stage entity.Stage, msg string) {
	if domain.IsDomainError(err) {
		uc.log.Warn().Err(err).Str("block_id", blockID).Str("stage", string(stage)).Msg(msg)
		return
	}
	uc.log.Error().Err(err).Str("block_id", blockID).Str("stage", string(stage)).Msg(msg)
}
