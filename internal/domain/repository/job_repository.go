package repository

import (
	"context"

	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// JobRepository define el puerto de persistencia para ProductionJob.
// No existe Delete: los trabajos son registro de auditoría.
type JobRepository interface {
	// Create falla con *domain.ConflictError si ya hay un trabajo abierto para (bloque, etapa).
	Create(ctx context.Context, job *entity.ProductionJob) error
	Update(ctx context.Context, job *entity.ProductionJob) error
	GetByID(ctx context.Context, id string) (*entity.ProductionJob, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionJob, error)
	ListByBlock(ctx context.Context, blockID string) ([]*entity.ProductionJob, error)
	ListByStages(ctx context.Context, stages ...entity.Stage) ([]*entity.ProductionJob, error)
}
