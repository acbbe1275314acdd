package pipeline

import (
	"context"

	"github.com/jhoicas/granite-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Cada operación del motor de etapas es una unidad atómica de verificación y escritura.
type TxRunner interface {
	RunPipeline(ctx context.Context, fn func(
		blockRepo repository.BlockRepository,
		jobRepo repository.JobRepository,
	) error) error
}
