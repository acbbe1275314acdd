package repository

import (
	"context"
	"time"

	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// BlockFilter filtros del listado de bloques.
type BlockFilter struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

// BlockRepository define el puerto de persistencia para el registro de bloques.
// GetByID y GetByNumber devuelven (nil, nil) cuando el bloque no existe.
type BlockRepository interface {
	Create(ctx context.Context, block *entity.Block) error
	GetByID(ctx context.Context, id string) (*entity.Block, error)
	GetByNumber(ctx context.Context, blockNumber string) (*entity.Block, error)
	// GetForUpdate bloquea la fila del bloque (SELECT FOR UPDATE); serializa las
	// operaciones sobre (bloque, etapa).
	GetForUpdate(ctx context.Context, id string) (*entity.Block, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Block, error)
	List(ctx context.Context, filter BlockFilter) ([]*entity.Block, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}
