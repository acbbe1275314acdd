package repository

import (
	"context"
	"time"

	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// FinishedGoodRepository puerto de persistencia de productos terminados.
type FinishedGoodRepository interface {
	Create(ctx context.Context, fg *entity.FinishedGood) error
	GetByID(ctx context.Context, id string) (*entity.FinishedGood, error)
	// GetForUpdate bloquea la fila; serializa despachos sobre el mismo producto.
	GetForUpdate(ctx context.Context, id string) (*entity.FinishedGood, error)
	UpdateSlabCount(ctx context.Context, id string, slabCount int, at time.Time) error
	// SumByStand suma slab_count del stand (0 si no hay filas).
	SumByStand(ctx context.Context, standID string) (int, error)
	ListByStand(ctx context.Context, standID string) ([]*entity.FinishedGood, error)
	// ListInStock productos con slab_count > 0 (base del resumen de stands).
	ListInStock(ctx context.Context) ([]*entity.FinishedGood, error)
}
