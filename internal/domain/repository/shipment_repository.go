package repository

import (
	"context"

	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// ShipmentRepository puerto de persistencia de despachos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
	ListByFinishedGood(ctx context.Context, finishedGoodID string) ([]*entity.Shipment, error)
}
