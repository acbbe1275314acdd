package repository

import (
	"context"

	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// StandRepository puerto de lectura/bloqueo de stands. Los stands solo se aprovisionan.
type StandRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Stand, error)
	// GetForUpdate bloquea la fila del stand; serializa los ingresos de stock al mismo stand.
	GetForUpdate(ctx context.Context, id string) (*entity.Stand, error)
	List(ctx context.Context) ([]*entity.Stand, error)
	// Provision inserta el stand si (fila, posición) no existe. Devuelve true si lo creó.
	Provision(ctx context.Context, stand *entity.Stand) (bool, error)
}
