package inventory

import (
	"context"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

// TxRepos repositorios atados a la transacción en curso.
type TxRepos struct {
	Blocks        repository.BlockRepository
	Jobs          repository.JobRepository
	Stands        repository.StandRepository
	FinishedGoods repository.FinishedGoodRepository
	Shipments     repository.ShipmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(repos TxRepos) error) error
}

// StandReportGenerator genera la representación PDF de la ocupación de stands.
type StandReportGenerator interface {
	GenerateStandReport(ctx context.Context, summary *dto.StandSummaryResponse, stands []dto.StandOccupancyResponse) ([]byte, error)
}
