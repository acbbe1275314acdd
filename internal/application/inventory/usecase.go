// Package inventory implementa el motor de inventario y capacidad: ingreso de losas a stands,
// despachos y la vista de ocupación.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	rules "github.com/jhoicas/granite-api/internal/domain/pipeline"
	"github.com/jhoicas/granite-api/internal/domain/repository"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// InventoryUseCase ingresos y despachos transaccionales con bloqueo de fila
// (SELECT FOR UPDATE) sobre el stand o el producto terminado, y Commit/Rollback.
type InventoryUseCase struct {
	txRunner     TxRunner
	blockRepo    repository.BlockRepository
	standRepo    repository.StandRepository
	fgRepo       repository.FinishedGoodRepository
	shipmentRepo repository.ShipmentRepository
	report       StandReportGenerator
	log          *logger.Logger
}

// NewInventoryUseCase construye el caso de uso. report puede ser nil si no se expone el PDF.
func NewInventoryUseCase(
	txRunner TxRunner,
	blockRepo repository.BlockRepository,
	standRepo repository.StandRepository,
	fgRepo repository.FinishedGoodRepository,
	shipmentRepo repository.ShipmentRepository,
	report StandReportGenerator,
	log *logger.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		txRunner:     txRunner,
		blockRepo:    blockRepo,
		standRepo:    standRepo,
		fgRepo:       fgRepo,
		shipmentRepo: shipmentRepo,
		report:       report,
		log:          log.Component("inventory"),
	}
}

// AddStock ingresa losas de un bloque terminado a un stand.
// Con la fila del stand bloqueada: current + slabCount > capacidad -> CapacityExceededError.
func (uc *InventoryUseCase) AddStock(ctx context.Context, in dto.AddStockRequest) (*dto.StockResultResponse, error) {
	standID := strings.TrimSpace(in.StandID)
	blockID := strings.TrimSpace(in.BlockID)
	quality := strings.TrimSpace(in.Quality)
	if standID == "" {
		return nil, domain.Invalid("stand_id", "es requerido")
	}
	if blockID == "" {
		return nil, domain.Invalid("block_id", "es requerido")
	}
	if in.SlabCount <= 0 {
		return nil, domain.Invalid("slab_count", "debe ser mayor que cero")
	}
	if quality == "" {
		return nil, domain.Invalid("quality", "es requerida")
	}

	now := time.Now()
	added := now
	if in.AddedAt != nil && !in.AddedAt.IsZero() {
		added = *in.AddedAt
	}
	fg := &entity.FinishedGood{
		ID:           uuid.New().String(),
		BlockID:      blockID,
		StandID:      standID,
		SlabCount:    in.SlabCount,
		Quality:      quality,
		Media:        in.Media,
		StockAddedAt: added,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var result *dto.StockResultResponse
	err := uc.txRunner.RunInventory(ctx, func(repos TxRepos) error {
		stand, err := repos.Stands.GetForUpdate(ctx, standID)
		if err != nil {
			return err
		}
		if stand == nil {
			return domain.NotFound("stand", standID)
		}
		block, err := repos.Blocks.GetByID(ctx, blockID)
		if err != nil {
			return err
		}
		if block == nil {
			return domain.NotFound("bloque", blockID)
		}
		jobs, err := repos.Jobs.ListByBlock(ctx, blockID)
		if err != nil {
			return err
		}
		if !rules.FinishedProduction(jobs) {
			return &domain.EligibilityError{
				BlockID:  blockID,
				Stage:    "inventario",
				Required: string(entity.FinalStage),
			}
		}
		current, err := repos.FinishedGoods.SumByStand(ctx, standID)
		if err != nil {
			return err
		}
		if current+in.SlabCount > stand.MaxCapacity {
			return &domain.CapacityExceededError{
				StandID:   standID,
				Current:   current,
				Requested: in.SlabCount,
				Capacity:  stand.MaxCapacity,
			}
		}
		if err := repos.FinishedGoods.Create(ctx, fg); err != nil {
			return err
		}
		result = &dto.StockResultResponse{
			FinishedGood: toFinishedGood(fg, block),
			Stand:        toStandOccupancy(stand, current+in.SlabCount),
		}
		return nil
	})
	if err != nil {
		uc.logRejected(err, "ingreso de stock rechazado", "stand_id", standID)
		return nil, domain.Storage("ingresar stock", err)
	}
	uc.log.Info().Str("finished_good_id", fg.ID).Str("stand_id", standID).Str("block_id", blockID).
		Int("slabs", in.SlabCount).Int("stand_used", result.Stand.Used).Msg("stock ingresado")
	return result, nil
}

// ShipGoods despacha losas de un producto terminado.
// Con la fila del producto bloqueada: slabsShipped > slabCount -> InsufficientStockError.
func (uc *InventoryUseCase) ShipGoods(ctx context.Context, in dto.ShipRequest) (*dto.ShipmentResultResponse, error) {
	fgID := strings.TrimSpace(in.FinishedGoodID)
	company := strings.TrimSpace(in.ShippingCompany)
	if fgID == "" {
		return nil, domain.Invalid("finished_good_id", "es requerido")
	}
	if in.SlabsShipped <= 0 {
		return nil, domain.Invalid("slabs_shipped", "debe ser mayor que cero")
	}
	if company == "" {
		return nil, domain.Invalid("shipping_company", "es requerida")
	}

	now := time.Now()
	shippedAt := now
	if in.ShippedAt != nil && !in.ShippedAt.IsZero() {
		shippedAt = *in.ShippedAt
	}
	shipment := &entity.Shipment{
		ID:              uuid.New().String(),
		FinishedGoodID:  fgID,
		SlabsShipped:    in.SlabsShipped,
		ShippingCompany: company,
		ShippedAt:       shippedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var result *dto.ShipmentResultResponse
	err := uc.txRunner.RunInventory(ctx, func(repos TxRepos) error {
		fg, err := repos.FinishedGoods.GetForUpdate(ctx, fgID)
		if err != nil {
			return err
		}
		if fg == nil {
			return domain.NotFound("producto terminado", fgID)
		}
		if in.SlabsShipped > fg.SlabCount {
			return &domain.InsufficientStockError{
				FinishedGoodID: fgID,
				Available:      fg.SlabCount,
				Requested:      in.SlabsShipped,
			}
		}
		fg.SlabCount -= in.SlabsShipped
		fg.UpdatedAt = now
		if err := repos.FinishedGoods.UpdateSlabCount(ctx, fgID, fg.SlabCount, now); err != nil {
			return err
		}
		if err := repos.Shipments.Create(ctx, shipment); err != nil {
			return err
		}
		block, err := repos.Blocks.GetByID(ctx, fg.BlockID)
		if err != nil {
			return err
		}
		result = &dto.ShipmentResultResponse{
			Shipment:     toShipment(shipment),
			FinishedGood: toFinishedGood(fg, block),
		}
		return nil
	})
	if err != nil {
		uc.logRejected(err, "despacho rechazado", "finished_good_id", fgID)
		return nil, domain.Storage("despachar", err)
	}
	uc.log.Info().Str("shipment_id", shipment.ID).Str("finished_good_id", fgID).
		Int("slabs", in.SlabsShipped).Int("remaining", result.FinishedGood.SlabCount).Msg("despacho registrado")
	return result, nil
}

// EditShipment corrige un despacho. El saldo disponible es slabCount actual más lo despachado
// antes por este despacho; un nuevo valor mayor -> InsufficientStockError.
func (uc *InventoryUseCase) EditShipment(ctx context.Context, shipmentID string, in dto.EditShipmentRequest) (*dto.ShipmentResultResponse, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, domain.Invalid("id", "es requerido")
	}
	if in.SlabsShipped != nil && *in.SlabsShipped <= 0 {
		return nil, domain.Invalid("slabs_shipped", "debe ser mayor que cero")
	}
	if in.ShippingCompany != nil && strings.TrimSpace(*in.ShippingCompany) == "" {
		return nil, domain.Invalid("shipping_company", "no puede quedar vacía")
	}

	var result *dto.ShipmentResultResponse
	err := uc.txRunner.RunInventory(ctx, func(repos TxRepos) error {
		// Orden de bloqueo: producto terminado y luego despacho, igual que ShipGoods.
		prev, err := repos.Shipments.GetByID(ctx, shipmentID)
		if err != nil {
			return err
		}
		if prev == nil {
			return domain.NotFound("despacho", shipmentID)
		}
		fg, err := repos.FinishedGoods.GetForUpdate(ctx, prev.FinishedGoodID)
		if err != nil {
			return err
		}
		if fg == nil {
			return domain.NotFound("producto terminado", prev.FinishedGoodID)
		}
		current, err := repos.Shipments.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFound("despacho", shipmentID)
		}

		now := time.Now()
		newSlabs := current.SlabsShipped
		if in.SlabsShipped != nil {
			newSlabs = *in.SlabsShipped
		}
		available := fg.SlabCount + current.SlabsShipped
		if newSlabs > available {
			return &domain.InsufficientStockError{
				FinishedGoodID: fg.ID,
				Available:      available,
				Requested:      newSlabs,
			}
		}
		if newSlabs != current.SlabsShipped {
			fg.SlabCount = available - newSlabs
			fg.UpdatedAt = now
			if err := repos.FinishedGoods.UpdateSlabCount(ctx, fg.ID, fg.SlabCount, now); err != nil {
				return err
			}
		}
		current.SlabsShipped = newSlabs
		if in.ShippingCompany != nil {
			current.ShippingCompany = strings.TrimSpace(*in.ShippingCompany)
		}
		if in.ShippedAt != nil && !in.ShippedAt.IsZero() {
			current.ShippedAt = *in.ShippedAt
		}
		current.UpdatedAt = now
		if err := repos.Shipments.Update(ctx, current); err != nil {
			return err
		}
		block, err := repos.Blocks.GetByID(ctx, fg.BlockID)
		if err != nil {
			return err
		}
		result = &dto.ShipmentResultResponse{
			Shipment:     toShipment(current),
			FinishedGood: toFinishedGood(fg, block),
		}
		return nil
	})
	if err != nil {
		uc.logRejected(err, "edición de despacho rechazada", "shipment_id", shipmentID)
		return nil, domain.Storage("editar despacho", err)
	}
	uc.log.Info().Str("shipment_id", shipmentID).Int("slabs", result.Shipment.SlabsShipped).
		Int("remaining", result.FinishedGood.SlabCount).Msg("despacho editado")
	return result, nil
}

func (uc *InventoryUseCase) logRejected(err error, msg, key, value string) {
	if domain.IsDomainError(err) {
		uc.log.Warn().Err(err).Str(key, value).Msg(msg)
		return
	}
	uc.log.Error().Err(err).Str(key, value).Msg(msg)
}
