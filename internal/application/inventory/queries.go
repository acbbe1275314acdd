package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/measurement"
)

// ListStands ocupación de todos los stands, ordenados por fila y posición.
func (uc *InventoryUseCase) ListStands(ctx context.Context) ([]dto.StandOccupancyResponse, error) {
	stands, stock, err := uc.loadStandsAndStock(ctx)
	if err != nil {
		return nil, err
	}
	used := usedByStand(stock)
	out := make([]dto.StandOccupancyResponse, 0, len(stands))
	for _, s := range stands {
		out = append(out, toStandOccupancy(s, used[s.ID]))
	}
	return out, nil
}

// GetStand un stand con su ocupación y el stock en existencia.
func (uc *InventoryUseCase) GetStand(ctx context.Context, id string) (*dto.StandDetailResponse, error) {
	stand, err := uc.standRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener stand", err)
	}
	if stand == nil {
		return nil, domain.NotFound("stand", id)
	}
	stock, err := uc.standStock(ctx, id)
	if err != nil {
		return nil, err
	}
	used := 0
	for _, fg := range stock {
		used += fg.SlabCount
	}
	return &dto.StandDetailResponse{Stand: toStandOccupancy(stand, used), Stock: stock}, nil
}

// ListStandStock productos terminados del stand, incluidos los que quedaron en cero.
func (uc *InventoryUseCase) ListStandStock(ctx context.Context, standID string) ([]dto.FinishedGoodResponse, error) {
	stand, err := uc.standRepo.GetByID(ctx, standID)
	if err != nil {
		return nil, domain.Storage("obtener stand", err)
	}
	if stand == nil {
		return nil, domain.NotFound("stand", standID)
	}
	return uc.standStock(ctx, standID)
}

func (uc *InventoryUseCase) standStock(ctx context.Context, standID string) ([]dto.FinishedGoodResponse, error) {
	list, err := uc.fgRepo.ListByStand(ctx, standID)
	if err != nil {
		return nil, domain.Storage("listar stock del stand", err)
	}
	blocks, err := uc.blocksFor(ctx, list)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FinishedGoodResponse, 0, len(list))
	for _, fg := range list {
		out = append(out, toFinishedGood(fg, blocks[fg.BlockID]))
	}
	return out, nil
}

// ListShipments despachos de un producto terminado, del más antiguo al más reciente.
func (uc *InventoryUseCase) ListShipments(ctx context.Context, finishedGoodID string) ([]dto.ShipmentResponse, error) {
	fg, err := uc.fgRepo.GetByID(ctx, finishedGoodID)
	if err != nil {
		return nil, domain.Storage("obtener producto terminado", err)
	}
	if fg == nil {
		return nil, domain.NotFound("producto terminado", finishedGoodID)
	}
	list, err := uc.shipmentRepo.ListByFinishedGood(ctx, finishedGoodID)
	if err != nil {
		return nil, domain.Storage("listar despachos", err)
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toShipment(s))
	}
	return out, nil
}

// GetStandSummary agregado de todos los stands: capacidad total y usada, distribución de
// calidades en losas, área total en pies cuadrados y cantidad de stands por banda.
// Lectura sin bloqueo; puede quedar desactualizada frente a escrituras concurrentes.
func (uc *InventoryUseCase) GetStandSummary(ctx context.Context) (*dto.StandSummaryResponse, error) {
	stands, stock, err := uc.loadStandsAndStock(ctx)
	if err != nil {
		return nil, err
	}
	summary, _, err := uc.summarize(ctx, stands, stock)
	return summary, err
}

func (uc *InventoryUseCase) summarize(
	ctx context.Context,
	stands []*entity.Stand,
	stock []*entity.FinishedGood,
) (*dto.StandSummaryResponse, []dto.StandOccupancyResponse, error) {
	blocks, err := uc.blocksFor(ctx, stock)
	if err != nil {
		return nil, nil, err
	}
	used := usedByStand(stock)

	out := &dto.StandSummaryResponse{
		QualityDistribution: map[string]int{},
		TotalArea:           decimal.Zero,
		TotalStands:         len(stands),
		Bands: map[string]int{
			measurement.BandNominal:  0,
			measurement.BandModerate: 0,
			measurement.BandHigh:     0,
			measurement.BandCritical: 0,
		},
		GeneratedAt: time.Now().UTC(),
	}
	rows := make([]dto.StandOccupancyResponse, 0, len(stands))
	for _, s := range stands {
		occ := toStandOccupancy(s, used[s.ID])
		rows = append(rows, occ)
		out.TotalCapacity += s.MaxCapacity
		out.UsedCapacity += occ.Used
		out.Bands[occ.Band]++
		if occ.Used > 0 {
			out.OccupiedStands++
		}
	}
	for _, fg := range stock {
		out.QualityDistribution[fg.Quality] += fg.SlabCount
		if b := blocks[fg.BlockID]; b != nil {
			out.TotalArea = out.TotalArea.Add(measurement.Area(b.Length, b.Height, fg.SlabCount))
		}
	}
	out.AvailableCapacity = out.TotalCapacity - out.UsedCapacity
	if out.AvailableCapacity < 0 {
		out.AvailableCapacity = 0
	}
	out.Coverage = measurement.Occupancy(out.UsedCapacity, out.TotalCapacity)
	return out, rows, nil
}

// StandReport PDF con el resumen y la tabla de ocupación por stand.
func (uc *InventoryUseCase) StandReport(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, domain.Storage("generar reporte de stands", fmt.Errorf("generador de reportes no configurado"))
	}
	stands, stock, err := uc.loadStandsAndStock(ctx)
	if err != nil {
		return nil, err
	}
	summary, rows, err := uc.summarize(ctx, stands, stock)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.report.GenerateStandReport(ctx, summary, rows)
	if err != nil {
		return nil, domain.Storage("generar reporte de stands", err)
	}
	return pdf, nil
}

// ProvisionStands crea los stands faltantes de la grilla filas x posiciones (filas A, B, ...).
// Es idempotente: los stands existentes no cambian. Devuelve cuántos creó.
func (uc *InventoryUseCase) ProvisionStands(ctx context.Context, rows, positions, capacity int) (int, error) {
	if rows <= 0 || rows > 26 {
		return 0, domain.Invalid("rows", "debe estar entre 1 y 26")
	}
	if positions <= 0 {
		return 0, domain.Invalid("positions", "debe ser mayor que cero")
	}
	if capacity <= 0 {
		return 0, domain.Invalid("capacity", "debe ser mayor que cero")
	}
	now := time.Now()
	created := 0
	for r := 0; r < rows; r++ {
		row := string(rune('A' + r))
		for p := 1; p <= positions; p++ {
			ok, err := uc.standRepo.Provision(ctx, &entity.Stand{
				ID:          uuid.New().String(),
				Row:         row,
				Position:    p,
				MaxCapacity: capacity,
				CreatedAt:   now,
			})
			if err != nil {
				return created, domain.Storage("aprovisionar stands", err)
			}
			if ok {
				created++
			}
		}
	}
	uc.log.Info().Int("rows", rows).Int("positions", positions).Int("created", created).Msg("stands aprovisionados")
	return created, nil
}

// loadStandsAndStock lee stands y stock en existencia en paralelo.
func (uc *InventoryUseCase) loadStandsAndStock(ctx context.Context) ([]*entity.Stand, []*entity.FinishedGood, error) {
	var (
		stands []*entity.Stand
		stock  []*entity.FinishedGood
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stands, err = uc.standRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stock, err = uc.fgRepo.ListInStock(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, domain.Storage("leer ocupación de stands", err)
	}
	sort.Slice(stands, func(i, j int) bool {
		if stands[i].Row != stands[j].Row {
			return stands[i].Row < stands[j].Row
		}
		return stands[i].Position < stands[j].Position
	})
	return stands, stock, nil
}

func (uc *InventoryUseCase) blocksFor(ctx context.Context, list []*entity.FinishedGood) (map[string]*entity.Block, error) {
	seen := make(map[string]bool, len(list))
	ids := make([]string, 0, len(list))
	for _, fg := range list {
		if !seen[fg.BlockID] {
			seen[fg.BlockID] = true
			ids = append(ids, fg.BlockID)
		}
	}
	out := make(map[string]*entity.Block, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	blocks, err := uc.blockRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Storage("obtener bloques del stock", err)
	}
	for _, b := range blocks {
		out[b.ID] = b
	}
	return out, nil
}

func usedByStand(stock []*entity.FinishedGood) map[string]int {
	used := make(map[string]int)
	for _, fg := range stock {
		used[fg.StandID] += fg.SlabCount
	}
	return used
}
