package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/infrastructure/memory"
	"github.com/jhoicas/granite-api/pkg/logger"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fakeReport struct {
	summary *dto.StandSummaryResponse
	rows    []dto.StandOccupancyResponse
}

func (r *fakeReport) GenerateStandReport(_ context.Context, s *dto.StandSummaryResponse, rows []dto.StandOccupancyResponse) ([]byte, error) {
	r.summary, r.rows = s, rows
	return []byte("%PDF-1.3"), nil
}

type fixture struct {
	store  *memory.Store
	uc     *inventory.InventoryUseCase
	report *fakeReport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	report := &fakeReport{}
	uc := inventory.NewInventoryUseCase(store, store.Blocks(), store.Stands(), store.FinishedGoods(),
		store.Shipments(), report, logger.Nop())
	return &fixture{store: store, uc: uc, report: report}
}

func (f *fixture) addStand(t *testing.T, id, row string, position, capacity int) {
	t.Helper()
	created, err := f.store.Stands().Provision(context.Background(), &entity.Stand{
		ID: id, Row: row, Position: position, MaxCapacity: capacity, CreatedAt: t0,
	})
	require.NoError(t, err)
	require.True(t, created)
}

// addFinishedBlock registra un bloque de 126x78 pulgadas con pulido completado.
func (f *fixture) addFinishedBlock(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Blocks().Create(ctx, &entity.Block{
		ID: id, BlockNumber: "N-" + id, Type: "granite",
		Length: decimal.NewFromInt(126), Width: decimal.NewFromInt(60), Height: decimal.NewFromInt(78),
		Status: entity.BlockStatusFinished, ReceivedAt: t0, CreatedAt: t0, UpdatedAt: t0,
	}))
	start, end := t0, t0.Add(time.Hour)
	polish, err := entity.NewPolishingMeasurements("brillo", "A", 60)
	require.NoError(t, err)
	require.NoError(t, f.store.Jobs().Create(ctx, &entity.ProductionJob{
		ID: "J-" + id, BlockID: id, Stage: entity.StagePolishing, Status: entity.JobStatusCompleted,
		StartTime: &start, EndTime: &end, Measurements: polish, MachineID: "P-1",
		CreatedAt: t0, UpdatedAt: end,
	}))
}

func (f *fixture) addStock(t *testing.T, standID, blockID string, slabs int, quality string) *dto.StockResultResponse {
	t.Helper()
	res, err := f.uc.AddStock(context.Background(), dto.AddStockRequest{
		StandID: standID, BlockID: blockID, SlabCount: slabs, Quality: quality,
	})
	require.NoError(t, err)
	return res
}

func TestAddStock_ReturnsUpdatedOccupancy(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")

	res := f.addStock(t, "S1", "B1", 10, "premium")
	assert.Equal(t, 10, res.Stand.Used)
	assert.Equal(t, 190, res.Stand.Available)
	assert.Equal(t, "A-01", res.Stand.Label)
	assert.Equal(t, "0.05", res.Stand.Coverage.StringFixed(2))
	assert.Equal(t, "nominal", res.Stand.Band)
	assert.Equal(t, "600.00", res.FinishedGood.Area.StringFixed(2))
	assert.Equal(t, []string{}, res.FinishedGood.Media)
}

func TestScenarioB_CapacityExceededLeavesStandUnchanged(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	f.addStock(t, "S1", "B1", 195, "premium")

	_, err := f.uc.AddStock(context.Background(), dto.AddStockRequest{
		StandID: "S1", BlockID: "B1", SlabCount: 6, Quality: "premium",
	})
	var capErr *domain.CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 195, capErr.Current)
	assert.Equal(t, 6, capErr.Requested)
	assert.Equal(t, 5, capErr.Available())

	used, err := f.store.FinishedGoods().SumByStand(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 195, used)
}

func TestAddStock_RequiresPolishedBlock(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	require.NoError(t, f.store.Blocks().Create(context.Background(), &entity.Block{
		ID: "RAW", BlockNumber: "RAW-1", Length: decimal.NewFromInt(100), Width: decimal.NewFromInt(50),
		Height: decimal.NewFromInt(60), Status: entity.BlockStatusReceived, CreatedAt: t0,
	}))

	_, err := f.uc.AddStock(context.Background(), dto.AddStockRequest{
		StandID: "S1", BlockID: "RAW", SlabCount: 5, Quality: "standard",
	})
	assert.True(t, errors.Is(err, domain.ErrEligibility))
}

func TestAddStock_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AddStock(context.Background(), dto.AddStockRequest{StandID: "S1", BlockID: "B1", Quality: "x"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.AddStock(context.Background(), dto.AddStockRequest{StandID: "S9", BlockID: "B1", SlabCount: 1, Quality: "x"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAddStock_ConcurrentCallsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")

	var (
		mu       sync.Mutex
		accepted int
	)
	var g errgroup.Group
	for i := 0; i < 30; i++ {
		g.Go(func() error {
			_, err := f.uc.AddStock(context.Background(), dto.AddStockRequest{
				StandID: "S1", BlockID: "B1", SlabCount: 15, Quality: "premium",
			})
			if errors.Is(err, domain.ErrCapacityExceeded) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			accepted++
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	used, err := f.store.FinishedGoods().SumByStand(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 13, accepted)
	assert.Equal(t, 195, used)
}

func TestScenarioC_ShipUntilInsufficient(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	fg := f.addStock(t, "S1", "B1", 8, "premium").FinishedGood

	res, err := f.uc.ShipGoods(context.Background(), dto.ShipRequest{
		FinishedGoodID: fg.ID, SlabsShipped: 5, ShippingCompany: "Transportes Andes",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.FinishedGood.SlabCount)
	assert.Equal(t, 5, res.Shipment.SlabsShipped)

	_, err = f.uc.ShipGoods(context.Background(), dto.ShipRequest{
		FinishedGoodID: fg.ID, SlabsShipped: 5, ShippingCompany: "Transportes Andes",
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)

	got, err := f.store.FinishedGoods().GetByID(context.Background(), fg.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.SlabCount)

	shipments, err := f.uc.ListShipments(context.Background(), fg.ID)
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
}

func TestShipGoods_ConcurrentCallsNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	fg := f.addStock(t, "S1", "B1", 100, "premium").FinishedGood

	var (
		mu       sync.Mutex
		accepted int
		rejected int
	)
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := f.uc.ShipGoods(context.Background(), dto.ShipRequest{
				FinishedGoodID: fg.ID, SlabsShipped: 7, ShippingCompany: "Transportes Andes",
			})
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
				return nil
			}
			if err != nil {
				return err
			}
			accepted++
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 14, accepted)
	assert.Equal(t, 11, rejected)
	got, err := f.store.FinishedGoods().GetByID(context.Background(), fg.ID)
	require.NoError(t, err)
	assert.Equal(t, 100-7*accepted, got.SlabCount)

	shipments, err := f.uc.ListShipments(context.Background(), fg.ID)
	require.NoError(t, err)
	assert.Len(t, shipments, accepted)
}

func TestShipAndEditShipment_ConcurrentKeepStockConsistent(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	fg := f.addStock(t, "S1", "B1", 60, "premium").FinishedGood
	first, err := f.uc.ShipGoods(context.Background(), dto.ShipRequest{
		FinishedGoodID: fg.ID, SlabsShipped: 10, ShippingCompany: "Transportes Andes",
	})
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			var err error
			if i%2 == 0 {
				_, err = f.uc.ShipGoods(context.Background(), dto.ShipRequest{
					FinishedGoodID: fg.ID, SlabsShipped: 6, ShippingCompany: "Transportes Andes",
				})
			} else {
				qty := 5 + 3*i
				_, err = f.uc.EditShipment(context.Background(), first.Shipment.ID, dto.EditShipmentRequest{SlabsShipped: &qty})
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := f.store.FinishedGoods().GetByID(context.Background(), fg.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.SlabCount, 0)

	shipments, err := f.uc.ListShipments(context.Background(), fg.ID)
	require.NoError(t, err)
	shipped := 0
	for _, s := range shipments {
		shipped += s.SlabsShipped
	}
	assert.Equal(t, 60-shipped, got.SlabCount)
}

func TestEditShipment_RecomputesAgainstPreviousValue(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	fg := f.addStock(t, "S1", "B1", 8, "premium").FinishedGood

	shipped, err := f.uc.ShipGoods(context.Background(), dto.ShipRequest{
		FinishedGoodID: fg.ID, SlabsShipped: 5, ShippingCompany: "Transportes Andes",
	})
	require.NoError(t, err)
	id := shipped.Shipment.ID

	eight := 8
	res, err := f.uc.EditShipment(context.Background(), id, dto.EditShipmentRequest{SlabsShipped: &eight})
	require.NoError(t, err)
	assert.Equal(t, 0, res.FinishedGood.SlabCount)
	assert.Equal(t, 8, res.Shipment.SlabsShipped)

	nine := 9
	_, err = f.uc.EditShipment(context.Background(), id, dto.EditShipmentRequest{SlabsShipped: &nine})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 8, stockErr.Available)

	two := 2
	company := "Cargo Sur"
	res, err = f.uc.EditShipment(context.Background(), id, dto.EditShipmentRequest{SlabsShipped: &two, ShippingCompany: &company})
	require.NoError(t, err)
	assert.Equal(t, 6, res.FinishedGood.SlabCount)
	assert.Equal(t, "Cargo Sur", res.Shipment.ShippingCompany)
}

func TestEditShipment_NotFound(t *testing.T) {
	f := newFixture(t)
	one := 1
	_, err := f.uc.EditShipment(context.Background(), "missing", dto.EditShipmentRequest{SlabsShipped: &one})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetStandSummary_Aggregates(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)
	f.addStand(t, "S2", "A", 2, 200)
	f.addStand(t, "S3", "B", 1, 100)
	f.addFinishedBlock(t, "B1")
	f.addFinishedBlock(t, "B2")
	f.addStock(t, "S1", "B1", 10, "premium")
	f.addStock(t, "S1", "B2", 5, "standard")
	f.addStock(t, "S3", "B2", 95, "premium")

	summary, err := f.uc.GetStandSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, summary.TotalCapacity)
	assert.Equal(t, 110, summary.UsedCapacity)
	assert.Equal(t, 390, summary.AvailableCapacity)
	assert.Equal(t, "0.22", summary.Coverage.StringFixed(2))
	assert.Equal(t, map[string]int{"premium": 105, "standard": 5}, summary.QualityDistribution)
	// 10 ft x 6 ft por losa
	assert.Equal(t, "6600.00", summary.TotalArea.StringFixed(2))
	assert.Equal(t, 2, summary.OccupiedStands)
	assert.Equal(t, 3, summary.TotalStands)
	assert.Equal(t, 2, summary.Bands["nominal"])
	assert.Equal(t, 1, summary.Bands["critical"])
}

func TestListStands_SortedWithOccupancy(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S3", "B", 1, 200)
	f.addStand(t, "S2", "A", 2, 200)
	f.addStand(t, "S1", "A", 1, 200)
	f.addFinishedBlock(t, "B1")
	f.addStock(t, "S2", "B1", 150, "premium")

	stands, err := f.uc.ListStands(context.Background())
	require.NoError(t, err)
	require.Len(t, stands, 3)
	assert.Equal(t, []string{"A-01", "A-02", "B-01"}, []string{stands[0].Label, stands[1].Label, stands[2].Label})
	assert.Equal(t, 150, stands[1].Used)
	assert.Equal(t, "high", stands[1].Band)

	detail, err := f.uc.GetStand(context.Background(), "S2")
	require.NoError(t, err)
	assert.Equal(t, 150, detail.Stand.Used)
	assert.Len(t, detail.Stock, 1)
}

func TestProvisionStands_Idempotent(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.ProvisionStands(context.Background(), 2, 3, 200)
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	created, err = f.uc.ProvisionStands(context.Background(), 2, 4, 200)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	stands, err := f.uc.ListStands(context.Background())
	require.NoError(t, err)
	assert.Len(t, stands, 8)
	assert.Equal(t, "B-04", stands[7].Label)
}

func TestStandReport_PassesSummaryToGenerator(t *testing.T) {
	f := newFixture(t)
	f.addStand(t, "S1", "A", 1, 200)

	pdf, err := f.uc.StandReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	require.NotNil(t, f.report.summary)
	assert.Equal(t, 200, f.report.summary.TotalCapacity)
	assert.Len(t, f.report.rows, 1)
}
