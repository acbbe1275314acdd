package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/application/usecase"
	"github.com/jhoicas/granite-api/internal/infrastructure/memory"
	"github.com/jhoicas/granite-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/granite-api/internal/interfaces/http"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app       *fiber.App
	inventory *inventory.InventoryUseCase
}

// buildTestApp arma la API completa sobre el almacén en memoria.
func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	blockUC := usecase.NewBlockUseCase(store.Blocks(), log)
	pipelineUC := pipeline.NewPipelineUseCase(store, store.Blocks(), store.Jobs(), log)
	inventoryUC := inventory.NewInventoryUseCase(store, store.Blocks(), store.Stands(), store.FinishedGoods(),
		store.Shipments(), pdf.NewMarotoStandReport("Granite Works", language.Spanish), log)

	app := apphttp.NewApp("granite-api-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		BlockUC:     blockUC,
		PipelineUC:  pipelineUC,
		InventoryUC: inventoryUC,
	})
	return &testAPI{app: app, inventory: inventoryUC}
}

// do ejecuta la petición y devuelve status y cuerpo.
func (a *testAPI) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (a *testAPI) createBlock(t *testing.T, number string) dto.BlockResponse {
	t.Helper()
	status, raw := a.do(t, http.MethodPost, "/api/blocks",
		`{"block_number":"`+number+`","type":"granite","length":126,"width":60,"height":78,"weight":"18000","quality":"A"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	return decode[dto.BlockResponse](t, raw)
}

func (a *testAPI) skipAll(t *testing.T, blockID string) {
	t.Helper()
	for _, stage := range []string{"cutting", "grinding", "chemical_conversion", "epoxy", "polishing"} {
		status, raw := a.do(t, http.MethodPost, "/api/jobs/skip-stage",
			`{"block_id":"`+blockID+`","stage":"`+stage+`","comment":"bloque de prueba"}`)
		require.Equal(t, fiber.StatusCreated, status, string(raw))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloques
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	api := buildTestApp(t)
	status, raw := api.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), `"status":"ok"`)
}

func TestBlocks_CreateGetAndErrors(t *testing.T) {
	api := buildTestApp(t)
	block := api.createBlock(t, "GR-100")
	assert.Equal(t, "received", block.Status)
	assert.True(t, block.RoundedLengthFt.Equal(decimal.NewFromInt(10)), block.RoundedLengthFt.String())

	status, raw := api.do(t, http.MethodGet, "/api/blocks/"+block.ID, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "GR-100", decode[dto.BlockResponse](t, raw).BlockNumber)

	status, raw = api.do(t, http.MethodGet, "/api/blocks/no-existe", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = api.do(t, http.MethodPost, "/api/blocks",
		`{"block_number":"GR-100","length":10,"width":10,"height":10}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = api.do(t, http.MethodPost, "/api/blocks",
		`{"block_number":"GR-101","length":0,"width":10,"height":10}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "length", errResp.Details["field"])

	status, raw = api.do(t, http.MethodPost, "/api/blocks", `{"block_number":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestBlocks_ListAndStatus(t *testing.T) {
	api := buildTestApp(t)
	a := api.createBlock(t, "GR-1")
	api.createBlock(t, "GR-2")

	status, raw := api.do(t, http.MethodPatch, "/api/blocks/"+a.ID+"/status", `{"status":"archived"}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "archived", decode[dto.BlockResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodGet, "/api/blocks?status=received", "")
	require.Equal(t, fiber.StatusOK, status)
	list := decode[dto.BlockListResponse](t, raw)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "GR-2", list.Items[0].BlockNumber)

	status, _ = api.do(t, http.MethodPatch, "/api/blocks/"+a.ID+"/status", `{"status":"melted"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Motor de etapas
// ──────────────────────────────────────────────────────────────────────────────

func TestJobs_StageOrderAndConflicts(t *testing.T) {
	api := buildTestApp(t)
	block := api.createBlock(t, "GR-200")

	status, raw := api.do(t, http.MethodPost, "/api/jobs",
		`{"block_id":"`+block.ID+`","stage":"grinding","machine_id":"G-1","start_time":"2026-03-02T08:00:00Z"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	notEligible := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "NOT_ELIGIBLE", notEligible.Code)
	assert.Equal(t, "cutting", notEligible.Details["required"])

	status, raw = api.do(t, http.MethodPost, "/api/jobs",
		`{"block_id":"`+block.ID+`","stage":"cutting","machine_id":"C-1","start_time":"2026-03-02T08:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	job := decode[dto.JobResponse](t, raw)
	assert.Equal(t, "in_progress", job.Status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs",
		`{"block_id":"`+block.ID+`","stage":"cutting","machine_id":"C-2","start_time":"2026-03-02T09:00:00Z"}`)
	require.Equal(t, fiber.StatusConflict, status)
	conflict := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "CONFLICT", conflict.Code)
	assert.Equal(t, job.ID, conflict.Details["open_job_id"])

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/complete",
		`{"end_time":"2026-03-02T07:00:00Z","measurements":{"slab_count":10,"slab_thickness_mm":"20","blade":"diamante"}}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "end_time", decode[dto.ErrorResponse](t, raw).Details["field"])

	status, raw = api.do(t, http.MethodGet, "/api/jobs/"+job.ID, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "in_progress", decode[dto.JobResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/complete",
		`{"end_time":"2026-03-02T10:00:00Z","measurements":{"slab_count":10,"slab_thickness_mm":"20","blade":"diamante"}}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "completed", decode[dto.JobResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodGet, "/api/blocks/"+block.ID+"/eligibility?stage=grinding", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[dto.EligibilityResponse](t, raw).Eligible)

	status, raw = api.do(t, http.MethodGet, "/api/pipeline/grinding/eligible-blocks", "")
	require.Equal(t, fiber.StatusOK, status)
	eligible := decode[[]dto.BlockResponse](t, raw)
	require.Len(t, eligible, 1)
	assert.Equal(t, block.ID, eligible[0].ID)

	status, raw = api.do(t, http.MethodGet, "/api/blocks/"+block.ID+"/jobs", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.JobResponse](t, raw), 1)
}

func TestJobs_PlanBeginPauseCancel(t *testing.T) {
	api := buildTestApp(t)
	block := api.createBlock(t, "GR-300")

	status, raw := api.do(t, http.MethodPost, "/api/jobs/plan", `{"block_id":"`+block.ID+`","stage":"cutting"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	job := decode[dto.JobResponse](t, raw)
	assert.Equal(t, "pending", job.Status)

	status, _ = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/begin", `{"start_time":"2026-03-02T08:00:00Z"}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "machine_id es requerido")

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/begin",
		`{"machine_id":"C-1","start_time":"2026-03-02T08:00:00Z"}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "in_progress", decode[dto.JobResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/pause", "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "paused", decode[dto.JobResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/resume", "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "in_progress", decode[dto.JobResponse](t, raw).Status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/cancel", "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, "cancelled", decode[dto.JobResponse](t, raw).Status)

	status, _ = api.do(t, http.MethodPost, "/api/jobs/no-existe/pause", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, raw = api.do(t, http.MethodPost, "/api/jobs/skip-stage", `{"block_id":"`+block.ID+`","stage":"cutting"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "comment", decode[dto.ErrorResponse](t, raw).Details["field"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_StockShipAndEdit(t *testing.T) {
	api := buildTestApp(t)
	_, err := api.inventory.ProvisionStands(context.Background(), 1, 1, 10)
	require.NoError(t, err)

	block := api.createBlock(t, "GR-400")

	status, raw := api.do(t, http.MethodGet, "/api/stands", "")
	require.Equal(t, fiber.StatusOK, status)
	stands := decode[[]dto.StandOccupancyResponse](t, raw)
	require.Len(t, stands, 1)
	standID := stands[0].ID
	assert.Equal(t, "A-01", stands[0].Label)

	status, raw = api.do(t, http.MethodPost, "/api/finished-goods",
		`{"stand_id":"`+standID+`","block_id":"`+block.ID+`","slab_count":8,"quality":"A"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status, "sin pulido no hay inventario")
	assert.Equal(t, "NOT_ELIGIBLE", decode[dto.ErrorResponse](t, raw).Code)

	api.skipAll(t, block.ID)

	status, raw = api.do(t, http.MethodPost, "/api/finished-goods",
		`{"stand_id":"`+standID+`","block_id":"`+block.ID+`","slab_count":8,"quality":"A"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	stock := decode[dto.StockResultResponse](t, raw)
	assert.Equal(t, 8, stock.Stand.Used)
	fgID := stock.FinishedGood.ID

	status, raw = api.do(t, http.MethodPost, "/api/finished-goods",
		`{"stand_id":"`+standID+`","block_id":"`+block.ID+`","slab_count":5,"quality":"A"}`)
	require.Equal(t, fiber.StatusConflict, status)
	capErr := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "CAPACITY_EXCEEDED", capErr.Code)
	assert.EqualValues(t, 8, capErr.Details["current"])
	assert.EqualValues(t, 2, capErr.Details["available"])

	status, raw = api.do(t, http.MethodPost, "/api/shipments",
		`{"finished_good_id":"`+fgID+`","slabs_shipped":3,"shipping_company":"TransCargo"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	shipped := decode[dto.ShipmentResultResponse](t, raw)
	assert.Equal(t, 5, shipped.FinishedGood.SlabCount)

	status, raw = api.do(t, http.MethodPost, "/api/shipments",
		`{"finished_good_id":"`+fgID+`","slabs_shipped":6,"shipping_company":"TransCargo"}`)
	require.Equal(t, fiber.StatusConflict, status)
	stockErr := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.Code)
	assert.EqualValues(t, 5, stockErr.Details["available"])

	status, raw = api.do(t, http.MethodPut, "/api/shipments/"+shipped.Shipment.ID, `{"slabs_shipped":8}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.Equal(t, 0, decode[dto.ShipmentResultResponse](t, raw).FinishedGood.SlabCount)

	status, raw = api.do(t, http.MethodGet, "/api/finished-goods/"+fgID+"/shipments", "")
	require.Equal(t, fiber.StatusOK, status)
	history := decode[[]dto.ShipmentResponse](t, raw)
	require.Len(t, history, 1)
	assert.Equal(t, 8, history[0].SlabsShipped)

	status, raw = api.do(t, http.MethodGet, "/api/stands/summary", "")
	require.Equal(t, fiber.StatusOK, status)
	summary := decode[dto.StandSummaryResponse](t, raw)
	assert.Equal(t, 10, summary.TotalCapacity)
	assert.Equal(t, 0, summary.UsedCapacity)

	status, _ = api.do(t, http.MethodGet, "/api/stands/no-existe", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestInventory_ReportPDF(t *testing.T) {
	api := buildTestApp(t)
	_, err := api.inventory.ProvisionStands(context.Background(), 1, 2, 200)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stands/report.pdf", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
