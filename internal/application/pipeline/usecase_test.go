package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/infrastructure/memory"
	"github.com/jhoicas/granite-api/pkg/logger"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	uc    *pipeline.PipelineUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uc := pipeline.NewPipelineUseCase(store, store.Blocks(), store.Jobs(), logger.Nop())
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addBlock(t *testing.T, id, number string) {
	t.Helper()
	require.NoError(t, f.store.Blocks().Create(context.Background(), &entity.Block{
		ID:          id,
		BlockNumber: number,
		Type:        "granite",
		Length:      decimal.NewFromInt(126),
		Width:       decimal.NewFromInt(60),
		Height:      decimal.NewFromInt(78),
		Status:      entity.BlockStatusReceived,
		ReceivedAt:  t0,
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}))
}

func (f *fixture) start(t *testing.T, blockID string, stage entity.Stage, at time.Time) *dto.JobResponse {
	t.Helper()
	job, err := f.uc.StartJob(context.Background(), dto.StartJobRequest{
		BlockID: blockID, Stage: string(stage), MachineID: "M-01", StartTime: at,
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) complete(t *testing.T, jobID string, end time.Time, measurements string) *dto.JobResponse {
	t.Helper()
	job, err := f.uc.CompleteJobFromRequest(context.Background(), jobID, dto.CompleteJobRequest{
		EndTime:      &end,
		Measurements: json.RawMessage(measurements),
	})
	require.NoError(t, err)
	return job
}

const cuttingJSON = `{"slab_count":10,"slab_thickness_mm":"20","blade":"diamante"}`

func TestStartJob_CuttingMarksBlockInProduction(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")

	job := f.start(t, "B1", entity.StageCutting, t0)
	assert.Equal(t, "in_progress", job.Status)
	assert.Equal(t, "cutting", job.Stage)

	block, err := f.store.Blocks().GetByID(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlockStatusInProduction, block.Status)
}

func TestStartJob_UnknownBlock(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartJob(context.Background(), dto.StartJobRequest{
		BlockID: "nope", Stage: "cutting", MachineID: "M-01", StartTime: t0,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStartJob_RequiresPreviousStage(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")

	_, err := f.uc.StartJob(context.Background(), dto.StartJobRequest{
		BlockID: "B1", Stage: "grinding", MachineID: "M-01", StartTime: t0,
	})
	var elig *domain.EligibilityError
	require.True(t, errors.As(err, &elig))
	assert.Equal(t, "cutting", elig.Required)
}

func TestScenarioD_SecondStartConflicts(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	cut := f.start(t, "B1", entity.StageCutting, t0)
	f.complete(t, cut.ID, t0.Add(2*time.Hour), cuttingJSON)

	eligible, err := f.uc.GetEligibleBlocks(context.Background(), "grinding")
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "B1", eligible[0].ID)

	grind := f.start(t, "B1", entity.StageGrinding, t0.Add(3*time.Hour))

	_, err = f.uc.StartJob(context.Background(), dto.StartJobRequest{
		BlockID: "B1", Stage: "grinding", MachineID: "M-02", StartTime: t0.Add(4 * time.Hour),
	})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, grind.ID, conflict.JobID)

	eligible, err = f.uc.GetEligibleBlocks(context.Background(), "grinding")
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestStartJob_ConcurrentStartsSingleWinner(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")

	const n = 16
	var (
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.uc.StartJob(context.Background(), dto.StartJobRequest{
				BlockID: "B1", Stage: "cutting", MachineID: "M-01", StartTime: t0,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	jobs, err := f.uc.ListBlockJobs(context.Background(), "B1")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestScenarioE_CompleteWithoutEndTimeKeepsJobInProgress(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	job := f.start(t, "B1", entity.StageCutting, t0)

	_, err := f.uc.CompleteJobFromRequest(context.Background(), job.ID, dto.CompleteJobRequest{
		Measurements: json.RawMessage(cuttingJSON),
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	got, err := f.uc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)
	assert.Nil(t, got.EndTime)
}

func TestCompleteJob_RejectsFieldsOfAnotherStage(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	job := f.start(t, "B1", entity.StageCutting, t0)
	end := t0.Add(time.Hour)

	_, err := f.uc.CompleteJobFromRequest(context.Background(), job.ID, dto.CompleteJobRequest{
		EndTime:      &end,
		Measurements: json.RawMessage(`{"slab_count":10,"slab_thickness_mm":"20","abrasive_grit":"60"}`),
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSkipStage_RequiresCommentAndUnlocksNextStage(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	cut := f.start(t, "B1", entity.StageCutting, t0)
	f.complete(t, cut.ID, t0.Add(time.Hour), cuttingJSON)

	_, err := f.uc.SkipStage(context.Background(), dto.SkipStageRequest{BlockID: "B1", Stage: "grinding"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	skipped, err := f.uc.SkipStage(context.Background(), dto.SkipStageRequest{
		BlockID: "B1", Stage: "grinding", Comment: "losas ya calibradas",
	})
	require.NoError(t, err)
	assert.Equal(t, "skipped", skipped.Status)
	assert.Nil(t, skipped.StartTime)
	assert.Nil(t, skipped.Measurements)

	res, err := f.uc.CheckEligibility(context.Background(), "B1", "chemical_conversion")
	require.NoError(t, err)
	assert.True(t, res.Eligible)
}

func TestPlanThenSkipJob(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")

	planned, err := f.uc.PlanJob(context.Background(), dto.PlanJobRequest{BlockID: "B1", Stage: "cutting"})
	require.NoError(t, err)
	assert.Equal(t, "pending", planned.Status)

	_, err = f.uc.SkipJob(context.Background(), planned.ID, "  ")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	skipped, err := f.uc.SkipJob(context.Background(), planned.ID, "bloque pre-cortado por el proveedor")
	require.NoError(t, err)
	assert.Equal(t, "skipped", skipped.Status)
	assert.Equal(t, "bloque pre-cortado por el proveedor", skipped.Comment)
}

func TestFailedAttemptAllowsRetry(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	first := f.start(t, "B1", entity.StageCutting, t0)

	failed, err := f.uc.FailJob(context.Background(), first.ID, dto.FailJobRequest{Reason: "disco fisurado"})
	require.NoError(t, err)
	assert.Equal(t, "failed", failed.Status)

	res, err := f.uc.CheckEligibility(context.Background(), "B1", "grinding")
	require.NoError(t, err)
	assert.False(t, res.Eligible)

	second := f.start(t, "B1", entity.StageCutting, t0.Add(time.Hour))
	f.complete(t, second.ID, t0.Add(3*time.Hour), cuttingJSON)

	jobs, err := f.uc.ListBlockJobs(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "failed", jobs[0].Status)
	assert.Equal(t, "completed", jobs[1].Status)
}

func TestPauseResumeKeepsStageOpen(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	job := f.start(t, "B1", entity.StageCutting, t0)

	paused, err := f.uc.PauseJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "paused", paused.Status)

	res, err := f.uc.CheckEligibility(context.Background(), "B1", "cutting")
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, job.ID, res.OpenJobID)

	resumed, err := f.uc.ResumeJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resumed.Status)

	cancelled, err := f.uc.CancelJob(context.Background(), job.ID, "cambio de prioridad")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func advanceTo(t *testing.T, f *fixture, blockID string, stage entity.Stage) time.Time {
	t.Helper()
	at := t0
	for _, s := range entity.Stages {
		if s == stage {
			return at
		}
		_, err := f.uc.SkipStage(context.Background(), dto.SkipStageRequest{
			BlockID: blockID, Stage: string(s), Comment: "no aplica",
		})
		require.NoError(t, err)
		at = at.Add(time.Hour)
	}
	return at
}

func TestCompleteEpoxy_DerivesAreaAndCoverage(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	at := advanceTo(t, f, "B1", entity.StageEpoxy)
	job := f.start(t, "B1", entity.StageEpoxy, at)

	done := f.complete(t, job.ID, at.Add(time.Hour),
		`{"epoxy_type":"transparente","slab_count":10,"resin_issue":"12","resin_return":"2","hardener_issue":"6","hardener_return":"0"}`)

	m, ok := done.Measurements.(*entity.EpoxyMeasurements)
	require.True(t, ok)
	assert.Equal(t, "600.00", m.TotalArea.StringFixed(2))
	assert.Equal(t, "16", m.TotalNet.String())
	require.NotNil(t, m.Coverage)
	assert.Equal(t, "37.50", m.Coverage.StringFixed(2))
	assert.Empty(t, done.Warnings)
}

func TestCompleteEpoxy_NegativeNetIsKeptAndReported(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	at := advanceTo(t, f, "B1", entity.StageEpoxy)
	job := f.start(t, "B1", entity.StageEpoxy, at)

	done := f.complete(t, job.ID, at.Add(time.Hour),
		`{"epoxy_type":"transparente","slab_count":10,"resin_issue":"2","resin_return":"5","hardener_issue":"1","hardener_return":"1"}`)

	m := done.Measurements.(*entity.EpoxyMeasurements)
	assert.Equal(t, "-3", m.ResinNet.String())
	assert.Equal(t, "-3", m.TotalNet.String())
	assert.NotEmpty(t, done.Warnings)
}

func TestCompletePolishing_FinishesBlock(t *testing.T) {
	f := newFixture(t)
	f.addBlock(t, "B1", "GR-001")
	at := advanceTo(t, f, "B1", entity.StagePolishing)
	job := f.start(t, "B1", entity.StagePolishing, at)

	f.complete(t, job.ID, at.Add(time.Hour),
		`{"polish_grade":"brillo","surface_quality":"A","polishing_minutes":90}`)

	block, err := f.store.Blocks().GetByID(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlockStatusFinished, block.Status)
}

func TestSkipStagePolishing_FinishesBlockLikeSkipJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addBlock(t, "B1", "GR-001")
	advanceTo(t, f, "B1", entity.StagePolishing)
	_, err := f.uc.SkipStage(ctx, dto.SkipStageRequest{BlockID: "B1", Stage: "polishing", Comment: "no aplica"})
	require.NoError(t, err)

	f.addBlock(t, "B2", "GR-002")
	advanceTo(t, f, "B2", entity.StagePolishing)
	planned, err := f.uc.PlanJob(ctx, dto.PlanJobRequest{BlockID: "B2", Stage: "polishing"})
	require.NoError(t, err)
	_, err = f.uc.SkipJob(ctx, planned.ID, "no aplica")
	require.NoError(t, err)

	for _, id := range []string{"B1", "B2"} {
		block, err := f.store.Blocks().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.BlockStatusFinished, block.Status, id)
	}
}

func TestSkipStagePolishing_KeepsArchivedBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBlock(t, "B1", "GR-001")
	advanceTo(t, f, "B1", entity.StagePolishing)
	require.NoError(t, f.store.Blocks().UpdateStatus(ctx, "B1", entity.BlockStatusArchived, t0))

	_, err := f.uc.SkipStage(ctx, dto.SkipStageRequest{BlockID: "B1", Stage: "polishing", Comment: "no aplica"})
	require.NoError(t, err)

	block, err := f.store.Blocks().GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlockStatusArchived, block.Status)
}

func TestGetEligibleBlocks_UnknownStage(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetEligibleBlocks(context.Background(), "sanding")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
