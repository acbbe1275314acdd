package memory

import (
	"context"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// JobRepo implementa repository.JobRepository.
// Create rechaza un segundo trabajo abierto para (bloque, etapa), como el índice único parcial en Postgres.
type JobRepo struct{ a access }

func (r *JobRepo) Create(_ context.Context, job *entity.ProductionJob) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.blocks[job.BlockID]; !ok {
			return domain.NotFound("bloque", job.BlockID)
		}
		if !job.Status.Terminal() {
			for _, j := range st.jobs {
				if j.BlockID == job.BlockID && j.Stage == job.Stage && !j.Status.Terminal() {
					return &domain.ConflictError{BlockID: job.BlockID, Stage: string(job.Stage), JobID: j.ID}
				}
			}
		}
		st.jobs[job.ID] = job.Clone()
		return nil
	})
}

func (r *JobRepo) Update(_ context.Context, job *entity.ProductionJob) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.jobs[job.ID]; !ok {
			return domain.NotFound("trabajo", job.ID)
		}
		st.jobs[job.ID] = job.Clone()
		return nil
	})
}

func (r *JobRepo) GetByID(_ context.Context, id string) (*entity.ProductionJob, error) {
	var out *entity.ProductionJob
	err := r.a.do(func(st *state) error {
		if j, ok := st.jobs[id]; ok {
			out = j.Clone()
		}
		return nil
	})
	return out, err
}

func (r *JobRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionJob, error) {
	return r.GetByID(ctx, id)
}

func (r *JobRepo) ListByBlock(_ context.Context, blockID string) ([]*entity.ProductionJob, error) {
	return r.list(func(j *entity.ProductionJob) bool { return j.BlockID == blockID })
}

func (r *JobRepo) ListByStages(_ context.Context, stages ...entity.Stage) ([]*entity.ProductionJob, error) {
	want := make(map[entity.Stage]bool, len(stages))
	for _, s := range stages {
		want[s] = true
	}
	return r.list(func(j *entity.ProductionJob) bool { return want[j.Stage] })
}

func (r *JobRepo) list(match func(*entity.ProductionJob) bool) ([]*entity.ProductionJob, error) {
	var out []*entity.ProductionJob
	err := r.a.do(func(st *state) error {
		for _, j := range st.jobs {
			if match(j) {
				out = append(out, j.Clone())
			}
		}
		return nil
	})
	sortByCreated(out,
		func(j *entity.ProductionJob) int64 { return j.CreatedAt.UnixNano() },
		func(j *entity.ProductionJob) string { return j.ID })
	return out, err
}
