package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository sobre PostgreSQL.
// measurements y stoppage se guardan como JSONB; la variante se elige por la columna stage.
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador de trabajos. Pasar pool o tx (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, block_id, stage, status, start_time, end_time, measurements, machine_id,
	trolley_id, stoppage, notes, comment, photos, created_at, updated_at`

type jobRecord struct {
	measurements []byte
	stoppage     []byte
}

func scanJob(row pgx.Row) (*entity.ProductionJob, error) {
	var (
		j   entity.ProductionJob
		rec jobRecord
	)
	err := row.Scan(&j.ID, &j.BlockID, &j.Stage, &j.Status, &j.StartTime, &j.EndTime, &rec.measurements,
		&j.MachineID, &j.TrolleyID, &rec.stoppage, &j.Notes, &j.Comment, &j.Photos, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(rec.measurements) > 0 {
		m, err := entity.UnmarshalMeasurements(j.Stage, rec.measurements)
		if err != nil {
			return nil, fmt.Errorf("decode measurements of job %s: %w", j.ID, err)
		}
		j.Measurements = m
	}
	if len(rec.stoppage) > 0 {
		var s entity.Stoppage
		if err := json.Unmarshal(rec.stoppage, &s); err != nil {
			return nil, fmt.Errorf("decode stoppage of job %s: %w", j.ID, err)
		}
		j.Stoppage = &s
	}
	return &j, nil
}

func encodeJob(j *entity.ProductionJob) (jobRecord, error) {
	var rec jobRecord
	m, err := entity.MarshalMeasurements(j.Measurements)
	if err != nil {
		return rec, fmt.Errorf("encode measurements: %w", err)
	}
	rec.measurements = m
	if j.Stoppage != nil {
		s, err := json.Marshal(j.Stoppage)
		if err != nil {
			return rec, fmt.Errorf("encode stoppage: %w", err)
		}
		rec.stoppage = s
	}
	return rec, nil
}

// textArray nil -> {} para columnas TEXT[] NOT NULL.
func textArray(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

// Create inserta el trabajo. El índice único parcial sobre trabajos abiertos convierte
// un segundo trabajo abierto para (bloque, etapa) en ConflictError.
func (r *JobRepo) Create(ctx context.Context, j *entity.ProductionJob) error {
	rec, err := encodeJob(j)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO production_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		j.ID, j.BlockID, j.Stage, j.Status, j.StartTime, j.EndTime, rec.measurements, j.MachineID,
		j.TrolleyID, rec.stoppage, j.Notes, j.Comment, textArray(j.Photos), j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == openJobIndex {
			return &domain.ConflictError{BlockID: j.BlockID, Stage: string(j.Stage)}
		}
		if isForeignKeyViolation(err) {
			return domain.NotFound("bloque", j.BlockID)
		}
		return fmt.Errorf("create production job: %w", err)
	}
	return nil
}

// Update persiste estado, tiempos, mediciones y anotaciones. stage y block_id no cambian.
func (r *JobRepo) Update(ctx context.Context, j *entity.ProductionJob) error {
	rec, err := encodeJob(j)
	if err != nil {
		return err
	}
	query := `
		UPDATE production_jobs
		SET status = $2, start_time = $3, end_time = $4, measurements = $5, machine_id = $6,
		    trolley_id = $7, stoppage = $8, notes = $9, comment = $10, photos = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		j.ID, j.Status, j.StartTime, j.EndTime, rec.measurements, j.MachineID,
		j.TrolleyID, rec.stoppage, j.Notes, j.Comment, textArray(j.Photos), j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == openJobIndex {
			return &domain.ConflictError{BlockID: j.BlockID, Stage: string(j.Stage)}
		}
		return fmt.Errorf("update production job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("trabajo", j.ID)
	}
	return nil
}

func (r *JobRepo) getOne(ctx context.Context, op, query string, id string) (*entity.ProductionJob, error) {
	j, err := scanJob(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return j, nil
}

// GetByID obtiene un trabajo por ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.ProductionJob, error) {
	return r.getOne(ctx, "get production job", `SELECT `+jobColumns+` FROM production_jobs WHERE id = $1`, id)
}

// GetForUpdate obtiene el trabajo y bloquea la fila (SELECT FOR UPDATE).
func (r *JobRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionJob, error) {
	return r.getOne(ctx, "get production job for update",
		`SELECT `+jobColumns+` FROM production_jobs WHERE id = $1 FOR UPDATE`, id)
}

// ListByBlock historial del bloque en orden de creación.
func (r *JobRepo) ListByBlock(ctx context.Context, blockID string) ([]*entity.ProductionJob, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+jobColumns+` FROM production_jobs WHERE block_id = $1 ORDER BY created_at, id`, blockID)
	if err != nil {
		return nil, fmt.Errorf("list jobs by block: %w", err)
	}
	return collectJobs(rows)
}

// ListByStages trabajos de cualquiera de las etapas dadas.
func (r *JobRepo) ListByStages(ctx context.Context, stages ...entity.Stage) ([]*entity.ProductionJob, error) {
	if len(stages) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, string(s))
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+jobColumns+` FROM production_jobs WHERE stage = ANY($1) ORDER BY created_at, id`, names)
	if err != nil {
		return nil, fmt.Errorf("list jobs by stages: %w", err)
	}
	return collectJobs(rows)
}

func collectJobs(rows pgx.Rows) ([]*entity.ProductionJob, error) {
	defer rows.Close()
	var list []*entity.ProductionJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production job: %w", err)
		}
		list = append(list, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate production jobs: %w", err)
	}
	return list, nil
}
