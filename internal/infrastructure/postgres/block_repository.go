package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var _ repository.BlockRepository = (*BlockRepo)(nil)

// BlockRepo implementación de BlockRepository sobre PostgreSQL (usable con pool o tx).
type BlockRepo struct {
	q Querier
}

// NewBlockRepository construye el adaptador de bloques. Pasar pool o tx (Querier).
func NewBlockRepository(q Querier) *BlockRepo {
	return &BlockRepo{q: q}
}

const blockColumns = `id, block_number, type, length, width, height, weight, color, quality, density,
	status, received_at, created_at, updated_at`

func scanBlock(row pgx.Row) (*entity.Block, error) {
	var b entity.Block
	err := row.Scan(&b.ID, &b.BlockNumber, &b.Type, &b.Length, &b.Width, &b.Height, &b.Weight,
		&b.Color, &b.Quality, &b.Density, &b.Status, &b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta un bloque. Un número de bloque repetido devuelve ConflictError.
func (r *BlockRepo) Create(ctx context.Context, b *entity.Block) error {
	query := `
		INSERT INTO blocks (` + blockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.BlockNumber, b.Type, b.Length, b.Width, b.Height, b.Weight,
		b.Color, b.Quality, b.Density, b.Status, b.ReceivedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Reason: "el número de bloque " + b.BlockNumber + " ya está registrado"}
		}
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

func (r *BlockRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Block, error) {
	b, err := scanBlock(r.q.QueryRow(ctx, `SELECT `+blockColumns+` FROM blocks WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// GetByID obtiene un bloque por ID.
func (r *BlockRepo) GetByID(ctx context.Context, id string) (*entity.Block, error) {
	return r.getOne(ctx, "get block", "id = $1", id)
}

// GetByNumber obtiene un bloque por su número de registro.
func (r *BlockRepo) GetByNumber(ctx context.Context, blockNumber string) (*entity.Block, error) {
	return r.getOne(ctx, "get block by number", "block_number = $1", blockNumber)
}

// GetForUpdate obtiene el bloque y bloquea la fila (SELECT FOR UPDATE).
func (r *BlockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Block, error) {
	return r.getOne(ctx, "get block for update", "id = $1 FOR UPDATE", id)
}

// ListByIDs bloques cuyos IDs estén en ids.
func (r *BlockRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Block, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = ANY($1) ORDER BY block_number`, ids)
	if err != nil {
		return nil, fmt.Errorf("list blocks by ids: %w", err)
	}
	return collectBlocks(rows)
}

// List bloques filtrados por estado y tipo, del más antiguo al más reciente.
func (r *BlockRepo) List(ctx context.Context, filter repository.BlockFilter) ([]*entity.Block, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	query := `SELECT ` + blockColumns + ` FROM blocks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return collectBlocks(rows)
}

func collectBlocks(rows pgx.Rows) ([]*entity.Block, error) {
	defer rows.Close()
	var list []*entity.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return list, nil
}

// UpdateStatus cambia la anotación de estado del bloque.
func (r *BlockRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE blocks SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update block status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("bloque", id)
	}
	return nil
}
