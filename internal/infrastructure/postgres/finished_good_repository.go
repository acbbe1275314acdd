package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var _ repository.FinishedGoodRepository = (*FinishedGoodRepo)(nil)

// FinishedGoodRepo implementación de FinishedGoodRepository sobre PostgreSQL.
type FinishedGoodRepo struct {
	q Querier
}

// NewFinishedGoodRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinishedGoodRepository(q Querier) *FinishedGoodRepo {
	return &FinishedGoodRepo{q: q}
}

const finishedGoodColumns = `id, block_id, stand_id, slab_count, quality, media, stock_added_at, created_at, updated_at`

func scanFinishedGood(row pgx.Row) (*entity.FinishedGood, error) {
	var fg entity.FinishedGood
	err := row.Scan(&fg.ID, &fg.BlockID, &fg.StandID, &fg.SlabCount, &fg.Quality, &fg.Media,
		&fg.StockAddedAt, &fg.CreatedAt, &fg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &fg, nil
}

// Create inserta el producto terminado.
func (r *FinishedGoodRepo) Create(ctx context.Context, fg *entity.FinishedGood) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO finished_goods (`+finishedGoodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		fg.ID, fg.BlockID, fg.StandID, fg.SlabCount, fg.Quality, textArray(fg.Media),
		fg.StockAddedAt, fg.CreatedAt, fg.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("stand o bloque", fg.StandID+"/"+fg.BlockID)
		}
		return fmt.Errorf("create finished good: %w", err)
	}
	return nil
}

// GetByID obtiene un producto terminado por ID.
func (r *FinishedGoodRepo) GetByID(ctx context.Context, id string) (*entity.FinishedGood, error) {
	fg, err := scanFinishedGood(r.q.QueryRow(ctx, `SELECT `+finishedGoodColumns+` FROM finished_goods WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get finished good: %w", err)
	}
	return fg, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *FinishedGoodRepo) GetForUpdate(ctx context.Context, id string) (*entity.FinishedGood, error) {
	fg, err := scanFinishedGood(r.q.QueryRow(ctx,
		`SELECT `+finishedGoodColumns+` FROM finished_goods WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get finished good for update: %w", err)
	}
	return fg, nil
}

// UpdateSlabCount fija el saldo de losas. El CHECK de la tabla impide valores negativos.
func (r *FinishedGoodRepo) UpdateSlabCount(ctx context.Context, id string, slabCount int, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE finished_goods SET slab_count = $2, updated_at = $3 WHERE id = $1`, id, slabCount, at)
	if err != nil {
		return fmt.Errorf("update slab count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto terminado", id)
	}
	return nil
}

// SumByStand suma slab_count del stand.
func (r *FinishedGoodRepo) SumByStand(ctx context.Context, standID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(slab_count), 0)::int FROM finished_goods WHERE stand_id = $1`, standID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum slabs by stand: %w", err)
	}
	return total, nil
}

// ListByStand productos del stand, incluidos los que quedaron en cero.
func (r *FinishedGoodRepo) ListByStand(ctx context.Context, standID string) ([]*entity.FinishedGood, error) {
	rows, err := r.q.Query(ctx, `SELECT `+finishedGoodColumns+` FROM finished_goods
		WHERE stand_id = $1 ORDER BY stock_added_at, id`, standID)
	if err != nil {
		return nil, fmt.Errorf("list finished goods by stand: %w", err)
	}
	return collectFinishedGoods(rows)
}

// ListInStock productos con losas en existencia.
func (r *FinishedGoodRepo) ListInStock(ctx context.Context) ([]*entity.FinishedGood, error) {
	rows, err := r.q.Query(ctx, `SELECT `+finishedGoodColumns+` FROM finished_goods
		WHERE slab_count > 0 ORDER BY stock_added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list finished goods in stock: %w", err)
	}
	return collectFinishedGoods(rows)
}

func collectFinishedGoods(rows pgx.Rows) ([]*entity.FinishedGood, error) {
	defer rows.Close()
	var list []*entity.FinishedGood
	for rows.Next() {
		fg, err := scanFinishedGood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finished good: %w", err)
		}
		list = append(list, fg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finished goods: %w", err)
	}
	return list, nil
}
