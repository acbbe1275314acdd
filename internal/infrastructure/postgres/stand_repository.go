package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var _ repository.StandRepository = (*StandRepo)(nil)

// StandRepo implementación de StandRepository sobre PostgreSQL.
type StandRepo struct {
	q Querier
}

// NewStandRepository construye el adaptador de stands. Pasar pool o tx (Querier).
func NewStandRepository(q Querier) *StandRepo {
	return &StandRepo{q: q}
}

const standColumns = `id, row_label, position, max_capacity, created_at`

func scanStand(row pgx.Row) (*entity.Stand, error) {
	var s entity.Stand
	if err := row.Scan(&s.ID, &s.Row, &s.Position, &s.MaxCapacity, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un stand por ID.
func (r *StandRepo) GetByID(ctx context.Context, id string) (*entity.Stand, error) {
	s, err := scanStand(r.q.QueryRow(ctx, `SELECT `+standColumns+` FROM stands WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stand: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stand y bloquea la fila (SELECT FOR UPDATE).
// Serializa los ingresos al mismo stand para que el chequeo de capacidad no lea un total viejo.
func (r *StandRepo) GetForUpdate(ctx context.Context, id string) (*entity.Stand, error) {
	s, err := scanStand(r.q.QueryRow(ctx, `SELECT `+standColumns+` FROM stands WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stand for update: %w", err)
	}
	return s, nil
}

// List todos los stands por fila y posición.
func (r *StandRepo) List(ctx context.Context) ([]*entity.Stand, error) {
	rows, err := r.q.Query(ctx, `SELECT `+standColumns+` FROM stands ORDER BY row_label, position`)
	if err != nil {
		return nil, fmt.Errorf("list stands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stand
	for rows.Next() {
		s, err := scanStand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stand: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stands: %w", err)
	}
	return list, nil
}

// Provision inserta el stand si (fila, posición) no existe.
func (r *StandRepo) Provision(ctx context.Context, s *entity.Stand) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO stands (`+standColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (row_label, position) DO NOTHING`,
		s.ID, s.Row, s.Position, s.MaxCapacity, s.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("provision stand: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
