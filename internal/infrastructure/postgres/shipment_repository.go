package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `id, finished_good_id, slabs_shipped, shipping_company, shipped_at, created_at, updated_at`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	err := row.Scan(&s.ID, &s.FinishedGoodID, &s.SlabsShipped, &s.ShippingCompany, &s.ShippedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta el despacho.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (`+shipmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.FinishedGoodID, s.SlabsShipped, s.ShippingCompany, s.ShippedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto terminado", s.FinishedGoodID)
		}
		return fmt.Errorf("create shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) getOne(ctx context.Context, op, query, id string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene un despacho por ID.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, "get shipment", `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetForUpdate obtiene el despacho y bloquea la fila (SELECT FOR UPDATE).
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.getOne(ctx, "get shipment for update",
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste cantidad, transportista y fecha del despacho.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments
		SET slabs_shipped = $2, shipping_company = $3, shipped_at = $4, updated_at = $5
		WHERE id = $1`,
		s.ID, s.SlabsShipped, s.ShippingCompany, s.ShippedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("despacho", s.ID)
	}
	return nil
}

// ListByFinishedGood despachos del producto por fecha.
func (r *ShipmentRepo) ListByFinishedGood(ctx context.Context, finishedGoodID string) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments
		WHERE finished_good_id = $1 ORDER BY shipped_at, id`, finishedGoodID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipments: %w", err)
	}
	return list, nil
}
