package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var (
	_ pipeline.TxRunner  = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPipeline transacción con repos de bloques y trabajos (operaciones del motor de etapas).
func (r *TxRunner) RunPipeline(ctx context.Context, fn func(
	blockRepo repository.BlockRepository,
	jobRepo repository.JobRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBlockRepository(tx), NewJobRepository(tx))
	})
}

// RunInventory transacción con los repos del motor de inventario.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(inventory.TxRepos{
			Blocks:        NewBlockRepository(tx),
			Jobs:          NewJobRepository(tx),
			Stands:        NewStandRepository(tx),
			FinishedGoods: NewFinishedGoodRepository(tx),
			Shipments:     NewShipmentRepository(tx),
		})
	})
}
