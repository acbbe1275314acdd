// Package memory implementa los repositorios y el TxRunner en memoria, usado en tests
// y en entornos efímeros. Una transacción toma el candado del store completo y
// restaura el estado previo si la función falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/granite-api/internal/application/inventory"
	"github.com/jhoicas/granite-api/internal/application/pipeline"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

var (
	_ pipeline.TxRunner                 = (*Store)(nil)
	_ inventory.TxRunner                = (*Store)(nil)
	_ repository.BlockRepository        = (*BlockRepo)(nil)
	_ repository.JobRepository          = (*JobRepo)(nil)
	_ repository.StandRepository        = (*StandRepo)(nil)
	_ repository.FinishedGoodRepository = (*FinishedGoodRepo)(nil)
	_ repository.ShipmentRepository     = (*ShipmentRepo)(nil)
)

// state las filas se reemplazan al actualizar, nunca se mutan en el lugar;
// por eso una copia superficial de los mapas sirve como punto de restauración.
type state struct {
	blocks        map[string]*entity.Block
	jobs          map[string]*entity.ProductionJob
	stands        map[string]*entity.Stand
	finishedGoods map[string]*entity.FinishedGood
	shipments     map[string]*entity.Shipment
}

func newState() *state {
	return &state{
		blocks:        make(map[string]*entity.Block),
		jobs:          make(map[string]*entity.ProductionJob),
		stands:        make(map[string]*entity.Stand),
		finishedGoods: make(map[string]*entity.FinishedGood),
		shipments:     make(map[string]*entity.Shipment),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.blocks {
		c.blocks[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}
	for k, v := range s.stands {
		c.stands[k] = v
	}
	for k, v := range s.finishedGoods {
		c.finishedGoods[k] = v
	}
	for k, v := range s.shipments {
		c.shipments[k] = v
	}
	return c
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn sobre el estado; fuera de una transacción toma el candado.
type access struct {
	store *Store
	inTx  bool
}

func (a access) do(fn func(st *state) error) error {
	if !a.inTx {
		a.store.mu.Lock()
		defer a.store.mu.Unlock()
	}
	return fn(a.store.st)
}

// Blocks repositorio de bloques fuera de transacción.
func (s *Store) Blocks() *BlockRepo { return &BlockRepo{access{store: s}} }

// Jobs repositorio de trabajos fuera de transacción.
func (s *Store) Jobs() *JobRepo { return &JobRepo{access{store: s}} }

// Stands repositorio de stands fuera de transacción.
func (s *Store) Stands() *StandRepo { return &StandRepo{access{store: s}} }

// FinishedGoods repositorio de productos terminados fuera de transacción.
func (s *Store) FinishedGoods() *FinishedGoodRepo { return &FinishedGoodRepo{access{store: s}} }

// Shipments repositorio de despachos fuera de transacción.
func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{access{store: s}} }

func (s *Store) run(ctx context.Context, fn func(a access) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(access{store: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunPipeline implementa pipeline.TxRunner.
func (s *Store) RunPipeline(ctx context.Context, fn func(
	blockRepo repository.BlockRepository,
	jobRepo repository.JobRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&BlockRepo{a}, &JobRepo{a})
	})
}

// RunInventory implementa inventory.TxRunner.
func (s *Store) RunInventory(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.run(ctx, func(a access) error {
		return fn(inventory.TxRepos{
			Blocks:        &BlockRepo{a},
			Jobs:          &JobRepo{a},
			Stands:        &StandRepo{a},
			FinishedGoods: &FinishedGoodRepo{a},
			Shipments:     &ShipmentRepo{a},
		})
	})
}

// sortByCreated orden estable por fecha de creación y luego ID.
func sortByCreated[T any](items []T, created func(T) int64, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci != cj {
			return ci < cj
		}
		return id(items[i]) < id(items[j])
	})
}
