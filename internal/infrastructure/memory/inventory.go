package memory

import (
	"context"
	"time"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
)

// StandRepo implementa repository.StandRepository.
type StandRepo struct{ a access }

func (r *StandRepo) GetByID(_ context.Context, id string) (*entity.Stand, error) {
	var out *entity.Stand
	err := r.a.do(func(st *state) error {
		if s, ok := st.stands[id]; ok {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *StandRepo) GetForUpdate(ctx context.Context, id string) (*entity.Stand, error) {
	return r.GetByID(ctx, id)
}

func (r *StandRepo) List(_ context.Context) ([]*entity.Stand, error) {
	var out []*entity.Stand
	err := r.a.do(func(st *state) error {
		for _, s := range st.stands {
			c := *s
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *StandRepo) Provision(_ context.Context, stand *entity.Stand) (bool, error) {
	created := false
	err := r.a.do(func(st *state) error {
		for _, s := range st.stands {
			if s.Row == stand.Row && s.Position == stand.Position {
				return nil
			}
		}
		c := *stand
		st.stands[stand.ID] = &c
		created = true
		return nil
	})
	return created, err
}

// FinishedGoodRepo implementa repository.FinishedGoodRepository.
type FinishedGoodRepo struct{ a access }

func copyFinishedGood(fg *entity.FinishedGood) *entity.FinishedGood {
	c := *fg
	if fg.Media != nil {
		c.Media = append([]string(nil), fg.Media...)
	}
	return &c
}

func (r *FinishedGoodRepo) Create(_ context.Context, fg *entity.FinishedGood) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.stands[fg.StandID]; !ok {
			return domain.NotFound("stand", fg.StandID)
		}
		if _, ok := st.blocks[fg.BlockID]; !ok {
			return domain.NotFound("bloque", fg.BlockID)
		}
		st.finishedGoods[fg.ID] = copyFinishedGood(fg)
		return nil
	})
}

func (r *FinishedGoodRepo) GetByID(_ context.Context, id string) (*entity.FinishedGood, error) {
	var out *entity.FinishedGood
	err := r.a.do(func(st *state) error {
		if fg, ok := st.finishedGoods[id]; ok {
			out = copyFinishedGood(fg)
		}
		return nil
	})
	return out, err
}

func (r *FinishedGoodRepo) GetForUpdate(ctx context.Context, id string) (*entity.FinishedGood, error) {
	return r.GetByID(ctx, id)
}

func (r *FinishedGoodRepo) UpdateSlabCount(_ context.Context, id string, slabCount int, at time.Time) error {
	return r.a.do(func(st *state) error {
		fg, ok := st.finishedGoods[id]
		if !ok {
			return domain.NotFound("producto terminado", id)
		}
		if slabCount < 0 {
			return domain.Invalid("slab_count", "no puede ser negativo")
		}
		c := copyFinishedGood(fg)
		c.SlabCount = slabCount
		c.UpdatedAt = at
		st.finishedGoods[id] = c
		return nil
	})
}

func (r *FinishedGoodRepo) SumByStand(_ context.Context, standID string) (int, error) {
	total := 0
	err := r.a.do(func(st *state) error {
		for _, fg := range st.finishedGoods {
			if fg.StandID == standID {
				total += fg.SlabCount
			}
		}
		return nil
	})
	return total, err
}

func (r *FinishedGoodRepo) ListByStand(_ context.Context, standID string) ([]*entity.FinishedGood, error) {
	return r.list(func(fg *entity.FinishedGood) bool { return fg.StandID == standID })
}

func (r *FinishedGoodRepo) ListInStock(_ context.Context) ([]*entity.FinishedGood, error) {
	return r.list(func(fg *entity.FinishedGood) bool { return fg.SlabCount > 0 })
}

func (r *FinishedGoodRepo) list(match func(*entity.FinishedGood) bool) ([]*entity.FinishedGood, error) {
	var out []*entity.FinishedGood
	err := r.a.do(func(st *state) error {
		for _, fg := range st.finishedGoods {
			if match(fg) {
				out = append(out, copyFinishedGood(fg))
			}
		}
		return nil
	})
	sortByCreated(out,
		func(fg *entity.FinishedGood) int64 { return fg.StockAddedAt.UnixNano() },
		func(fg *entity.FinishedGood) string { return fg.ID })
	return out, err
}

// ShipmentRepo implementa repository.ShipmentRepository.
type ShipmentRepo struct{ a access }

func (r *ShipmentRepo) Create(_ context.Context, shipment *entity.Shipment) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.finishedGoods[shipment.FinishedGoodID]; !ok {
			return domain.NotFound("producto terminado", shipment.FinishedGoodID)
		}
		c := *shipment
		st.shipments[shipment.ID] = &c
		return nil
	})
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.a.do(func(st *state) error {
		if s, ok := st.shipments[id]; ok {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepo) Update(_ context.Context, shipment *entity.Shipment) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.shipments[shipment.ID]; !ok {
			return domain.NotFound("despacho", shipment.ID)
		}
		c := *shipment
		st.shipments[shipment.ID] = &c
		return nil
	})
}

func (r *ShipmentRepo) ListByFinishedGood(_ context.Context, finishedGoodID string) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	err := r.a.do(func(st *state) error {
		for _, s := range st.shipments {
			if s.FinishedGoodID == finishedGoodID {
				c := *s
				out = append(out, &c)
			}
		}
		return nil
	})
	sortByCreated(out,
		func(s *entity.Shipment) int64 { return s.ShippedAt.UnixNano() },
		func(s *entity.Shipment) string { return s.ID })
	return out, err
}
