package memory

import (
	"context"
	"time"

	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/repository"
)

// BlockRepo implementa repository.BlockRepository.
type BlockRepo struct{ a access }

func copyBlock(b *entity.Block) *entity.Block {
	c := *b
	return &c
}

func (r *BlockRepo) Create(_ context.Context, block *entity.Block) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.blocks[block.ID]; ok {
			return &domain.ConflictError{Reason: "bloque " + block.ID + " ya existe"}
		}
		for _, b := range st.blocks {
			if b.BlockNumber == block.BlockNumber {
				return &domain.ConflictError{Reason: "el número de bloque " + block.BlockNumber + " ya está registrado"}
			}
		}
		st.blocks[block.ID] = copyBlock(block)
		return nil
	})
}

func (r *BlockRepo) GetByID(_ context.Context, id string) (*entity.Block, error) {
	var out *entity.Block
	err := r.a.do(func(st *state) error {
		if b, ok := st.blocks[id]; ok {
			out = copyBlock(b)
		}
		return nil
	})
	return out, err
}

func (r *BlockRepo) GetByNumber(_ context.Context, blockNumber string) (*entity.Block, error) {
	var out *entity.Block
	err := r.a.do(func(st *state) error {
		for _, b := range st.blocks {
			if b.BlockNumber == blockNumber {
				out = copyBlock(b)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *BlockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Block, error) {
	return r.GetByID(ctx, id)
}

func (r *BlockRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Block, error) {
	var out []*entity.Block
	err := r.a.do(func(st *state) error {
		for _, id := range ids {
			if b, ok := st.blocks[id]; ok {
				out = append(out, copyBlock(b))
			}
		}
		return nil
	})
	return out, err
}

func (r *BlockRepo) List(_ context.Context, filter repository.BlockFilter) ([]*entity.Block, error) {
	var out []*entity.Block
	err := r.a.do(func(st *state) error {
		for _, b := range st.blocks {
			if filter.Status != "" && b.Status != filter.Status {
				continue
			}
			if filter.Type != "" && b.Type != filter.Type {
				continue
			}
			out = append(out, copyBlock(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out,
		func(b *entity.Block) int64 { return b.CreatedAt.UnixNano() },
		func(b *entity.Block) string { return b.ID })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *BlockRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	return r.a.do(func(st *state) error {
		b, ok := st.blocks[id]
		if !ok {
			return domain.NotFound("bloque", id)
		}
		c := copyBlock(b)
		c.Status = status
		c.UpdatedAt = at
		st.blocks[id] = c
		return nil
	})
}
