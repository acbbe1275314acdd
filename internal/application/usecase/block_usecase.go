package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/measurement"
	"github.com/jhoicas/granite-api/internal/domain/repository"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// BlockUseCase registro de bloques en bruto. Los bloques son inmutables salvo el estado.
type BlockUseCase struct {
	repo repository.BlockRepository
	log  *logger.Logger
}

// NewBlockUseCase construye el caso de uso.
func NewBlockUseCase(repo repository.BlockRepository, log *logger.Logger) *BlockUseCase {
	return &BlockUseCase{repo: repo, log: log.Component("blocks")}
}

// Create registra un bloque recibido.
func (uc *BlockUseCase) Create(ctx context.Context, in dto.CreateBlockRequest) (*dto.BlockResponse, error) {
	number := strings.TrimSpace(in.BlockNumber)
	if number == "" {
		return nil, domain.Invalid("block_number", "es requerido")
	}
	dims := []struct {
		field string
		value decimal.Decimal
	}{
		{"length", in.Length},
		{"width", in.Width},
		{"height", in.Height},
	}
	for _, d := range dims {
		if !d.value.IsPositive() {
			return nil, domain.Invalid(d.field, "debe ser mayor que cero (pulgadas)")
		}
	}
	// Largo y alto se facturan tras descontar la holgura de corte.
	for _, d := range []struct {
		field string
		value decimal.Decimal
	}{{"length", in.Length}, {"height", in.Height}} {
		if d.value.LessThan(measurement.KerfAllowance) {
			return nil, domain.Invalid(d.field, "no puede ser menor que la holgura de corte de "+
				measurement.KerfAllowance.String()+" pulgadas")
		}
	}
	if in.Weight.IsNegative() {
		return nil, domain.Invalid("weight", "no puede ser negativo")
	}
	if in.Density.IsNegative() {
		return nil, domain.Invalid("density", "no puede ser negativa")
	}

	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, domain.Storage("buscar bloque por número", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{Reason: "el número de bloque " + number + " ya está registrado"}
	}

	now := time.Now()
	received := now
	if in.ReceivedAt != nil && !in.ReceivedAt.IsZero() {
		received = *in.ReceivedAt
	}
	block := &entity.Block{
		ID:          uuid.New().String(),
		BlockNumber: number,
		Type:        strings.TrimSpace(in.Type),
		Length:      in.Length,
		Width:       in.Width,
		Height:      in.Height,
		Weight:      in.Weight,
		Color:       strings.TrimSpace(in.Color),
		Quality:     strings.TrimSpace(in.Quality),
		Density:     in.Density,
		Status:      entity.BlockStatusReceived,
		ReceivedAt:  received,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, block); err != nil {
		return nil, domain.Storage("crear bloque", err)
	}
	uc.log.Info().Str("block_id", block.ID).Str("block_number", number).Msg("bloque registrado")
	return ToBlockResponse(block), nil
}

// GetByID obtiene un bloque por ID.
func (uc *BlockUseCase) GetByID(ctx context.Context, id string) (*dto.BlockResponse, error) {
	block, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener bloque", err)
	}
	if block == nil {
		return nil, domain.NotFound("bloque", id)
	}
	return ToBlockResponse(block), nil
}

// List lista bloques filtrando por estado y tipo.
func (uc *BlockUseCase) List(ctx context.Context, status, blockType string, page dto.PageRequest) (*dto.BlockListResponse, error) {
	page.DefaultPage()
	if status != "" && !entity.ValidBlockStatus(status) {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	list, err := uc.repo.List(ctx, repository.BlockFilter{
		Status: status,
		Type:   blockType,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, domain.Storage("listar bloques", err)
	}
	items := make([]dto.BlockResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *ToBlockResponse(b))
	}
	return &dto.BlockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SetStatus cambia la anotación de estado, única mutación permitida del bloque.
func (uc *BlockUseCase) SetStatus(ctx context.Context, id, status string) (*dto.BlockResponse, error) {
	if !entity.ValidBlockStatus(status) {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	block, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener bloque", err)
	}
	if block == nil {
		return nil, domain.NotFound("bloque", id)
	}
	now := time.Now()
	if err := uc.repo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, domain.Storage("actualizar estado del bloque", err)
	}
	block.Status = status
	block.UpdatedAt = now
	return ToBlockResponse(block), nil
}

// ToBlockResponse mapea la entidad incluyendo los pies facturables de largo y alto.
func ToBlockResponse(b *entity.Block) *dto.BlockResponse {
	if b == nil {
		return nil
	}
	return &dto.BlockResponse{
		ID:              b.ID,
		BlockNumber:     b.BlockNumber,
		Type:            b.Type,
		Length:          b.Length,
		Width:           b.Width,
		Height:          b.Height,
		Weight:          b.Weight,
		Color:           b.Color,
		Quality:         b.Quality,
		Density:         b.Density,
		Status:          b.Status,
		RoundedLengthFt: measurement.LinearFeet(b.Length),
		RoundedHeightFt: measurement.LinearFeet(b.Height),
		ReceivedAt:      b.ReceivedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
