package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/application/usecase"
	"github.com/jhoicas/granite-api/internal/domain"
	"github.com/jhoicas/granite-api/internal/infrastructure/memory"
	"github.com/jhoicas/granite-api/pkg/logger"
)

func newBlockUseCase() *usecase.BlockUseCase {
	return usecase.NewBlockUseCase(memory.NewStore().Blocks(), logger.Nop())
}

func blockRequest(number string, length, width, height int64) dto.CreateBlockRequest {
	return dto.CreateBlockRequest{
		BlockNumber: number,
		Type:        "granite",
		Length:      decimal.NewFromInt(length),
		Width:       decimal.NewFromInt(width),
		Height:      decimal.NewFromInt(height),
	}
}

func TestCreateBlock_RejectsDimensionsBelowKerf(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateBlockRequest
		field string
	}{
		{"largo menor que la holgura", blockRequest("GR-1", 5, 60, 78), "length"},
		{"alto menor que la holgura", blockRequest("GR-2", 100, 60, 5), "height"},
		{"ancho cero", blockRequest("GR-3", 100, 0, 78), "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBlockUseCase().Create(context.Background(), tt.req)
			var invalid *domain.ValidationError
			require.True(t, errors.As(err, &invalid), "se esperaba ValidationError, fue %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestCreateBlock_AcceptsKerfBoundary(t *testing.T) {
	out, err := newBlockUseCase().Create(context.Background(), blockRequest("GR-6", 6, 4, 6))
	require.NoError(t, err)
	assert.True(t, out.RoundedLengthFt.IsZero())
	assert.False(t, out.RoundedHeightFt.IsNegative())
	assert.Equal(t, "received", out.Status)
}

func TestCreateBlock_DuplicateNumberConflicts(t *testing.T) {
	uc := newBlockUseCase()
	_, err := uc.Create(context.Background(), blockRequest("GR-7", 126, 60, 78))
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), blockRequest("GR-7", 126, 60, 78))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
