package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/infrastructure/pdf"
)

func TestGenerateStandReport(t *testing.T) {
	gen := pdf.NewMarotoStandReport("Granite Works", language.Spanish)
	summary := &dto.StandSummaryResponse{
		TotalCapacity:       400,
		UsedCapacity:        215,
		AvailableCapacity:   185,
		Coverage:            decimal.RequireFromString("0.54"),
		QualityDistribution: map[string]int{"premium": 200, "standard": 15},
		TotalArea:           decimal.RequireFromString("12900.00"),
		OccupiedStands:      2,
		TotalStands:         2,
		Bands:               map[string]int{"nominal": 1, "critical": 1},
		GeneratedAt:         time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
	stands := []dto.StandOccupancyResponse{
		{ID: "S1", Label: "A-01", MaxCapacity: 200, Used: 195, Available: 5, Coverage: decimal.RequireFromString("0.98"), Band: "critical"},
		{ID: "S2", Label: "A-02", MaxCapacity: 200, Used: 20, Available: 180, Coverage: decimal.RequireFromString("0.10"), Band: "nominal"},
	}

	out, err := gen.GenerateStandReport(context.Background(), summary, stands)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStandReport_RequiresSummary(t *testing.T) {
	gen := pdf.NewMarotoStandReport("Granite Works", language.English)
	_, err := gen.GenerateStandReport(context.Background(), nil, nil)
	assert.Error(t, err)
}
