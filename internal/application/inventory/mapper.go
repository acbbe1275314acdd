package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain/entity"
	"github.com/jhoicas/granite-api/internal/domain/measurement"
)

func toStandOccupancy(s *entity.Stand, used int) dto.StandOccupancyResponse {
	available := s.MaxCapacity - used
	if available < 0 {
		available = 0
	}
	return dto.StandOccupancyResponse{
		ID:          s.ID,
		Label:       s.Label(),
		Row:         s.Row,
		Position:    s.Position,
		MaxCapacity: s.MaxCapacity,
		Used:        used,
		Available:   available,
		Coverage:    measurement.Occupancy(used, s.MaxCapacity),
		Band:        measurement.BandFor(used, s.MaxCapacity),
	}
}

// toFinishedGood block puede ser nil (área 0).
func toFinishedGood(fg *entity.FinishedGood, block *entity.Block) dto.FinishedGoodResponse {
	area := decimal.Zero
	if block != nil {
		area = measurement.Area(block.Length, block.Height, fg.SlabCount)
	}
	media := fg.Media
	if media == nil {
		media = []string{}
	}
	return dto.FinishedGoodResponse{
		ID:           fg.ID,
		BlockID:      fg.BlockID,
		StandID:      fg.StandID,
		SlabCount:    fg.SlabCount,
		Quality:      fg.Quality,
		Media:        media,
		Area:         area,
		StockAddedAt: fg.StockAddedAt,
		UpdatedAt:    fg.UpdatedAt,
	}
}

func toShipment(s *entity.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ID:              s.ID,
		FinishedGoodID:  s.FinishedGoodID,
		SlabsShipped:    s.SlabsShipped,
		ShippingCompany: s.ShippingCompany,
		ShippedAt:       s.ShippedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
