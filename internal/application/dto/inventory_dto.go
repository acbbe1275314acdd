package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/finished-goods.
type AddStockRequest struct {
	StandID   string     `json:"stand_id"`
	BlockID   string     `json:"block_id"`
	SlabCount int        `json:"slab_count"`
	Quality   string     `json:"quality"`
	Media     []string   `json:"media,omitempty"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
}

// ShipRequest body para POST /api/shipments.
type ShipRequest struct {
	FinishedGoodID  string     `json:"finished_good_id"`
	SlabsShipped    int        `json:"slabs_shipped"`
	ShippingCompany string     `json:"shipping_company"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`
}

// EditShipmentRequest body para PUT /api/shipments/:id. Campos nil no cambian.
type EditShipmentRequest struct {
	SlabsShipped    *int       `json:"slabs_shipped,omitempty"`
	ShippingCompany *string    `json:"shipping_company,omitempty"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`
}

// FinishedGoodResponse salida de un producto terminado.
type FinishedGoodResponse struct {
	ID           string          `json:"id"`
	BlockID      string          `json:"block_id"`
	StandID      string          `json:"stand_id"`
	SlabCount    int             `json:"slab_count"`
	Quality      string          `json:"quality"`
	Media        []string        `json:"media"`
	Area         decimal.Decimal `json:"area"`
	StockAddedAt time.Time       `json:"stock_added_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StandOccupancyResponse ocupación de un stand.
type StandOccupancyResponse struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Row         string          `json:"row"`
	Position    int             `json:"position"`
	MaxCapacity int             `json:"max_capacity"`
	Used        int             `json:"used"`
	Available   int             `json:"available"`
	Coverage    decimal.Decimal `json:"coverage"` // used/max redondeado a 2 decimales
	Band        string          `json:"band"`     // nominal, moderate, high, critical
}

// StockResultResponse respuesta de AddStock: el producto creado y el stand actualizado.
type StockResultResponse struct {
	FinishedGood FinishedGoodResponse   `json:"finished_good"`
	Stand        StandOccupancyResponse `json:"stand"`
}

// ShipmentResponse salida de un despacho.
type ShipmentResponse struct {
	ID              string    `json:"id"`
	FinishedGoodID  string    `json:"finished_good_id"`
	SlabsShipped    int       `json:"slabs_shipped"`
	ShippingCompany string    `json:"shipping_company"`
	ShippedAt       time.Time `json:"shipped_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ShipmentResultResponse respuesta de despachos: el despacho y el producto con el saldo nuevo.
type ShipmentResultResponse struct {
	Shipment     ShipmentResponse     `json:"shipment"`
	FinishedGood FinishedGoodResponse `json:"finished_good"`
}

// StandDetailResponse stand con su stock.
type StandDetailResponse struct {
	Stand StandOccupancyResponse `json:"stand"`
	Stock []FinishedGoodResponse `json:"stock"`
}

// StandSummaryResponse respuesta de GET /api/stands/summary.
type StandSummaryResponse struct {
	TotalCapacity       int             `json:"total_capacity"`
	UsedCapacity        int             `json:"used_capacity"`
	AvailableCapacity   int             `json:"available_capacity"`
	Coverage            decimal.Decimal `json:"coverage"`
	QualityDistribution map[string]int  `json:"quality_distribution"` // calidad -> losas
	TotalArea           decimal.Decimal `json:"total_area"`           // pies cuadrados
	OccupiedStands      int             `json:"occupied_stands"`
	TotalStands         int             `json:"total_stands"`
	Bands               map[string]int  `json:"bands"` // banda -> cantidad de stands
	GeneratedAt         time.Time       `json:"generated_at"`
}
