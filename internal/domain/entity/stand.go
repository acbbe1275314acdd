package entity

import (
	"fmt"
	"time"
)

// DefaultStandCapacity capacidad máxima de losas por stand (constante de negocio).
const DefaultStandCapacity = 200

// Stand bin físico de almacenamiento identificado por (fila, posición).
// Los stands se aprovisionan de antemano; el motor nunca los crea ni destruye.
type Stand struct {
	ID          string
	Row         string
	Position    int
	MaxCapacity int
	CreatedAt   time.Time
}

// Label etiqueta legible, ej. "B-07".
func (s *Stand) Label() string {
	return fmt.Sprintf("%s-%02d", s.Row, s.Position)
}

// FinishedGood losas de un bloque, de una calidad, ubicadas en un stand.
// SlabCount solo disminuye por despachos y nunca baja de cero; la fila se conserva en cero.
type FinishedGood struct {
	ID           string
	BlockID      string
	StandID      string
	SlabCount    int
	Quality      string
	Media        []string // referencias al almacén de archivos
	StockAddedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Shipment débito contra un FinishedGood.
type Shipment struct {
	ID              string
	FinishedGoodID  string
	SlabsShipped    int
	ShippingCompany string
	ShippedAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
