package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Anotaciones de estado del bloque (solo para filtrado; no afectan la elegibilidad).
const (
	BlockStatusReceived     = "received"
	BlockStatusInProduction = "in_production"
	BlockStatusFinished     = "finished"
	BlockStatusArchived     = "archived"
)

// Block representa un bloque de granito en bruto recibido en planta.
// Las dimensiones están en pulgadas; el registro es inmutable salvo Status.
type Block struct {
	ID          string
	BlockNumber string // asignado por el operador, único
	Type        string
	Length      decimal.Decimal
	Width       decimal.Decimal
	Height      decimal.Decimal
	Weight      decimal.Decimal
	Color       string
	Quality     string
	Density     decimal.Decimal
	Status      string
	ReceivedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidBlockStatus indica si s es una anotación de estado conocida.
func ValidBlockStatus(s string) bool {
	switch s {
	case BlockStatusReceived, BlockStatusInProduction, BlockStatusFinished, BlockStatusArchived:
		return true
	}
	return false
}
