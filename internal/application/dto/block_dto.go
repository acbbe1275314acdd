package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBlockRequest body para POST /api/blocks. Dimensiones en pulgadas.
type CreateBlockRequest struct {
	BlockNumber string          `json:"block_number"`
	Type        string          `json:"type"`
	Length      decimal.Decimal `json:"length"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
	Weight      decimal.Decimal `json:"weight"`
	Color       string          `json:"color"`
	Quality     string          `json:"quality"`
	Density     decimal.Decimal `json:"density"`
	ReceivedAt  *time.Time      `json:"received_at,omitempty"`
}

// UpdateBlockStatusRequest body para PATCH /api/blocks/:id/status.
type UpdateBlockStatusRequest struct {
	Status string `json:"status"`
}

// BlockResponse salida de un bloque con sus pies facturables.
type BlockResponse struct {
	ID              string          `json:"id"`
	BlockNumber     string          `json:"block_number"`
	Type            string          `json:"type"`
	Length          decimal.Decimal `json:"length"`
	Width           decimal.Decimal `json:"width"`
	Height          decimal.Decimal `json:"height"`
	Weight          decimal.Decimal `json:"weight"`
	Color           string          `json:"color"`
	Quality         string          `json:"quality"`
	Density         decimal.Decimal `json:"density"`
	Status          string          `json:"status"`
	RoundedLengthFt decimal.Decimal `json:"rounded_length_ft"`
	RoundedHeightFt decimal.Decimal `json:"rounded_height_ft"`
	ReceivedAt      time.Time       `json:"received_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BlockListResponse lista paginada de bloques.
type BlockListResponse struct {
	Items []BlockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
