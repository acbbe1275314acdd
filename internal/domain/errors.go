package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los tipos concretos de abajo envuelven estos sentinels para poder usar errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrEligibility       = errors.New("el bloque no es elegible para la etapa")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrCapacityExceeded  = errors.New("capacidad del stand excedida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("error de almacenamiento")
)

// NotFoundError indica qué recurso no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError campo faltante o con valor inválido (incluye orden de tiempos).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// EligibilityError violación del orden de etapas.
type EligibilityError struct {
	BlockID  string
	Stage    string
	Required string // etapa previa que debe estar completada u omitida
	Reason   string
}

func (e *EligibilityError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("bloque %s no elegible para %s: %s", e.BlockID, e.Stage, e.Reason)
	}
	return fmt.Sprintf("bloque %s no elegible para %s: requiere %s completada u omitida", e.BlockID, e.Stage, e.Required)
}

func (e *EligibilityError) Unwrap() error { return ErrEligibility }

// ConflictError ya existe un trabajo no terminal para (bloque, etapa), o un valor único repetido.
type ConflictError struct {
	BlockID string
	Stage   string
	JobID   string
	Reason  string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.JobID != "" {
		return fmt.Sprintf("bloque %s ya tiene el trabajo %s abierto en %s", e.BlockID, e.JobID, e.Stage)
	}
	return fmt.Sprintf("bloque %s ya tiene un trabajo abierto en %s", e.BlockID, e.Stage)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// CapacityExceededError el stand no admite las losas solicitadas.
type CapacityExceededError struct {
	StandID   string
	Current   int
	Requested int
	Capacity  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("stand %s: %d + %d excede la capacidad de %d losas",
		e.StandID, e.Current, e.Requested, e.Capacity)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// Available losas que aún caben en el stand.
func (e *CapacityExceededError) Available() int {
	if e.Capacity < e.Current {
		return 0
	}
	return e.Capacity - e.Current
}

// InsufficientStockError el producto terminado no tiene losas suficientes.
type InsufficientStockError struct {
	FinishedGoodID string
	Available      int
	Requested      int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("producto terminado %s: se solicitan %d losas y hay %d disponibles",
		e.FinishedGoodID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StorageError falla inesperada del almacén; nunca se reporta como éxito.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Storage envuelve err como StorageError salvo que ya sea un error de dominio.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsDomainError reporta si err pertenece a alguna de las categorías de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrValidation, ErrEligibility, ErrConflict,
		ErrCapacityExceeded, ErrInsufficientStock, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
