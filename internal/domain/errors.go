package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
	ErrInvalidState        = errors.New("operación inválida para el estado actual")
)

// ValidationError describe un campo de entrada mal formado. Se compara con ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "entrada inválida: " + e.Reason
	}
	return fmt.Sprintf("entrada inválida: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError indica que la cantidad pedida supera lo disponible para un producto en una sucursal.
type InsufficientStockError struct {
	ProductID string
	BranchID  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CreditLimitExceededError indica que una venta a crédito dejaría al cliente sobre su cupo.
type CreditLimitExceededError struct {
	ClientID  string
	Limit     string
	Balance   string
	Requested string
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("límite de crédito excedido para el cliente %s: saldo %s + venta %s > cupo %s",
		e.ClientID, e.Balance, e.Requested, e.Limit)
}

func (e *CreditLimitExceededError) Unwrap() error { return ErrCreditLimitExceeded }

// InvalidStateError indica que la entidad no admite la operación en su estado actual.
type InvalidStateError struct {
	Entity string
	State  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s en estado %q no admite la operación", e.Entity, e.State)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// NotFoundError indica que la entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
