package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name        string          `json:"name"`
	Document    string          `json:"document"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateClientRequest patch de cliente.
type UpdateClientRequest struct {
	Name        *string          `json:"name"`
	Document    *string          `json:"document"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// Patch convierte al patch del dominio.
func (r UpdateClientRequest) Patch() entity.ClientPatch {
	return entity.ClientPatch{
		Name:        r.Name,
		Document:    r.Document,
		Email:       r.Email,
		Phone:       r.Phone,
		CreditLimit: r.CreditLimit,
	}
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Document        string          `json:"document"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewClientResponse mapea la entidad.
func NewClientResponse(c *entity.Client) *ClientResponse {
	return &ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Document:        c.Document,
		Email:           c.Email,
		Phone:           c.Phone,
		CreditLimit:     c.CreditLimit,
		CurrentBalance:  c.CurrentBalance,
		AvailableCredit: c.AvailableCredit(),
		CreatedAt:       c.CreatedAt,
	}
}
