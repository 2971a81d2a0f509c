package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ClientUseCase casos de uso para clientes con cuenta de crédito.
// El saldo solo lo modifican las ventas a crédito y los abonos.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente con saldo en cero.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es obligatorio")
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.Invalid("credit_limit", "no puede ser negativo")
	}
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		Name:           name,
		Document:       in.Document,
		Email:          in.Email,
		Phone:          in.Phone,
		CreditLimit:    in.CreditLimit.Round(2),
		CurrentBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(client), nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	return dto.NewClientResponse(c), nil
}

// List lista clientes por nombre o documento.
func (uc *ClientUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewClientResponse(c))
	}
	return out, nil
}

// Update aplica el patch. El nuevo cupo no puede quedar por debajo del saldo actual.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	patch := in.Patch()
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, domain.Invalid("name", "no puede quedar vacío")
		}
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Document != nil {
		c.Document = *patch.Document
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.CreditLimit != nil {
		limit := patch.CreditLimit.Round(2)
		if limit.IsNegative() || limit.LessThan(c.CurrentBalance) {
			return nil, domain.Invalid("credit_limit", "no puede ser menor que el saldo actual")
		}
		c.CreditLimit = limit
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}
