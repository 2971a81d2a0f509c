package quotation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/pricing"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultValidDays vigencia por defecto de una cotización.
const DefaultValidDays = 15

// UseCase cotizaciones: se calculan como una venta pero no afectan stock ni crédito.
type UseCase struct {
	repos   repository.Repos
	sales   *sales.SaleUseCase
	taxRate decimal.Decimal
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos repository.Repos, salesUC *sales.SaleUseCase, taxRate decimal.Decimal, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{repos: repos, sales: salesUC, taxRate: taxRate, now: now}
}

// Create registra una cotización vigente.
func (uc *UseCase) Create(ctx context.Context, principal entity.Principal, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if in.BranchID == "" {
		return nil, domain.Invalid("branch_id", "es obligatorio")
	}
	if !principal.CanAccessBranch(in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if in.ValidDays < 0 {
		return nil, domain.Invalid("valid_days", "no puede ser negativo")
	}
	lines := make([]pricing.Line, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		lines[i] = pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Discount: it.Discount}
	}
	totals, err := pricing.Compute(lines, in.Discount, uc.taxRate)
	if err != nil {
		return nil, err
	}
	branch, err := uc.repos.Branches.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NotFound("sucursal", in.BranchID)
	}
	if in.ClientID != "" {
		client, err := uc.repos.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.NotFound("cliente", in.ClientID)
		}
	}

	days := in.ValidDays
	if days == 0 {
		days = DefaultValidDays
	}
	now := uc.now()
	q := &entity.Quotation{
		ID:         uuid.New().String(),
		BranchID:   in.BranchID,
		SellerID:   principal.UserID,
		ClientID:   in.ClientID,
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		Tax:        totals.Tax,
		Total:      totals.Total,
		ValidUntil: now.AddDate(0, 0, days),
		Status:     entity.QuotationStatusValid,
		Notes:      in.Notes,
		CreatedAt:  now,
	}
	for i, it := range in.Items {
		p, err := uc.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", it.ProductID)
		}
		q.Items = append(q.Items, entity.QuotationItem{
			ID:          uuid.New().String(),
			QuotationID: q.ID,
			Position:    i + 1,
			ProductID:   it.ProductID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    totals.LineDiscounts[i],
			Subtotal:    totals.LineSubtotals[i],
		})
	}
	if err := uc.repos.Quotations.Create(ctx, q); err != nil {
		return nil, err
	}
	return dto.NewQuotationResponse(q, now), nil
}

// Get obtiene una cotización con su estado efectivo.
func (uc *UseCase) Get(ctx context.Context, principal entity.Principal, id string) (*dto.QuotationResponse, error) {
	q, err := uc.repos.Quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("cotización", id)
	}
	if !principal.CanAccessBranch(q.BranchID) {
		return nil, domain.ErrForbidden
	}
	return dto.NewQuotationResponse(q, uc.now()), nil
}

// Convert crea la venta a partir de la cotización (precios cotizados, stock FIFO) y la marca convertida
// en la misma transacción. Solo aplica a cotizaciones vigentes.
func (uc *UseCase) Convert(ctx context.Context, principal entity.Principal, id string, in dto.ConvertQuotationRequest) (*dto.SaleResponse, error) {
	q, err := uc.repos.Quotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("cotización", id)
	}
	if status := q.EffectiveStatus(uc.now()); status != entity.QuotationStatusValid {
		return nil, &domain.InvalidStateError{Entity: "cotización", State: status}
	}

	req := dto.CreateSaleRequest{
		BranchID:     q.BranchID,
		ClientID:     q.ClientID,
		PaymentType:  in.PaymentType,
		Discount:     q.Discount,
		CashReceived: in.CashReceived,
		Notes:        q.Notes,
	}
	for _, it := range q.Items {
		req.Items = append(req.Items, dto.SaleItemRequest{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		})
	}
	return uc.sales.CreateSaleLinked(ctx, principal, req, func(ctx context.Context, r repository.Repos, sale *entity.Sale) error {
		locked, err := r.Quotations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("cotización", id)
		}
		if status := locked.EffectiveStatus(uc.now()); status != entity.QuotationStatusValid {
			return &domain.InvalidStateError{Entity: "cotización", State: status}
		}
		return r.Quotations.MarkConverted(ctx, id, sale.ID)
	})
}
