package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/pricing"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Config parámetros de ventas.
type Config struct {
	CreditDueDays int             // 0 = 30
	TaxRate       decimal.Decimal // porcentaje sobre subtotal - descuento
	Now           func() time.Time
}

// SaleUseCase coordina la creación, consulta y cancelación de ventas.
// Descuento de stock, cabecera, líneas, movimientos y crédito se confirman en una sola transacción.
type SaleUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	lots     *inventory.LotStore
	log      *logger.Logger
	cfg      Config
	inst     instruments
}

// NewSaleUseCase construye el coordinador. repos se usa para lecturas fuera de transacción.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	repos repository.Repos,
	lots *inventory.LotStore,
	log *logger.Logger,
	cfg Config,
) *SaleUseCase {
	if cfg.CreditDueDays <= 0 {
		cfg.CreditDueDays = 30
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner: txRunner,
		repos:    repos,
		lots:     lots,
		log:      log.Component("sales"),
		cfg:      cfg,
		inst:     newInstruments(),
	}
}

// saleDraft venta validada y calculada, lista para ejecutarse en la transacción.
type saleDraft struct {
	branchID     string
	clientID     string
	paymentType  string
	items        []dto.SaleItemRequest
	totals       pricing.Totals
	cashReceived decimal.Decimal
	change       decimal.Decimal
	creditDue    time.Time
	notes        string
}

// LinkFunc paso adicional que se ejecuta en la misma transacción después de persistir la venta.
type LinkFunc func(ctx context.Context, r repository.Repos, sale *entity.Sale) error

// CreateSale valida la solicitud, verifica cupo de crédito y ejecuta la venta de forma atómica.
// Los errores de dominio (stock insuficiente, cupo excedido, validación) se devuelven sin reemplazar.
func (uc *SaleUseCase) CreateSale(ctx context.Context, principal entity.Principal, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	return uc.CreateSaleLinked(ctx, principal, in, nil)
}

// CreateSaleLinked igual que CreateSale; si link falla la venta completa se revierte.
func (uc *SaleUseCase) CreateSaleLinked(ctx context.Context, principal entity.Principal, in dto.CreateSaleRequest, link LinkFunc) (*dto.SaleResponse, error) {
	ctx, span := uc.inst.tracer.Start(ctx, "sales.CreateSale")
	defer span.End()
	span.SetAttributes(
		attribute.String("sale.branch_id", in.BranchID),
		attribute.String("sale.payment_type", in.PaymentType),
		attribute.Int("sale.items", len(in.Items)),
	)

	sale, err := uc.createSale(ctx, principal, in, link)
	if err != nil {
		reason := errorReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		uc.inst.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		uc.log.Warn().Err(err).Str("branch_id", in.BranchID).Str("reason", reason).Msg("venta rechazada")
		return nil, err
	}

	uc.inst.created.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_type", sale.PaymentType)))
	span.SetAttributes(attribute.String("sale.id", sale.ID), attribute.String("sale.total", sale.Total.StringFixed(2)))
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("number", sale.Number).
		Str("branch_id", sale.BranchID).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta registrada")
	return dto.NewSaleResponse(sale), nil
}

func (uc *SaleUseCase) createSale(ctx context.Context, principal entity.Principal, in dto.CreateSaleRequest, link LinkFunc) (*entity.Sale, error) {
	draft, err := uc.validate(principal, in)
	if err != nil {
		return nil, err
	}
	if draft.paymentType == entity.PaymentCredit {
		if err := uc.precheckCredit(ctx, draft.clientID, draft.totals.Total); err != nil {
			return nil, err
		}
	}

	var sale *entity.Sale
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := uc.executeInTx(ctx, r, principal, draft)
		if err != nil {
			return err
		}
		if link != nil {
			if err := link(ctx, r, s); err != nil {
				return err
			}
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// validate es puramente validación y cálculo: no toca el almacenamiento.
func (uc *SaleUseCase) validate(principal entity.Principal, in dto.CreateSaleRequest) (*saleDraft, error) {
	if principal.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.BranchID == "" {
		return nil, domain.Invalid("branch_id", "es obligatorio")
	}
	if !principal.CanAccessBranch(in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if !entity.IsValidPaymentType(in.PaymentType) {
		return nil, domain.Invalid("payment_type", "debe ser efectivo, tarjeta, credito o mixto")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe contener al menos una línea")
	}
	lines := make([]pricing.Line, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		lines[i] = pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Discount: it.Discount}
	}
	totals, err := pricing.Compute(lines, in.Discount, uc.cfg.TaxRate)
	if err != nil {
		return nil, err
	}

	d := &saleDraft{
		branchID:     in.BranchID,
		clientID:     in.ClientID,
		paymentType:  in.PaymentType,
		items:        in.Items,
		totals:       totals,
		cashReceived: decimal.Zero,
		change:       decimal.Zero,
		notes:        in.Notes,
	}

	switch in.PaymentType {
	case entity.PaymentCredit:
		if in.ClientID == "" {
			return nil, domain.Invalid("client_id", "es obligatorio para ventas a crédito")
		}
		due, err := dto.ParseDate(in.CreditDueAt)
		if err != nil {
			return nil, domain.Invalid("credit_due_date", "formato esperado YYYY-MM-DD")
		}
		if due != nil {
			d.creditDue = *due
		} else {
			d.creditDue = uc.cfg.Now().AddDate(0, 0, uc.cfg.CreditDueDays)
		}
	case entity.PaymentCash:
		if in.CashReceived != nil {
			if in.CashReceived.LessThan(totals.Total) {
				return nil, domain.Invalid("cash_received", "es menor que el total de la venta")
			}
			d.cashReceived = in.CashReceived.Round(2)
			d.change = d.cashReceived.Sub(totals.Total)
		}
	case entity.PaymentMixed:
		if in.CashReceived != nil {
			if in.CashReceived.IsNegative() {
				return nil, domain.Invalid("cash_received", "no puede ser negativo")
			}
			d.cashReceived = in.CashReceived.Round(2)
			if d.cashReceived.GreaterThan(totals.Total) {
				d.change = d.cashReceived.Sub(totals.Total)
			}
		}
	}
	return d, nil
}

// precheckCredit verificación rápida sin bloqueo; se repite con la fila bloqueada dentro de la transacción.
func (uc *SaleUseCase) precheckCredit(ctx context.Context, clientID string, total decimal.Decimal) error {
	client, err := uc.repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.NotFound("cliente", clientID)
	}
	return checkCreditLimit(client, total)
}

func checkCreditLimit(client *entity.Client, total decimal.Decimal) error {
	if client.CurrentBalance.Add(total).GreaterThan(client.CreditLimit) {
		return &domain.CreditLimitExceededError{
			ClientID:  client.ID,
			Limit:     client.CreditLimit.StringFixed(2),
			Balance:   client.CurrentBalance.StringFixed(2),
			Requested: total.StringFixed(2),
		}
	}
	return nil
}

// executeInTx pasos con mutación. Se puede reejecutar completa si el TxRunner reintenta.
func (uc *SaleUseCase) executeInTx(ctx context.Context, r repository.Repos, principal entity.Principal, d *saleDraft) (*entity.Sale, error) {
	branch, err := r.Branches.GetByID(ctx, d.branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NotFound("sucursal", d.branchID)
	}

	products := make(map[string]*entity.Product, len(d.items))
	productIDs := make([]string, 0, len(d.items))
	for i, it := range d.items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", it.ProductID)
		}
		if !p.Active {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "producto inactivo")
		}
		products[it.ProductID] = p
		productIDs = append(productIDs, it.ProductID)
	}

	if d.paymentType == entity.PaymentCredit {
		client, err := r.Clients.GetForUpdate(ctx, d.clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.NotFound("cliente", d.clientID)
		}
		if err := checkCreditLimit(client, d.totals.Total); err != nil {
			return nil, err
		}
	} else if d.clientID != "" {
		client, err := r.Clients.GetByID(ctx, d.clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.NotFound("cliente", d.clientID)
		}
	}

	if err := uc.lots.LockStock(ctx, r, d.branchID, productIDs); err != nil {
		return nil, err
	}

	now := uc.cfg.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		BranchID:     d.branchID,
		SellerID:     principal.UserID,
		ClientID:     d.clientID,
		PaymentType:  d.paymentType,
		Subtotal:     d.totals.Subtotal,
		Discount:     d.totals.Discount,
		Tax:          d.totals.Tax,
		Total:        d.totals.Total,
		CashReceived: d.cashReceived,
		Change:       d.change,
		Status:       entity.SaleStatusCompleted,
		Notes:        d.notes,
		CreatedAt:    now,
		Items:        make([]entity.SaleItem, 0, len(d.items)),
	}

	for i, it := range d.items {
		allocs, err := uc.lots.DepleteInTx(ctx, r, it.ProductID, d.branchID, it.LotID, it.Quantity)
		if err != nil {
			return nil, err
		}
		item := entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			Position:    i + 1,
			ProductID:   it.ProductID,
			ProductName: products[it.ProductID].Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    d.totals.LineDiscounts[i],
			Subtotal:    d.totals.LineSubtotals[i],
			Allocations: allocs,
		}
		if len(allocs) == 1 {
			item.LotID = allocs[0].LotID
			item.LotNumber = allocs[0].LotNumber
		}
		sale.Items = append(sale.Items, item)
	}

	number, err := r.Sales.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	sale.Number = number

	var credit *entity.Credit
	if d.paymentType == entity.PaymentCredit {
		credit = &entity.Credit{
			ID:               uuid.New().String(),
			SaleID:           sale.ID,
			ClientID:         d.clientID,
			AmountTotal:      sale.Total,
			AmountPaid:       decimal.Zero,
			RemainingBalance: sale.Total,
			DueDate:          d.creditDue,
			Status:           entity.CreditStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		sale.CreditID = credit.ID
	}

	if err := r.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	for _, item := range sale.Items {
		for _, a := range item.Allocations {
			if err := r.Movements.Create(ctx, &entity.StockMovement{
				ID:        uuid.New().String(),
				Type:      entity.MovementTypeOUT,
				ProductID: item.ProductID,
				LotID:     a.LotID,
				BranchID:  sale.BranchID,
				Quantity:  -a.Quantity,
				UnitCost:  a.UnitCost,
				Reason:    entity.MovementReasonSale,
				SaleID:    sale.ID,
				UserID:    principal.UserID,
				CreatedAt: now,
			}); err != nil {
				return nil, err
			}
		}
	}

	if credit != nil {
		if err := r.Credits.Create(ctx, credit); err != nil {
			return nil, err
		}
		if err := r.Clients.AddBalance(ctx, d.clientID, sale.Total); err != nil {
			return nil, err
		}
	}
	return sale, nil
}
