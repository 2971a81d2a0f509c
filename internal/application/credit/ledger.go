package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LedgerUseCase libro de créditos: abonos y consultas por cliente.
// El saldo del cliente se mueve junto con el crédito en la misma transacción.
type LedgerUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
	now      func() time.Time
	tracer   trace.Tracer
}

// NewLedgerUseCase construye el caso de uso. now nil = time.Now.
func NewLedgerUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger, now func() time.Time) *LedgerUseCase {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log.Component("credit"),
		now:      now,
		tracer:   otel.Tracer("github.com/jhoicas/suplementos-api/internal/application/credit"),
	}
}

func validMethod(m string) bool {
	switch m {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodTransfer:
		return true
	}
	return false
}

// RecordPayment registra un abono: reduce el saldo del crédito y el del cliente por el mismo monto.
// Un abono mayor al saldo pendiente es ValidationError; al llegar exactamente a 0 el crédito queda pagado.
func (uc *LedgerUseCase) RecordPayment(ctx context.Context, principal entity.Principal, creditID string, in dto.RecordPaymentRequest) (*dto.CreditResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "credit.RecordPayment")
	defer span.End()
	span.SetAttributes(attribute.String("credit.id", creditID))

	if principal.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if creditID == "" {
		return nil, domain.Invalid("id", "es obligatorio")
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor que cero")
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !validMethod(method) {
		return nil, domain.Invalid("method", "debe ser efectivo, tarjeta o transferencia")
	}

	var credit *entity.Credit
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		c, err := r.Credits.GetForUpdate(ctx, creditID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("crédito", creditID)
		}
		if amount.GreaterThan(c.RemainingBalance) {
			return domain.Invalid("amount", "supera el saldo pendiente de "+c.RemainingBalance.StringFixed(2))
		}
		client, err := r.Clients.GetForUpdate(ctx, c.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("cliente", c.ClientID)
		}

		now := uc.now()
		c.AmountPaid = c.AmountPaid.Add(amount)
		c.RemainingBalance = c.AmountTotal.Sub(c.AmountPaid)
		if c.RemainingBalance.IsZero() {
			c.Status = entity.CreditStatusPaid
		}
		c.UpdatedAt = now
		if err := r.Credits.UpdateBalance(ctx, c); err != nil {
			return err
		}
		if err := r.Credits.CreatePayment(ctx, &entity.CreditPayment{
			ID:        uuid.New().String(),
			CreditID:  c.ID,
			Amount:    amount,
			Method:    method,
			UserID:    principal.UserID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := r.Clients.AddBalance(ctx, c.ClientID, amount.Neg()); err != nil {
			return err
		}
		payments, err := r.Credits.ListPayments(ctx, c.ID)
		if err != nil {
			return err
		}
		c.Payments = payments
		credit = c
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	uc.log.Info().
		Str("credit_id", credit.ID).
		Str("amount", amount.StringFixed(2)).
		Str("remaining", credit.RemainingBalance.StringFixed(2)).
		Msg("abono registrado")
	return dto.NewCreditResponse(credit, uc.now()), nil
}

// GetCredit obtiene un crédito con sus abonos.
func (uc *LedgerUseCase) GetCredit(ctx context.Context, id string) (*dto.CreditResponse, error) {
	c, err := uc.repos.Credits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("crédito", id)
	}
	payments, err := uc.repos.Credits.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Payments = payments
	return dto.NewCreditResponse(c, uc.now()), nil
}

// ListByClient créditos del cliente, más recientes primero.
func (uc *LedgerUseCase) ListByClient(ctx context.Context, clientID string) ([]*dto.CreditResponse, error) {
	client, err := uc.repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente", clientID)
	}
	rows, err := uc.repos.Credits.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]*dto.CreditResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.NewCreditResponse(c, now))
	}
	return out, nil
}
