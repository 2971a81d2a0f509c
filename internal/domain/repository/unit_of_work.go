package repository

import "context"

// Repos agrupa los repositorios atados a un mismo Querier (pool o transacción).
type Repos struct {
	Products     ProductRepository
	Branches     BranchRepository
	Lots         LotRepository
	Stock        StockRepository
	Movements    StockMovementRepository
	Sales        SaleRepository
	Credits      CreditRepository
	Clients      ClientRepository
	Quotations   QuotationRepository
	CashClosings CashClosingRepository
}

// TxRunner ejecuta fn como una unidad de trabajo atómica: Commit si fn devuelve nil,
// Rollback en cualquier otra salida (error o panic). El error de fn se devuelve sin envolver.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
