package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	dominv "github.com/jhoicas/suplementos-api/internal/domain/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Config parámetros del almacén de lotes.
type Config struct {
	ExpiryHorizonDays int
	Now               func() time.Time
}

// LotStore administra lotes y el resumen de stock por sucursal. Toda mutación ocurre
// dentro de una unidad de trabajo (TxRunner) con bloqueo de filas.
type LotStore struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	horizon  int
	now      func() time.Time
}

// NewLotStore construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewLotStore(txRunner repository.TxRunner, repos repository.Repos, cfg Config) *LotStore {
	if cfg.ExpiryHorizonDays <= 0 {
		cfg.ExpiryHorizonDays = dominv.DefaultExpiryHorizonDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LotStore{txRunner: txRunner, repos: repos, horizon: cfg.ExpiryHorizonDays, now: cfg.Now}
}

// LotEntry ingreso de un lote con el movimiento que lo justifica.
type LotEntry struct {
	ProductID      string
	BranchID       string
	LotNumber      string
	Quantity       int
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	Source         string // entity.LotSource*
	MovementType   string // entity.MovementType*
	Reason         string
	SaleID         string
	UserID         string
}

// AddLot registra un reabastecimiento: crea el lote, incrementa el resumen y deja el movimiento de entrada.
func (s *LotStore) AddLot(ctx context.Context, principal entity.Principal, in dto.AddLotRequest) (*dto.LotResponse, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "es obligatorio")
	}
	if in.BranchID == "" {
		return nil, domain.Invalid("branch_id", "es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if !in.UnitCost.IsPositive() {
		return nil, domain.Invalid("unit_cost", "debe ser mayor que cero")
	}
	exp, err := dto.ParseDate(in.ExpirationDate)
	if err != nil {
		return nil, domain.Invalid("expiration_date", "formato esperado YYYY-MM-DD")
	}
	if !principal.CanAccessBranch(in.BranchID) {
		return nil, domain.ErrForbidden
	}

	var lot *entity.Lot
	err = s.txRunner.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", in.ProductID)
		}
		branch, err := r.Branches.GetByID(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.NotFound("sucursal", in.BranchID)
		}
		number := strings.TrimSpace(in.LotNumber)
		if number == "" {
			if product.RequiresLot {
				return domain.Invalid("lot_number", "es obligatorio para productos con control de lote")
			}
			number = generatedLotNumber(s.now())
		}
		lot, err = s.ReceiveInTx(ctx, r, LotEntry{
			ProductID:      in.ProductID,
			BranchID:       in.BranchID,
			LotNumber:      number,
			Quantity:       in.Quantity,
			UnitCost:       in.UnitCost.Round(2),
			ExpirationDate: exp,
			Source:         entity.LotSourceRestock,
			MovementType:   entity.MovementTypeIN,
			Reason:         entity.MovementReasonRestock,
			UserID:         principal.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewLotResponse(lot, expirationStatus(lot, s.now(), s.horizon)), nil
}

// ReceiveInTx crea un lote dentro de la transacción del llamador, incrementa el resumen por el
// mismo monto y registra el movimiento. El número de lote debe ser único por producto+sucursal.
func (s *LotStore) ReceiveInTx(ctx context.Context, r repository.Repos, e LotEntry) (*entity.Lot, error) {
	if e.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if !e.UnitCost.IsPositive() {
		return nil, domain.Invalid("unit_cost", "debe ser mayor que cero")
	}
	existing, err := r.Lots.GetByNumber(ctx, e.ProductID, e.BranchID, e.LotNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("lote %s ya existe: %w", e.LotNumber, domain.ErrConflict)
	}
	now := s.now()
	lot := &entity.Lot{
		ID:              uuid.New().String(),
		ProductID:       e.ProductID,
		BranchID:        e.BranchID,
		LotNumber:       e.LotNumber,
		ExpirationDate:  e.ExpirationDate,
		InitialQuantity: e.Quantity,
		CurrentQuantity: e.Quantity,
		UnitCost:        e.UnitCost,
		Source:          e.Source,
		ReceivedAt:      now,
		CreatedAt:       now,
	}
	if err := r.Lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	if err := r.Stock.Increment(ctx, e.ProductID, e.BranchID, e.Quantity); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		Type:      e.MovementType,
		ProductID: e.ProductID,
		LotID:     lot.ID,
		BranchID:  e.BranchID,
		Quantity:  e.Quantity,
		UnitCost:  e.UnitCost,
		Reason:    e.Reason,
		SaleID:    e.SaleID,
		UserID:    e.UserID,
		CreatedAt: now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return lot, nil
}

// LockStock bloquea las filas de resumen de los productos en orden ascendente de ID, para que
// dos ventas concurrentes con los mismos productos no se bloqueen en orden cruzado.
func (s *LotStore) LockStock(ctx context.Context, r repository.Repos, branchID string, productIDs []string) error {
	ids := make([]string, 0, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := r.Stock.GetForUpdate(ctx, id, branchID); err != nil {
			return err
		}
	}
	return nil
}

// DepleteInTx descuenta quantity del producto en la sucursal dentro de la transacción del llamador.
// Con lotID vacío recorre los lotes en orden FIFO; con lotID descuenta solo de ese lote.
// El total disponible se verifica antes de modificar cualquier lote. Las restas son condicionales:
// si otra transacción tomó el stock entre la lectura y la escritura se devuelve InsufficientStockError.
func (s *LotStore) DepleteInTx(ctx context.Context, r repository.Repos, productID, branchID, lotID string, quantity int) ([]entity.LotAllocation, error) {
	summary, err := r.Stock.GetForUpdate(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}

	var allocs []entity.LotAllocation
	if lotID != "" {
		lot, err := r.Lots.GetForUpdate(ctx, lotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, domain.NotFound("lote", lotID)
		}
		allocs, err = dominv.PlanSingleLot(productID, branchID, lot, quantity)
		if err != nil {
			return nil, err
		}
	} else {
		lots, err := r.Lots.ListAvailableForUpdate(ctx, productID, branchID)
		if err != nil {
			return nil, err
		}
		dominv.SortFIFO(lots)
		allocs, err = dominv.PlanFIFO(productID, branchID, lots, quantity)
		if err != nil {
			return nil, err
		}
	}

	if summary.CurrentStock < quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: productID, BranchID: branchID, Requested: quantity, Available: summary.CurrentStock,
		}
	}
	for _, a := range allocs {
		ok, err := r.Lots.Decrement(ctx, a.LotID, a.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.InsufficientStockError{
				ProductID: productID, BranchID: branchID, Requested: quantity, Available: summary.CurrentStock,
			}
		}
	}
	ok, err := r.Stock.Decrement(ctx, productID, branchID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.InsufficientStockError{
			ProductID: productID, BranchID: branchID, Requested: quantity, Available: summary.CurrentStock,
		}
	}
	return allocs, nil
}

// GetAvailableStock lee el resumen desnormalizado (no recalcula desde lotes).
func (s *LotStore) GetAvailableStock(ctx context.Context, productID, branchID string) (*dto.StockResponse, error) {
	if productID == "" || branchID == "" {
		return nil, domain.Invalid("product_id/branch_id", "son obligatorios")
	}
	st, err := s.repos.Stock.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	return dto.NewStockResponse(st), nil
}

// ListLots lotes del producto en la sucursal en orden FIFO con su estado de vencimiento.
func (s *LotStore) ListLots(ctx context.Context, productID, branchID string, onlyWithStock bool) ([]*dto.LotResponse, error) {
	if productID == "" || branchID == "" {
		return nil, domain.Invalid("product_id/branch_id", "son obligatorios")
	}
	lots, err := s.repos.Lots.List(ctx, productID, branchID, onlyWithStock)
	if err != nil {
		return nil, err
	}
	dominv.SortFIFO(lots)
	now := s.now()
	out := make([]*dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.NewLotResponse(l, expirationStatus(l, now, s.horizon)))
	}
	return out, nil
}

// ListLowStock productos con stock en o bajo el mínimo. branchID vacío = todas las sucursales.
func (s *LotStore) ListLowStock(ctx context.Context, branchID string) ([]*dto.StockResponse, error) {
	rows, err := s.repos.Stock.ListLow(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockResponse, 0, len(rows))
	for _, st := range rows {
		out = append(out, dto.NewStockResponse(st))
	}
	return out, nil
}

// ListMovements historial de movimientos, más recientes primero.
func (s *LotStore) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]*dto.MovementResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	rows, err := s.repos.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.NewMovementResponse(m))
	}
	return out, nil
}

func generatedLotNumber(now time.Time) string {
	return fmt.Sprintf("L-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.New().String()[:6]))
}

func expirationStatus(l *entity.Lot, now time.Time, horizon int) string {
	return dominv.ExpirationStatus(l.ExpirationDate, now, horizon)
}
