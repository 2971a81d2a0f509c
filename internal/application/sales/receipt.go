package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// ReceiptData datos necesarios para imprimir el comprobante de una venta.
type ReceiptData struct {
	Sale   *entity.Sale
	Branch *entity.Branch
	Client *entity.Client // nil = consumidor final
}

// ReceiptGenerator genera el documento imprimible de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// ReceiptUseCase genera el comprobante imprimible de una venta.
type ReceiptUseCase struct {
	sales     *SaleUseCase
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales *SaleUseCase, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator}
}

// Download genera el PDF de la venta y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) Download(ctx context.Context, principal entity.Principal, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.loadSale(ctx, principal, saleID)
	if err != nil {
		return nil, "", err
	}
	branch, err := uc.sales.repos.Branches.GetByID(ctx, sale.BranchID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener sucursal: %w", err)
	}
	if branch == nil {
		branch = &entity.Branch{ID: sale.BranchID}
	}
	var client *entity.Client
	if sale.ClientID != "" {
		client, err = uc.sales.repos.Clients.GetByID(ctx, sale.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
		}
	}
	pdf, err := uc.generator.GenerateSaleReceipt(ctx, ReceiptData{Sale: sale, Branch: branch, Client: client})
	if err != nil {
		return nil, "", err
	}
	return pdf, sale.Number + ".pdf", nil
}
