package sales

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// GetSale obtiene la venta compuesta. Un vendedor solo ve las ventas de su sucursal.
func (uc *SaleUseCase) GetSale(ctx context.Context, principal entity.Principal, id string) (*dto.SaleResponse, error) {
	sale, err := uc.loadSale(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSaleResponse(sale), nil
}

func (uc *SaleUseCase) loadSale(ctx context.Context, principal entity.Principal, id string) (*entity.Sale, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", id)
	}
	if !principal.CanAccessBranch(sale.BranchID) {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// ListSales lista cabeceras de venta. Para vendedores el filtro de sucursal se fuerza a la suya.
func (uc *SaleUseCase) ListSales(ctx context.Context, principal entity.Principal, filter entity.SaleFilter) (*dto.SaleListResponse, error) {
	if !principal.IsAdmin() {
		if filter.BranchID != "" && !principal.CanAccessBranch(filter.BranchID) {
			return nil, domain.ErrForbidden
		}
		filter.BranchID = principal.HomeBranchID
	}
	if filter.Status != "" && filter.Status != entity.SaleStatusCompleted && filter.Status != entity.SaleStatusCancelled {
		return nil, domain.Invalid("status", "debe ser completada o cancelada")
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	rows, err := uc.repos.Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]*dto.SaleResponse, 0, len(rows)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range rows {
		out.Items = append(out.Items, dto.NewSaleResponse(s))
	}
	return out, nil
}
