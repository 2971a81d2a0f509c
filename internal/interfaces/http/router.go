package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/suplementos-api/internal/application/cashclosing"
	"github.com/jhoicas/suplementos-api/internal/application/credit"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/quotation"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	BranchUC     *usecase.BranchUseCase
	ClientUC     *usecase.ClientUseCase
	Lots         *inventory.LotStore
	Sales        *sales.SaleUseCase
	Receipts     *sales.ReceiptUseCase
	Ledger       *credit.LedgerUseCase
	Quotations   *quotation.UseCase
	CashClosings *cashclosing.UseCase
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)

	products := api.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	branches := api.Group("/branches", anyRole)
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", adminOnly, branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	inv := api.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.Lots)
	inv.Post("/lots", inventoryHandler.AddLot)
	inv.Get("/lots", inventoryHandler.ListLots)
	inv.Get("/stock", inventoryHandler.GetStock)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Post("/adjustments", adminOnly, inventoryHandler.Adjust)
	inv.Post("/transfers", adminOnly, inventoryHandler.Transfer)
	inv.Get("/movements", inventoryHandler.Movements)

	salesGroup := api.Group("/sales", anyRole)
	saleHandler := NewSaleHandler(deps.Sales, deps.Receipts)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	clients := api.Group("/clients", anyRole)
	clientHandler := NewClientHandler(deps.ClientUC, deps.Ledger)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Get("/:id/credits", clientHandler.Credits)

	credits := api.Group("/credits", anyRole)
	creditHandler := NewCreditHandler(deps.Ledger)
	credits.Get("/:id", creditHandler.GetByID)
	credits.Post("/:id/payments", creditHandler.RecordPayment)

	quotations := api.Group("/quotations", anyRole)
	quotationHandler := NewQuotationHandler(deps.Quotations)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Post("/:id/convert", quotationHandler.Convert)

	cash := api.Group("/cash-closings", anyRole)
	cashHandler := NewCashClosingHandler(deps.CashClosings)
	cash.Post("/", cashHandler.Open)
	cash.Get("/:id", cashHandler.GetByID)
	cash.Post("/:id/close", cashHandler.Close)
}
