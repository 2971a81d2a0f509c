package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// InventoryHandler lotes, stock y movimientos.
type InventoryHandler struct {
	lots *inventory.LotStore
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(lots *inventory.LotStore) *InventoryHandler {
	return &InventoryHandler{lots: lots}
}

// AddLot godoc
// @Summary      Registrar lote (reabastecimiento)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddLotRequest  true  "Lote recibido"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [post]
func (h *InventoryHandler) AddLot(c *fiber.Ctx) error {
	var in dto.AddLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.lots.AddLot(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLots godoc
// @Summary      Lotes de un producto en una sucursal (orden FIFO)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  true   "Producto"
// @Param        branch_id      query  string  true   "Sucursal"
// @Param        with_stock     query  bool    false  "Solo lotes con existencia"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	productID, branchID := c.Query("product_id"), c.Query("branch_id")
	if productID == "" || branchID == "" {
		return writeError(c, domain.Invalid("product_id/branch_id", "son obligatorios"))
	}
	out, err := h.lots.ListLots(c.UserContext(), productID, branchID, c.QueryBool("with_stock", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Stock disponible de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Param        branch_id   query  string  true  "Sucursal"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID, branchID := c.Query("product_id"), c.Query("branch_id")
	if productID == "" || branchID == "" {
		return writeError(c, domain.Invalid("product_id/branch_id", "son obligatorios"))
	}
	out, err := h.lots.GetAvailableStock(c.UserContext(), productID, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo el stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vendedor: siempre la propia)"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.lots.ListLowStock(c.UserContext(), scopedBranch(c, c.Query("branch_id")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste negativo de un lote (merma, vencido, corrección)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.lots.AdjustStock(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Traslado entre sucursales (FIFO en origen)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Traslado"
// @Success      201   {array}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.lots.TransferStock(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  false  "Sucursal"
// @Param        product_id  query  string  false  "Producto"
// @Param        sale_id     query  string  false  "Venta"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	out, err := h.lots.ListMovements(c.UserContext(), entity.MovementFilter{
		BranchID:  scopedBranch(c, c.Query("branch_id")),
		ProductID: c.Query("product_id"),
		SaleID:    c.Query("sale_id"),
		Limit:     c.QueryInt("limit", 100),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// scopedBranch un vendedor solo consulta su sucursal base.
func scopedBranch(c *fiber.Ctx, requested string) string {
	if GetRole(c) == entity.RoleVendedor {
		return GetBranchID(c)
	}
	return requested
}
