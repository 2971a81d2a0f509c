package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/suplementos-api/internal/application/cashclosing"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
)

// CashClosingHandler apertura y cierre de caja.
type CashClosingHandler struct {
	uc *cashclosing.UseCase
}

func NewCashClosingHandler(uc *cashclosing.UseCase) *CashClosingHandler {
	return &CashClosingHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashRequest  true  "Apertura"
// @Success      201   {object}  dto.CashClosingResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya hay una caja abierta"
// @Router       /api/cash-closings [post]
func (h *CashClosingHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Open(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar caja con arqueo
// @Tags         cash-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.CloseCashRequest  true  "Declarado"
// @Success      200   {object}  dto.CashClosingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-closings/{id}/close [post]
func (h *CashClosingHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Close(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener turno de caja
// @Tags         cash-closings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.CashClosingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-closings/{id} [get]
func (h *CashClosingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
