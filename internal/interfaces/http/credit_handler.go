package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/suplementos-api/internal/application/credit"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
)

// CreditHandler consulta de créditos y registro de abonos.
type CreditHandler struct {
	ledger *credit.LedgerUseCase
}

func NewCreditHandler(ledger *credit.LedgerUseCase) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

// GetByID godoc
// @Summary      Obtener crédito con sus abonos
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {object}  dto.CreditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id} [get]
func (h *CreditHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.GetCredit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar abono
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del crédito"
// @Param        body  body  dto.RecordPaymentRequest  true  "Monto y método"
// @Success      201   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/payments [post]
func (h *CreditHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.RecordPayment(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
