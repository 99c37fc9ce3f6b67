package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cashbook-api/internal/application/cashbook"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

// TransactionHandler libro de caja (protegido).
type TransactionHandler struct {
	uc  *cashbook.CashbookUseCase
	loc *time.Location
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *cashbook.CashbookUseCase, loc *time.Location) *TransactionHandler {
	return &TransactionHandler{uc: uc, loc: loc}
}

// Create godoc
// @Summary      Registrar movimiento manual (sale, capital, expense)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "amount, category, type, description, date"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Add(c.Context(), businessID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos de caja
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "YYYY-MM-DD"
// @Param        to        query  string  false  "YYYY-MM-DD (incluido)"
// @Param        category  query  string  false  "sale | capital | expense | stock_purchase"
// @Param        type      query  string  false  "IN | OUT"
// @Success      200  {array}   dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	from, to, err := queryRange(c, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	f := repository.TransactionFilter{From: from, To: to}
	if s := c.Query("category"); s != "" {
		if f.Category, err = entity.ParseTransactionCategory(s); err != nil {
			return writeError(c, err)
		}
	}
	if s := c.Query("type"); s != "" {
		if f.Type, err = entity.ParseTransactionType(s); err != nil {
			return writeError(c, err)
		}
	}
	list, err := h.uc.List(c.Context(), businessID, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Delete godoc
// @Summary      Eliminar movimiento manual
// @Tags         transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "LINKED_TRANSACTION"
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.Context(), businessID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
