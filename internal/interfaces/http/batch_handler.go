package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
)

// BatchHandler maneja las peticiones HTTP del libro de lotes (protegido).
type BatchHandler struct {
	uc *inventory.BatchUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *inventory.BatchUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar ingreso de stock (lote)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_name, quantity, unit_price o total_paid, class"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), businessID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        product    query  string  false  "Nombre del producto"
// @Param        class      query  string  false  "for_sale | for_production"
// @Param        available  query  bool    false  "Solo lotes con remanente"
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	list, err := h.uc.List(c.Context(), businessID, c.Query("product"), c.Query("class"), c.QueryBool("available", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.JSON(out)
}

// ListAvailable godoc
// @Summary      Lotes disponibles en orden FIFO
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        product  query  string  true  "Nombre del producto"
// @Param        class    query  string  true  "for_sale | for_production"
// @Success      200  {array}   dto.BatchResponse
// @Router       /api/batches/available [get]
func (h *BatchHandler) ListAvailable(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	list, err := h.uc.ListAvailable(c.Context(), businessID, c.Query("product"), c.Query("class"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// TotalAvailable godoc
// @Summary      Cantidad disponible de un producto
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        product  query  string  true  "Nombre del producto"
// @Param        class    query  string  true  "for_sale | for_production"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/batches/total [get]
func (h *BatchHandler) TotalAvailable(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	out, err := h.uc.TotalAvailable(c.Context(), businessID, c.Query("product"), c.Query("class"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OnHand godoc
// @Summary      Existencias por producto con el próximo lote FIFO
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OnHandProductDTO
// @Router       /api/batches/on-hand [get]
func (h *BatchHandler) OnHand(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	list, err := h.uc.OnHand(c.Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Delete godoc
// @Summary      Eliminar lote intacto (y su salida de caja)
// @Tags         batches
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	if err := h.uc.Remove(c.Context(), businessID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
