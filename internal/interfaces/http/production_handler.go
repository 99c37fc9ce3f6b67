package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/production"
)

// ProductionHandler consumos de materia prima y producciones (protegido).
type ProductionHandler struct {
	uc  *production.ProductionUseCase
	loc *time.Location
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.ProductionUseCase, loc *time.Location) *ProductionHandler {
	return &ProductionHandler{uc: uc, loc: loc}
}

// CreateUsage godoc
// @Summary      Registrar consumo de materia prima
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionUsageRequest  true  "product_name, quantity, date"
// @Success      201   {object}  dto.ProductionUsageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/usages [post]
func (h *ProductionHandler) CreateUsage(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	var in dto.CreateProductionUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateUsage(c.Context(), businessID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsages godoc
// @Summary      Listar consumos de materia prima
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD (incluido)"
// @Success      200  {array}   dto.ProductionUsageResponse
// @Router       /api/production/usages [get]
func (h *ProductionHandler) ListUsages(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	from, to, err := queryRange(c, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListUsages(c.Context(), businessID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// DeleteUsage godoc
// @Summary      Anular consumo de materia prima
// @Tags         production
// @Security     Bearer
// @Param        id   path  string  true  "ID del consumo"
// @Success      204
// @Router       /api/production/usages/{id} [delete]
func (h *ProductionHandler) DeleteUsage(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	if err := h.uc.DeleteUsage(c.Context(), businessID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateRun godoc
// @Summary      Registrar producción (ingredientes FIFO → lote vendible)
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionRunRequest  true  "output_product, output_quantity, ingredients, operational_costs"
// @Success      201   {object}  dto.ProductionRunResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/runs [post]
func (h *ProductionHandler) CreateRun(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	var in dto.CreateProductionRunRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRun(c.Context(), businessID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRuns godoc
// @Summary      Listar producciones
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductionRunResponse
// @Router       /api/production/runs [get]
func (h *ProductionHandler) ListRuns(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	from, to, err := queryRange(c, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListRuns(c.Context(), businessID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// DeleteRun godoc
// @Summary      Anular producción (requiere el lote producido intacto)
// @Tags         production
// @Security     Bearer
// @Param        id   path  string  true  "ID de la producción"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id} [delete]
func (h *ProductionHandler) DeleteRun(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	if err := h.uc.DeleteRun(c.Context(), businessID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
