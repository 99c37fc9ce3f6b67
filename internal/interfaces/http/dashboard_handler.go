package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/cashbook-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el acumulado del negocio.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (total_cash_in, total_cash_out, cash_balance,
// sales_revenue, sale_stock_value, production_stock_value, next_out).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	summary, err := h.uc.GetSummary(c.Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
