package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ReportHandler reporte financiero en JSON, xlsx y pdf (protegido).
type ReportHandler struct {
	uc  *appanalytics.ReportUseCase
	loc *time.Location
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase, loc *time.Location) *ReportHandler {
	return &ReportHandler{uc: uc, loc: loc}
}

func (h *ReportHandler) dateRange(c *fiber.Ctx) (dto.DateRange, error) {
	return dto.NewDateRange(c.Query("from"), c.Query("to"), time.Now().In(h.loc))
}

// Financial godoc
// @Summary      Estado de resultados y flujo de caja
// @Description  Ventana [from, to] con to incluido hasta 23:59:59.999. Sin parámetros: mes en curso.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.FinancialReportDTO
// @Router       /api/reports/financial [get]
func (h *ReportHandler) Financial(c *fiber.Ctx) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	r, err := h.dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	rep, err := h.uc.Financial(c.Context(), businessID, r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}

// FinancialXLSX godoc
// @Summary      Reporte financiero en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200
// @Router       /api/reports/financial.xlsx [get]
func (h *ReportHandler) FinancialXLSX(c *fiber.Ctx) error {
	return h.download(c, "xlsx", mimeXLSX, h.uc.ExportXLSX)
}

// FinancialPDF godoc
// @Summary      Reporte financiero en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200
// @Router       /api/reports/financial.pdf [get]
func (h *ReportHandler) FinancialPDF(c *fiber.Ctx) error {
	return h.download(c, "pdf", mimePDF, h.uc.ExportPDF)
}

func (h *ReportHandler) download(c *fiber.Ctx, ext, mime string, export func(ctx context.Context, businessID string, r dto.DateRange) ([]byte, error)) error {
	businessID, ok := requireBusiness(c)
	if !ok {
		return nil
	}
	r, err := h.dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := export(c.Context(), businessID, r)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, appanalytics.ReportFileName(r, ext)))
	return c.Send(out)
}
