package analytics

import "github.com/jhoicas/cashbook-api/internal/application/dto"

// ReportExporter serializa el reporte financiero a un formato descargable (xlsx, pdf).
type ReportExporter interface {
	Export(report *dto.FinancialReportDTO) ([]byte, error)
}
