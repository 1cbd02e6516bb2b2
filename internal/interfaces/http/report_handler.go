package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portal-api/internal/application/reports"
)

// ReportHandler descarga de informes.
type ReportHandler struct {
	uc *reports.AccessReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.AccessReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// AccessPDF godoc
// @Summary      Informe de accesos en PDF
// @Description  Cuentas por rol y estado, capacidades de cada rol y pendientes. Requiere custom_reporting.
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/access.pdf [get]
func (h *ReportHandler) AccessPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DownloadPDF(c.UserContext(), GetEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
