package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Portal-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de los tableros ejecutivo y de administración.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetExecutive devuelve totales de cuentas, pendientes y KPIs.
// GET /api/dashboard/executive
//
// Respuesta: ExecutiveSummaryDTO (total_accounts, active_accounts, pending_account_requests,
// pending_strategic_approvals, kpis[], generated_at). Requiere view_all_data.
func (h *DashboardHandler) GetExecutive(c *fiber.Ctx) error {
	summary, err := h.uc.GetExecutiveSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetAdmin devuelve solicitudes pendientes, cuentas recientes y distribución por rol y estado.
// GET /api/dashboard/admin
func (h *DashboardHandler) GetAdmin(c *fiber.Ctx) error {
	overview, err := h.uc.GetAdminOverview(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(overview)
}
