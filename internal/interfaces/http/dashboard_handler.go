package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// DashboardService lo implementa *analytics.DashboardUseCase.
type DashboardService interface {
	GetSummary(ctx context.Context, caller entity.Identity, companyID string) (*dto.DashboardSummaryDTO, error)
}

// DashboardHandler maneja los endpoints del panel.
type DashboardHandler struct {
	base
	uc DashboardService
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{base: newBase(log, nil), uc: uc}
}

// GetSummary devuelve los contadores del panel y el consumo del mes en curso.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (lines, users, pending_alerts, open_orders,
// monthly_data_gb, monthly_voice_minutes, top_consumers[5], date_label).
// admin/ssr pueden pasar ?company_id=; smea ve siempre su empresa.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	summary, err := h.uc.GetSummary(c.Context(), caller, c.Query("company_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}
