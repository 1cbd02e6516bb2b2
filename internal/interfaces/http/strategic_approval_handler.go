package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
)

// StrategicApprovalHandler aprobaciones estratégicas.
type StrategicApprovalHandler struct {
	m *lifecycle.Manager
}

// NewStrategicApprovalHandler construye el handler.
func NewStrategicApprovalHandler(m *lifecycle.Manager) *StrategicApprovalHandler {
	return &StrategicApprovalHandler{m: m}
}

// Create godoc
// @Summary      Crear aprobación estratégica
// @Tags         strategic-approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateStrategicApprovalRequest  true  "título, descripción, categoría, prioridad"
// @Success      201   {object}  dto.StrategicApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/strategic-approvals [post]
func (h *StrategicApprovalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStrategicApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.m.CreateStrategicApproval(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar aprobaciones estratégicas
// @Tags         strategic-approvals
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "pending | under_review | approved | rejected"
// @Param        category  query  string  false  "categoría"
// @Param        priority  query  string  false  "low | medium | high | critical"
// @Param        mine      query  bool    false  "solo las propias"
// @Success      200  {object}  dto.StrategicApprovalListResponse
// @Router       /api/strategic-approvals [get]
func (h *StrategicApprovalHandler) List(c *fiber.Ctx) error {
	var in dto.StrategicApprovalListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.m.ListStrategicApprovals(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener aprobación estratégica
// @Tags         strategic-approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.StrategicApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/strategic-approvals/{id} [get]
func (h *StrategicApprovalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.m.GetStrategicApproval(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Decidir aprobación estratégica
// @Tags         strategic-approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                              true  "ID"
// @Param        body  body  dto.ReviewStrategicApprovalRequest  true  "decision: approved | rejected"
// @Success      200   {object}  dto.StrategicApprovalResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/strategic-approvals/{id}/review [post]
func (h *StrategicApprovalHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewStrategicApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.m.ReviewStrategicApproval(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkUnderReview godoc
// @Summary      Pasar a revisión
// @Tags         strategic-approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.MarkUnderReviewRequest  false "notas"
// @Success      200   {object}  dto.StrategicApprovalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/strategic-approvals/{id}/under-review [post]
func (h *StrategicApprovalHandler) MarkUnderReview(c *fiber.Ctx) error {
	var in dto.MarkUnderReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.m.MarkStrategicUnderReview(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
