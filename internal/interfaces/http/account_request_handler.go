package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
)

// AccountRequestHandler solicitudes de acceso: alta pública y revisión.
type AccountRequestHandler struct {
	m *lifecycle.Manager
}

// NewAccountRequestHandler construye el handler.
func NewAccountRequestHandler(m *lifecycle.Manager) *AccountRequestHandler {
	return &AccountRequestHandler{m: m}
}

// Submit godoc
// @Summary      Solicitar acceso
// @Description  Público. Crea una solicitud pendiente; una sola pendiente por email.
// @Tags         account-requests
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitAccountRequestRequest  true  "datos de contacto"
// @Success      201   {object}  dto.AccountRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/account-requests [post]
func (h *AccountRequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitAccountRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.m.SubmitAccountRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de acceso
// @Tags         account-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending | approved | rejected"
// @Param        search  query  string  false  "email, nombre, departamento"
// @Param        limit   query  int     false  "máx. 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.AccountRequestListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/account-requests [get]
func (h *AccountRequestHandler) List(c *fiber.Ctx) error {
	var in dto.AccountRequestListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.m.ListAccountRequests(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de acceso
// @Tags         account-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.AccountRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/account-requests/{id} [get]
func (h *AccountRequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.m.GetAccountRequest(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Marca la solicitud como aprobada y crea la cuenta activa en una sola transacción.
// @Tags         account-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                            true  "ID de la solicitud"
// @Param        body  body  dto.ApproveAccountRequestRequest  false "rol y notas"
// @Success      200   {object}  dto.ApprovalResultResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/account-requests/{id}/approve [post]
func (h *AccountRequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveAccountRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.m.ApproveAccountRequest(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         account-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                           true  "ID de la solicitud"
// @Param        body  body  dto.RejectAccountRequestRequest  false "notas"
// @Success      200   {object}  dto.AccountRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/account-requests/{id}/reject [post]
func (h *AccountRequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectAccountRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.m.RejectAccountRequest(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
