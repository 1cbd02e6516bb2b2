package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
	"github.com/jhoicas/Portal-api/pkg/ids"
)

// SubmitAccountRequest registra la solicitud de acceso de una persona sin cuenta (actor anónimo).
// ErrEmailAlreadyExists si ya hay una cuenta con ese email (incluida la identidad de arranque);
// ErrConflict si ya hay una solicitud pendiente.
func (m *Manager) SubmitAccountRequest(ctx context.Context, in dto.SubmitAccountRequestRequest) (*dto.AccountRequestResponse, error) {
	phone, err := m.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	now := m.now()
	req := &entity.AccountRequest{
		ID:         ids.NewSortable(ids.PrefixAccountRequest),
		Email:      strings.TrimSpace(in.Email),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Department: strings.TrimSpace(in.Department),
		Position:   strings.TrimSpace(in.Position),
		Phone:      phone,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     entity.RequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if m.cfg.BootstrapEmail != "" && req.Email == m.cfg.BootstrapEmail {
		return nil, domain.ErrEmailAlreadyExists
	}
	existing, err := m.accounts.FindOneByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	pending, err := m.requests.FindPendingByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrConflict
	}
	if err := m.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	m.observe(KindAccountRequest, "submitted")
	m.log.Audit("account_request.submitted", "anonymous").
		Str("request_id", req.ID).
		Str("email", req.Email).
		Msg("solicitud de cuenta registrada")
	out := dto.FromAccountRequest(req)
	return &out, nil
}

// ApproveAccountRequest aprueba una solicitud pendiente y crea la cuenta activa correspondiente.
//
// El cambio de estado (condicionado a pending en el momento de escribir) y la creación de la
// cuenta ocurren en una sola transacción: o se persisten ambos o ninguno. Un aprobador
// concurrente que pierde la carrera recibe ErrInvalidStateTransition.
func (m *Manager) ApproveAccountRequest(ctx context.Context, actor Actor, id string, in dto.ApproveAccountRequestRequest) (*dto.ApprovalResultResponse, error) {
	if err := m.authorize(actor, policy.CapApproveAccounts); err != nil {
		return nil, err
	}
	role := entity.RoleMember
	if strings.TrimSpace(in.Role) != "" {
		r, ok := entity.ParseRole(strings.TrimSpace(in.Role))
		if !ok {
			return nil, invalidField("role", "rol desconocido")
		}
		role = r
	}

	now := m.now()
	review := repository.Review{ReviewedBy: actor.ID, ReviewedAt: now, Notes: strings.TrimSpace(in.Notes)}
	var (
		approved *entity.AccountRequest
		created  *entity.Account
	)
	err := m.tx.RunApproval(ctx, func(requests repository.AccountRequestRepository, accounts repository.AccountRepository) error {
		req, err := requests.Transition(ctx, id, entity.RequestPending, entity.RequestApproved, review)
		if err != nil {
			return err
		}
		account := entity.NewAccountFromRequest(ids.NewAccountID(), req, role, actor.ID, now)
		if err := account.Validate(); err != nil {
			return err
		}
		if err := accounts.Create(ctx, account); err != nil {
			return err
		}
		approved, created = req, account
		return nil
	})
	if err != nil {
		m.observeErr(KindAccountRequest, err)
		if errors.Is(err, domain.ErrInvalidStateTransition) {
			m.log.Warn().Str("request_id", id).Str("actor_id", actor.ID).Msg("aprobación sobre solicitud no pendiente")
		}
		return nil, err
	}

	m.observe(KindAccountRequest, string(entity.RequestApproved))
	m.log.Audit("account_request.approved", actor.ID).
		Str("request_id", approved.ID).
		Str("account_id", created.ID).
		Str("role", string(created.Role)).
		Msg("solicitud aprobada y cuenta creada")
	return &dto.ApprovalResultResponse{
		Request: dto.FromAccountRequest(approved),
		Account: dto.FromAccount(created),
	}, nil
}

// RejectAccountRequest rechaza una solicitud pendiente. Nunca crea cuenta.
func (m *Manager) RejectAccountRequest(ctx context.Context, actor Actor, id string, in dto.RejectAccountRequestRequest) (*dto.AccountRequestResponse, error) {
	if err := m.authorize(actor, policy.CapApproveAccounts); err != nil {
		return nil, err
	}
	review := repository.Review{ReviewedBy: actor.ID, ReviewedAt: m.now(), Notes: strings.TrimSpace(in.Notes)}
	req, err := m.requests.Transition(ctx, id, entity.RequestPending, entity.RequestRejected, review)
	if err != nil {
		m.observeErr(KindAccountRequest, err)
		return nil, err
	}

	m.observe(KindAccountRequest, string(entity.RequestRejected))
	m.log.Audit("account_request.rejected", actor.ID).
		Str("request_id", req.ID).
		Msg("solicitud rechazada")
	out := dto.FromAccountRequest(req)
	return &out, nil
}

// GetAccountRequest obtiene una solicitud. ErrNotFound si no existe.
func (m *Manager) GetAccountRequest(ctx context.Context, actor Actor, id string) (*dto.AccountRequestResponse, error) {
	if err := m.authorize(actor, policy.CapApproveAccounts); err != nil {
		return nil, err
	}
	req, err := m.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromAccountRequest(req)
	return &out, nil
}

// ListAccountRequests lista solicitudes, las más recientes primero.
func (m *Manager) ListAccountRequests(ctx context.Context, actor Actor, in dto.AccountRequestListRequest) (*dto.AccountRequestListResponse, error) {
	if err := m.authorize(actor, policy.CapApproveAccounts); err != nil {
		return nil, err
	}
	filter := repository.RequestFilter{Search: strings.TrimSpace(in.Search)}
	if in.Status != "" {
		st := entity.RequestStatus(in.Status)
		if !st.IsValid() {
			return nil, invalidField("status", "estado desconocido")
		}
		filter.Status = st
	}
	in.DefaultPage()

	total, err := m.requests.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = in.Limit, in.Offset
	list, err := m.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AccountRequestListResponse{
		Items: dto.FromAccountRequests(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}
