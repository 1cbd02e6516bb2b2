package lifecycle

import (
	"context"
	"strings"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
	"github.com/jhoicas/Portal-api/pkg/ids"
)

// reviewCaps capacidades que permiten cambiar el estado de una aprobación estratégica.
var reviewCaps = []string{policy.CapStrategicDecisions, policy.CapApproveStrategic}

// reviewableFrom estados desde los que se puede emitir una decisión.
var reviewableFrom = []entity.ApprovalStatus{entity.ApprovalPending, entity.ApprovalUnderReview}

// CreateStrategicApproval registra una solicitud de decisión. Cualquier cuenta autenticada puede crearla.
func (m *Manager) CreateStrategicApproval(ctx context.Context, actor Actor, in dto.CreateStrategicApprovalRequest) (*dto.StrategicApprovalResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	priority := entity.Priority(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = entity.PriorityMedium
	}
	now := m.now()
	approval := &entity.StrategicApproval{
		ID:          ids.NewSortable(ids.PrefixStrategicApproval),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    priority,
		Status:      entity.ApprovalPending,
		RequestedBy: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := approval.Validate(); err != nil {
		return nil, err
	}
	if err := m.approvals.Create(ctx, approval); err != nil {
		return nil, err
	}

	m.observe(KindStrategicApproval, "submitted")
	m.log.Audit("strategic_approval.created", actor.ID).
		Str("approval_id", approval.ID).
		Str("priority", string(approval.Priority)).
		Msg("aprobación estratégica creada")
	out := dto.FromStrategicApproval(approval)
	return &out, nil
}

// ReviewStrategicApproval emite la decisión (approved | rejected) sobre una aprobación
// pendiente o en revisión. Los estados terminales no admiten cambios.
func (m *Manager) ReviewStrategicApproval(ctx context.Context, actor Actor, id string, in dto.ReviewStrategicApprovalRequest) (*dto.StrategicApprovalResponse, error) {
	if err := m.authorize(actor, reviewCaps...); err != nil {
		return nil, err
	}
	decision := entity.ApprovalStatus(strings.TrimSpace(in.Decision))
	if decision != entity.ApprovalApproved && decision != entity.ApprovalRejected {
		return nil, invalidField("decision", "debe ser approved o rejected")
	}
	return m.transitionApproval(ctx, actor, id, reviewableFrom, decision, in.Notes)
}

// MarkStrategicUnderReview pasa una aprobación de pending a under_review.
func (m *Manager) MarkStrategicUnderReview(ctx context.Context, actor Actor, id string, in dto.MarkUnderReviewRequest) (*dto.StrategicApprovalResponse, error) {
	if err := m.authorize(actor, reviewCaps...); err != nil {
		return nil, err
	}
	return m.transitionApproval(ctx, actor, id, []entity.ApprovalStatus{entity.ApprovalPending}, entity.ApprovalUnderReview, in.Notes)
}

func (m *Manager) transitionApproval(ctx context.Context, actor Actor, id string, from []entity.ApprovalStatus, to entity.ApprovalStatus, notes string) (*dto.StrategicApprovalResponse, error) {
	review := repository.Review{ReviewedBy: actor.ID, ReviewedAt: m.now(), Notes: strings.TrimSpace(notes)}
	approval, err := m.approvals.Transition(ctx, id, from, to, review)
	if err != nil {
		m.observeErr(KindStrategicApproval, err)
		return nil, err
	}

	m.observe(KindStrategicApproval, string(to))
	m.log.Audit("strategic_approval."+string(to), actor.ID).
		Str("approval_id", approval.ID).
		Msg("aprobación estratégica actualizada")
	out := dto.FromStrategicApproval(approval)
	return &out, nil
}

// GetStrategicApproval obtiene una aprobación. ErrNotFound si no existe.
func (m *Manager) GetStrategicApproval(ctx context.Context, actor Actor, id string) (*dto.StrategicApprovalResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	approval, err := m.approvals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromStrategicApproval(approval)
	return &out, nil
}

// ListStrategicApprovals lista aprobaciones para cualquier cuenta autenticada.
func (m *Manager) ListStrategicApprovals(ctx context.Context, actor Actor, in dto.StrategicApprovalListRequest) (*dto.StrategicApprovalListResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	filter := repository.ApprovalFilter{
		Category: strings.TrimSpace(in.Category),
		Search:   strings.TrimSpace(in.Search),
	}
	if in.Status != "" {
		st := entity.ApprovalStatus(in.Status)
		if !st.IsValid() {
			return nil, invalidField("status", "estado desconocido")
		}
		filter.Status = st
	}
	if in.Priority != "" {
		p := entity.Priority(in.Priority)
		if !p.IsValid() {
			return nil, invalidField("priority", "prioridad desconocida")
		}
		filter.Priority = p
	}
	if in.Mine {
		filter.RequestedBy = actor.ID
	}
	in.DefaultPage()

	total, err := m.approvals.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = in.Limit, in.Offset
	list, err := m.approvals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.StrategicApprovalListResponse{
		Items: dto.FromStrategicApprovals(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}
