package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.StrategicApprovalRepository = (*StrategicApprovalRepo)(nil)

// StrategicApprovalRepo implementación en memoria de StrategicApprovalRepository.
type StrategicApprovalRepo struct {
	s *Store
}

// Create persiste una aprobación estratégica.
func (r *StrategicApprovalRepo) Create(ctx context.Context, approval *entity.StrategicApproval) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(false)()
	if err := r.s.enter(OpApprovalCreate); err != nil {
		return err
	}
	if _, ok := r.s.approvals[approval.ID]; ok {
		return domain.ErrConflict
	}
	r.s.approvals[approval.ID] = cloneApproval(approval)
	return nil
}

// GetByID obtiene una aprobación; (nil, nil) si no existe.
func (r *StrategicApprovalRepo) GetByID(ctx context.Context, id string) (*entity.StrategicApproval, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(false)()
	if err := r.s.enter(OpApprovalGet); err != nil {
		return nil, err
	}
	a, ok := r.s.approvals[id]
	if !ok {
		return nil, nil
	}
	return cloneApproval(a), nil
}

// Transition cambio de estado condicionado a que el estado almacenado esté en from.
func (r *StrategicApprovalRepo) Transition(ctx context.Context, id string, from []entity.ApprovalStatus, to entity.ApprovalStatus, review repository.Review) (*entity.StrategicApproval, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(false)()
	if err := r.s.enter(OpApprovalTransition); err != nil {
		return nil, err
	}
	cur, ok := r.s.approvals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	allowed := false
	for _, st := range from {
		if cur.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrInvalidStateTransition
	}
	next := cloneApproval(cur)
	at := review.ReviewedAt
	next.Status = to
	next.ReviewedBy = review.ReviewedBy
	next.ReviewedAt = &at
	next.Notes = review.Notes
	next.UpdatedAt = at
	r.s.approvals[id] = next
	return cloneApproval(next), nil
}

// List aprobaciones más recientes primero.
func (r *StrategicApprovalRepo) List(ctx context.Context, filter repository.ApprovalFilter) ([]*entity.StrategicApproval, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(false)()
	if err := r.s.enter(OpApprovalList); err != nil {
		return nil, err
	}
	list := r.filtered(filter)
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

// Count total de aprobaciones que cumplen el filtro.
func (r *StrategicApprovalRepo) Count(ctx context.Context, filter repository.ApprovalFilter) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	defer r.s.lock(false)()
	if err := r.s.enter(OpApprovalList); err != nil {
		return 0, err
	}
	return len(r.filtered(filter)), nil
}

func (r *StrategicApprovalRepo) filtered(filter repository.ApprovalFilter) []*entity.StrategicApproval {
	list := make([]*entity.StrategicApproval, 0, len(r.s.approvals))
	for _, a := range r.s.approvals {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if filter.RequestedBy != "" && a.RequestedBy != filter.RequestedBy {
			continue
		}
		if !matches(filter.Search, a.Title, a.Description, a.Category) {
			continue
		}
		list = append(list, cloneApproval(a))
	}
	return list
}

func cloneApproval(a *entity.StrategicApproval) *entity.StrategicApproval {
	c := *a
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}
