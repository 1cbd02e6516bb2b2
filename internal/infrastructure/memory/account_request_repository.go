package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.AccountRequestRepository = (*AccountRequestRepo)(nil)

// AccountRequestRepo implementación en memoria de AccountRequestRepository.
type AccountRequestRepo struct {
	s    *Store
	inTx bool
}

// Create persiste una solicitud. Solo puede haber una pendiente por email.
func (r *AccountRequestRepo) Create(ctx context.Context, req *entity.AccountRequest) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestCreate); err != nil {
		return err
	}
	if _, ok := r.s.requests[req.ID]; ok {
		return domain.ErrConflict
	}
	if req.Status == entity.RequestPending {
		for _, cur := range r.s.requests {
			if cur.Status == entity.RequestPending && cur.Email == req.Email {
				return domain.ErrConflict
			}
		}
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *AccountRequestRepo) GetByID(ctx context.Context, id string) (*entity.AccountRequest, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestGet); err != nil {
		return nil, err
	}
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

// FindPendingByEmail solicitud pendiente para el email; (nil, nil) si no hay.
func (r *AccountRequestRepo) FindPendingByEmail(ctx context.Context, email string) (*entity.AccountRequest, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestGet); err != nil {
		return nil, err
	}
	for _, req := range r.s.requests {
		if req.Status == entity.RequestPending && req.Email == email {
			return cloneRequest(req), nil
		}
	}
	return nil, nil
}

// Transition cambio de estado condicionado al estado almacenado.
func (r *AccountRequestRepo) Transition(ctx context.Context, id string, from, to entity.RequestStatus, review repository.Review) (*entity.AccountRequest, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestTransition); err != nil {
		return nil, err
	}
	cur, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if cur.Status != from {
		return nil, domain.ErrInvalidStateTransition
	}
	next := cloneRequest(cur)
	at := review.ReviewedAt
	next.Status = to
	next.ReviewedBy = review.ReviewedBy
	next.ReviewedAt = &at
	next.Notes = review.Notes
	next.UpdatedAt = at
	r.s.requests[id] = next
	return cloneRequest(next), nil
}

// List solicitudes más recientes primero.
func (r *AccountRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.AccountRequest, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestList); err != nil {
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

// Count total de solicitudes que cumplen el filtro.
func (r *AccountRequestRepo) Count(ctx context.Context, filter repository.RequestFilter) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpRequestList); err != nil {
		return 0, err
	}
	return len(r.filtered(filter)), nil
}

func (r *AccountRequestRepo) filtered(filter repository.RequestFilter) []*entity.AccountRequest {
	list := make([]*entity.AccountRequest, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if !matches(filter.Search, req.Email, req.FirstName, req.LastName, req.Department) {
			continue
		}
		list = append(list, cloneRequest(req))
	}
	return list
}

func cloneRequest(req *entity.AccountRequest) *entity.AccountRequest {
	c := *req
	if req.ReviewedAt != nil {
		t := *req.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}
