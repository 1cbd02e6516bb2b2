package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación en memoria de AccountRepository.
type AccountRepo struct {
	s    *Store
	inTx bool
}

// Create persiste una cuenta nueva. El email es único.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountCreate); err != nil {
		return err
	}
	if _, ok := r.s.accounts[account.ID]; ok {
		return domain.ErrConflict
	}
	for _, a := range r.s.accounts {
		if a.Email == account.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.accounts[account.ID] = cloneAccount(account)
	return nil
}

// GetByID obtiene una cuenta por ID; (nil, nil) si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountGet); err != nil {
		return nil, err
	}
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(a), nil
}

// FindOneByEmail coincidencia exacta, sensible a mayúsculas.
func (r *AccountRepo) FindOneByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountFindByEmail); err != nil {
		return nil, err
	}
	for _, a := range r.s.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

// Update reemplaza los campos mutables de la cuenta.
func (r *AccountRepo) Update(ctx context.Context, account *entity.Account) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountUpdate); err != nil {
		return err
	}
	cur, ok := r.s.accounts[account.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, a := range r.s.accounts {
		if id != account.ID && a.Email == account.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	next := cloneAccount(account)
	// campos fijados en la creación
	next.CreatedAt = cur.CreatedAt
	next.RequestID = cur.RequestID
	next.ApprovedBy = cur.ApprovedBy
	next.ApprovedAt = cur.ApprovedAt
	next.LastLoginAt = cur.LastLoginAt
	r.s.accounts[account.ID] = next
	return nil
}

// TouchLastLogin registra el último inicio de sesión.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountTouchLogin); err != nil {
		return err
	}
	cur, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneAccount(cur)
	next.LastLoginAt = &at
	r.s.accounts[id] = next
	return nil
}

// Delete elimina la cuenta.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountDelete); err != nil {
		return err
	}
	if _, ok := r.s.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

// List devuelve las cuentas que cumplen el filtro, ordenadas y paginadas.
func (r *AccountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountList); err != nil {
		return nil, err
	}
	list := r.filtered(filter)
	sortAccounts(list, filter.OrderBy, filter.Desc)
	return page(list, filter.Limit, filter.Offset), nil
}

// Count total de cuentas que cumplen el filtro (sin paginar).
func (r *AccountRepo) Count(ctx context.Context, filter repository.AccountFilter) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()
	if err := r.s.enter(OpAccountList); err != nil {
		return 0, err
	}
	return len(r.filtered(filter)), nil
}

func (r *AccountRepo) filtered(filter repository.AccountFilter) []*entity.Account {
	list := make([]*entity.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if !matches(filter.Search, a.Email, a.FirstName, a.LastName) {
			continue
		}
		list = append(list, cloneAccount(a))
	}
	return list
}

func sortAccounts(list []*entity.Account, orderBy string, desc bool) {
	less := func(a, b *entity.Account) bool {
		switch orderBy {
		case "email":
			if a.Email != b.Email {
				return a.Email < b.Email
			}
		case "last_name":
			if a.LastName != b.LastName {
				return a.LastName < b.LastName
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
	sort.Slice(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	if a.ApprovedAt != nil {
		t := *a.ApprovedAt
		c.ApprovedAt = &t
	}
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		c.LastLoginAt = &t
	}
	c.ExternalID = ""
	return &c
}
