package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

// GetAccount obtiene una cuenta. Requiere manage_users salvo para la propia cuenta.
func (m *Manager) GetAccount(ctx context.Context, actor Actor, id string) (*dto.AccountResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if id != actor.ID {
		if err := m.authorize(actor, policy.CapManageUsers); err != nil {
			return nil, err
		}
	}
	account, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromAccount(account)
	return &out, nil
}

// ListAccounts lista cuentas con filtros y orden. Requiere manage_users.
func (m *Manager) ListAccounts(ctx context.Context, actor Actor, in dto.AccountListRequest) (*dto.AccountListResponse, error) {
	if err := m.authorize(actor, policy.CapManageUsers); err != nil {
		return nil, err
	}
	filter := repository.AccountFilter{Search: strings.TrimSpace(in.Search), Desc: in.Desc}
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, invalidField("role", "rol desconocido")
		}
		filter.Role = r
	}
	if in.Status != "" {
		st, ok := entity.ParseStatus(in.Status)
		if !ok {
			return nil, invalidField("status", "estado desconocido")
		}
		filter.Status = st
	}
	switch in.OrderBy {
	case "":
		// por defecto: más recientes primero
		filter.OrderBy, filter.Desc = "created_at", true
	case "created_at", "email", "last_name":
		filter.OrderBy = in.OrderBy
	default:
		return nil, invalidField("order_by", "debe ser created_at, email o last_name")
	}
	in.DefaultPage()

	total, err := m.accounts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = in.Limit, in.Offset
	list, err := m.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AccountListResponse{
		Items: dto.FromAccounts(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateAccount cambios administrativos de perfil, rol y estado. Requiere manage_users;
// cambiar el rol requiere además manage_roles. Una cuenta activa debe tener rol.
func (m *Manager) UpdateAccount(ctx context.Context, actor Actor, id string, in dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	if err := m.authorize(actor, policy.CapManageUsers); err != nil {
		return nil, err
	}
	account, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	prevRole, prevStatus := account.Role, account.Status

	if in.Role != nil {
		raw := strings.TrimSpace(*in.Role)
		role := entity.Role(raw)
		if raw != "" && !role.IsValid() {
			return nil, invalidField("role", "rol desconocido")
		}
		if role != account.Role {
			if err := m.authorize(actor, policy.CapManageRoles); err != nil {
				return nil, err
			}
			account.Role = role
		}
	}
	if in.Status != nil {
		st, ok := entity.ParseStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return nil, invalidField("status", "estado desconocido")
		}
		account.Status = st
	}
	if err := m.applyProfile(account, profilePatch{
		FirstName: in.FirstName, LastName: in.LastName, Department: in.Department,
		Position: in.Position, Phone: in.Phone, AvatarURL: in.AvatarURL,
	}); err != nil {
		return nil, err
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	account.UpdatedAt = m.now()
	if err := m.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	if account.Role != prevRole || account.Status != prevStatus {
		m.observe(KindAccount, "updated")
	}
	m.log.Audit("account.updated", actor.ID).
		Str("account_id", account.ID).
		Str("role_from", string(prevRole)).
		Str("role_to", string(account.Role)).
		Str("status_from", string(prevStatus)).
		Str("status_to", string(account.Status)).
		Msg("cuenta actualizada")
	out := dto.FromAccount(account)
	return &out, nil
}

// UpdateOwnProfile edición del propio perfil: nombre y datos de contacto. Rol y estado no se tocan.
func (m *Manager) UpdateOwnProfile(ctx context.Context, actor Actor, in dto.UpdateProfileRequest) (*dto.AccountResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	account, err := m.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := m.applyProfile(account, profilePatch(in)); err != nil {
		return nil, err
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	account.UpdatedAt = m.now()
	if err := m.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	m.log.Audit("account.profile_updated", actor.ID).Msg("perfil actualizado")
	out := dto.FromAccount(account)
	return &out, nil
}

// DeleteAccount elimina una cuenta de forma irreversible. Requiere manage_users; nadie puede
// eliminar su propia cuenta.
func (m *Manager) DeleteAccount(ctx context.Context, actor Actor, id string) error {
	if err := m.authorize(actor, policy.CapManageUsers); err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("%w: no se puede eliminar la propia cuenta", domain.ErrForbidden)
	}
	if err := m.accounts.Delete(ctx, id); err != nil {
		return err
	}

	m.observe(KindAccount, "deleted")
	m.log.Audit("account.deleted", actor.ID).Str("account_id", id).Msg("cuenta eliminada")
	return nil
}

// profilePatch campos de perfil editables. nil = sin cambios.
type profilePatch struct {
	FirstName  *string
	LastName   *string
	Department *string
	Position   *string
	Phone      *string
	AvatarURL  *string
}

func (m *Manager) applyProfile(a *entity.Account, p profilePatch) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&a.FirstName, p.FirstName)
	set(&a.LastName, p.LastName)
	set(&a.Department, p.Department)
	set(&a.Position, p.Position)
	set(&a.AvatarURL, p.AvatarURL)
	if p.Phone != nil {
		phone, err := m.normalizePhone(*p.Phone)
		if err != nil {
			return err
		}
		a.Phone = phone
	}
	return nil
}

func (m *Manager) load(ctx context.Context, id string) (*entity.Account, error) {
	account, err := m.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}
