package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
)

// AccountFilter criterios de listado de cuentas. Campos vacíos no filtran.
type AccountFilter struct {
	Role   entity.Role
	Status entity.Status
	Search string // coincide por email, nombre o apellido
	Limit  int
	Offset int
	// OrderBy: created_at (defecto), email, last_name. Desc invierte el orden.
	OrderBy string
	Desc    bool
}

// AccountRepository define el puerto de persistencia para Account (DIP).
// Las lecturas devuelven (nil, nil) cuando no existe el registro.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	// FindOneByEmail busca por coincidencia exacta (sensible a mayúsculas).
	FindOneByEmail(ctx context.Context, email string) (*entity.Account, error)
	// Update persiste perfil, rol y estado. domain.ErrNotFound si la cuenta no existe.
	Update(ctx context.Context, account *entity.Account) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Delete elimina la cuenta de forma irreversible. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AccountFilter) ([]*entity.Account, error)
	Count(ctx context.Context, filter AccountFilter) (int, error)
}
