package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
)

// RequestFilter criterios de listado de solicitudes de cuenta.
type RequestFilter struct {
	Status entity.RequestStatus
	Search string
	Limit  int
	Offset int
}

// Review datos de una revisión (aprobación, rechazo o paso a revisión).
type Review struct {
	ReviewedBy string
	ReviewedAt time.Time
	Notes      string
}

// AccountRequestRepository define el puerto de persistencia para AccountRequest.
type AccountRequestRepository interface {
	Create(ctx context.Context, req *entity.AccountRequest) error
	GetByID(ctx context.Context, id string) (*entity.AccountRequest, error)
	FindPendingByEmail(ctx context.Context, email string) (*entity.AccountRequest, error)
	// Transition cambia el estado a `to` solo si el estado almacenado es `from` en el momento
	// de la escritura. Devuelve domain.ErrNotFound si no existe y
	// domain.ErrInvalidStateTransition si el estado ya no es `from` (sin modificar nada).
	Transition(ctx context.Context, id string, from, to entity.RequestStatus, review Review) (*entity.AccountRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.AccountRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int, error)
}
