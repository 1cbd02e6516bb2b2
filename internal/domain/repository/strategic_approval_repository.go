package repository

import (
	"context"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
)

// ApprovalFilter criterios de listado de aprobaciones estratégicas.
type ApprovalFilter struct {
	Status      entity.ApprovalStatus
	Category    string
	Priority    entity.Priority
	RequestedBy string
	Search      string
	Limit       int
	Offset      int
}

// StrategicApprovalRepository define el puerto de persistencia para StrategicApproval.
type StrategicApprovalRepository interface {
	Create(ctx context.Context, approval *entity.StrategicApproval) error
	GetByID(ctx context.Context, id string) (*entity.StrategicApproval, error)
	// Transition igual que AccountRequestRepository.Transition pero aceptando varios estados origen.
	Transition(ctx context.Context, id string, from []entity.ApprovalStatus, to entity.ApprovalStatus, review Review) (*entity.StrategicApproval, error)
	List(ctx context.Context, filter ApprovalFilter) ([]*entity.StrategicApproval, error)
	Count(ctx context.Context, filter ApprovalFilter) (int, error)
}
