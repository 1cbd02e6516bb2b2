package lifecycle

import (
	"context"

	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

// TxRunner ejecuta la aprobación de una solicitud en una sola transacción del almacenamiento:
// si fn devuelve error no queda persistido ninguno de los cambios hechos con los repos recibidos.
type TxRunner interface {
	RunApproval(ctx context.Context, fn func(
		requests repository.AccountRequestRepository,
		accounts repository.AccountRepository,
	) error) error
}

// Metrics observador opcional de transiciones.
type Metrics interface {
	ObserveTransition(kind, outcome string)
}

// Tipos de registro para métricas y auditoría.
const (
	KindAccountRequest    = "account_request"
	KindStrategicApproval = "strategic_approval"
	KindAccount           = "account"
)
