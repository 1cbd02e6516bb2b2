// Package identity traduce la aserción del proveedor de identidad externo a una cuenta interna.
//
// El resolvedor es de solo lectura: no crea, actualiza ni cachea cuentas. Una única identidad
// de arranque (configurable) resuelve siempre a un administrador activo sin consultar el
// almacenamiento, para que el sistema pueda administrarse con la base vacía.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

// Assertion datos que entrega el proveedor de identidad tras autenticar.
type Assertion struct {
	ExternalID string
	Email      string
}

// Outcome clasificación del resultado de una resolución.
type Outcome string

const (
	OutcomeAccount   Outcome = "account"
	OutcomeBootstrap Outcome = "bootstrap"
	OutcomeNoAccount Outcome = "no_account"
	OutcomeAnonymous Outcome = "anonymous"
	OutcomeFailed    Outcome = "failed"
)

// Resolution resultado de resolver una aserción. Account es nil salvo en OutcomeAccount y OutcomeBootstrap.
type Resolution struct {
	Account *entity.Account
	Outcome Outcome
}

// HasAccount true si la resolución produjo una cuenta.
func (r Resolution) HasAccount() bool { return r.Account != nil }

// Metrics observador opcional de resoluciones.
type Metrics interface {
	ObserveResolution(outcome string)
}

// BootstrapConfig identidad que siempre es administradora.
type BootstrapConfig struct {
	Email     string
	AccountID string
}

// Resolver convierte aserciones en cuentas.
type Resolver struct {
	accounts  repository.AccountRepository
	bootstrap BootstrapConfig
	metrics   Metrics
}

// NewResolver construye el resolvedor. metrics puede ser nil.
func NewResolver(accounts repository.AccountRepository, bootstrap BootstrapConfig, metrics Metrics) *Resolver {
	return &Resolver{accounts: accounts, bootstrap: bootstrap, metrics: metrics}
}

// Resolve busca la cuenta de la aserción.
//
//   - email vacío o con espacios alrededor: *domain.ValidationError. La comparación es exacta.
//   - email de arranque: administrador activo sintético, sin acceso al almacenamiento.
//   - sin coincidencias: Resolution{Outcome: OutcomeNoAccount} y error nil.
//   - fallo del almacenamiento: Resolution{Outcome: OutcomeFailed} y un error que envuelve
//     domain.ErrResolution y el error original.
func (r *Resolver) Resolve(ctx context.Context, a Assertion) (Resolution, error) {
	email := a.Email
	if strings.TrimSpace(email) == "" {
		r.observe(OutcomeFailed)
		return Resolution{Outcome: OutcomeFailed}, domain.NewValidationError(map[string]string{"email": "no puede estar vacío"})
	}
	if strings.TrimSpace(email) != email {
		r.observe(OutcomeFailed)
		return Resolution{Outcome: OutcomeFailed}, domain.NewValidationError(map[string]string{"email": "no puede tener espacios al inicio o al final"})
	}

	if r.bootstrap.Email != "" && email == r.bootstrap.Email {
		r.observe(OutcomeBootstrap)
		return Resolution{Account: r.bootstrapAccount(a), Outcome: OutcomeBootstrap}, nil
	}

	stored, err := r.accounts.FindOneByEmail(ctx, email)
	if err != nil {
		r.observe(OutcomeFailed)
		return Resolution{Outcome: OutcomeFailed}, fmt.Errorf("%w: %w", domain.ErrResolution, err)
	}
	if stored == nil {
		r.observe(OutcomeNoAccount)
		return Resolution{Outcome: OutcomeNoAccount}, nil
	}

	r.observe(OutcomeAccount)
	return Resolution{Account: normalize(stored, a.ExternalID), Outcome: OutcomeAccount}, nil
}

// HandleAuthStateChange callback de cambio de estado de autenticación (login, logout, expiración).
// Cada invocación es una resolución nueva; una aserción nil equivale a sesión cerrada.
func (r *Resolver) HandleAuthStateChange(ctx context.Context, a *Assertion) (Resolution, error) {
	if a == nil {
		r.observe(OutcomeAnonymous)
		return Resolution{Outcome: OutcomeAnonymous}, nil
	}
	return r.Resolve(ctx, *a)
}

// IsBootstrap informa si el email es el de la identidad de arranque.
func (r *Resolver) IsBootstrap(email string) bool {
	return r.bootstrap.Email != "" && email == r.bootstrap.Email
}

func (r *Resolver) bootstrapAccount(a Assertion) *entity.Account {
	return &entity.Account{
		ID:         r.bootstrap.AccountID,
		Email:      r.bootstrap.Email,
		FirstName:  "System",
		LastName:   "Administrator",
		Role:       entity.RoleAdmin,
		Status:     entity.StatusActive,
		ExternalID: a.ExternalID,
	}
}

// normalize aplica los valores por defecto de lectura: rol desconocido → member,
// estado desconocido → pending (nunca active).
func normalize(stored *entity.Account, externalID string) *entity.Account {
	acc := *stored
	if !acc.Role.IsValid() {
		acc.Role = entity.RoleMember
	}
	if !acc.Status.IsValid() {
		acc.Status = entity.StatusPending
	}
	acc.ExternalID = externalID
	return &acc
}

func (r *Resolver) observe(o Outcome) {
	if r.metrics != nil {
		r.metrics.ObserveResolution(string(o))
	}
}
