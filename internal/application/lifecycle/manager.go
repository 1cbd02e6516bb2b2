// Package lifecycle gobierna las transiciones de solicitudes de cuenta, aprobaciones estratégicas
// y cuentas: quién puede dispararlas y qué efectos producen.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
	"github.com/jhoicas/Portal-api/pkg/logger"
)

// Actor cuenta autenticada que dispara una operación. ID y rol son los almacenados, resueltos
// de nuevo en cada petición; solo las cuentas activas llegan aquí.
type Actor struct {
	ID   string
	Role entity.Role
}

// Config parámetros del manager.
type Config struct {
	PhoneRegion    string           // región para teléfonos sin prefijo internacional
	BootstrapEmail string           // identidad de arranque: no admite solicitudes de acceso
	Now            func() time.Time // reloj inyectable; nil = time.Now
}

// Manager casos de uso del ciclo de vida.
type Manager struct {
	policy    *policy.Policy
	accounts  repository.AccountRepository
	requests  repository.AccountRequestRepository
	approvals repository.StrategicApprovalRepository
	tx        TxRunner
	log       *logger.Logger
	metrics   Metrics
	cfg       Config
}

// NewManager construye el manager. log y metrics pueden ser nil.
func NewManager(
	pol *policy.Policy,
	accounts repository.AccountRepository,
	requests repository.AccountRequestRepository,
	approvals repository.StrategicApprovalRepository,
	tx TxRunner,
	log *logger.Logger,
	metrics Metrics,
	cfg Config,
) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = "US"
	}
	return &Manager{
		policy:    pol,
		accounts:  accounts,
		requests:  requests,
		approvals: approvals,
		tx:        tx,
		log:       log.Component("lifecycle"),
		metrics:   metrics,
		cfg:       cfg,
	}
}

// authorize exige que el actor tenga al menos una de las capacidades.
func (m *Manager) authorize(actor Actor, caps ...string) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if !m.policy.HasAnyPermission(actor.Role, caps...) {
		return fmt.Errorf("%w: requiere %s", domain.ErrForbidden, strings.Join(caps, " o "))
	}
	return nil
}

func (m *Manager) now() time.Time {
	return m.cfg.Now().UTC()
}

func (m *Manager) observe(kind, outcome string) {
	if m.metrics != nil {
		m.metrics.ObserveTransition(kind, outcome)
	}
}

// observeErr registra los conflictos de estado; el resto de errores no cuenta como transición.
func (m *Manager) observeErr(kind string, err error) {
	if errors.Is(err, domain.ErrInvalidStateTransition) {
		m.observe(kind, "conflict")
	}
}

func (m *Manager) normalizePhone(phone string) (string, error) {
	normalized, err := entity.NormalizePhone(phone, m.cfg.PhoneRegion)
	if err != nil {
		return "", domain.NewValidationError(map[string]string{"phone": err.Error()})
	}
	return normalized, nil
}

func invalidField(field, msg string) error {
	return domain.NewValidationError(map[string]string{field: msg})
}
