// Package memory implementa los puertos de persistencia en memoria.
//
// Se usa en desarrollo (STORE_DRIVER=memory) y en tests. Un único mutex serializa todas las
// operaciones; las entidades se guardan como copias y nunca se modifican en sitio, de modo que
// una transacción puede revertirse restaurando las copias de los mapas.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

// Operaciones sobre las que se pueden inyectar fallos.
const (
	OpAccountCreate      = "accounts.create"
	OpAccountGet         = "accounts.get"
	OpAccountFindByEmail = "accounts.find_by_email"
	OpAccountUpdate      = "accounts.update"
	OpAccountTouchLogin  = "accounts.touch_last_login"
	OpAccountDelete      = "accounts.delete"
	OpAccountList        = "accounts.list"
	OpRequestCreate      = "requests.create"
	OpRequestGet         = "requests.get"
	OpRequestTransition  = "requests.transition"
	OpRequestList        = "requests.list"
	OpApprovalCreate     = "approvals.create"
	OpApprovalGet        = "approvals.get"
	OpApprovalTransition = "approvals.transition"
	OpApprovalList       = "approvals.list"
	OpTxCommit           = "tx.commit"
)

// Store almacenamiento compartido por los tres repositorios.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]*entity.Account
	requests  map[string]*entity.AccountRequest
	approvals map[string]*entity.StrategicApproval
	faults    map[string]error
	calls     map[string]int
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*entity.Account),
		requests:  make(map[string]*entity.AccountRequest),
		approvals: make(map[string]*entity.StrategicApproval),
		faults:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

// Accounts repositorio de cuentas fuera de transacción.
func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s: s} }

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() *AccountRequestRepo { return &AccountRequestRepo{s: s} }

// Approvals repositorio de aprobaciones estratégicas fuera de transacción.
func (s *Store) Approvals() *StrategicApprovalRepo { return &StrategicApprovalRepo{s: s} }

// FailOn hace que la operación op devuelva err hasta que se llame a ClearFaults.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// ClearFaults elimina los fallos inyectados.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]error)
}

// Calls número de veces que se invocó op (incluidas las fallidas).
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// RunApproval ejecuta fn con repositorios atados a una transacción. Si fn falla, o falla el
// commit inyectado, el almacenamiento vuelve exactamente al estado previo.
func (s *Store) RunApproval(ctx context.Context, fn func(
	requests repository.AccountRequestRepository,
	accounts repository.AccountRepository,
) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(&AccountRequestRepo{s: s, inTx: true}, &AccountRepo{s: s, inTx: true})
	if err == nil {
		err = s.enter(OpTxCommit)
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	accounts  map[string]*entity.Account
	requests  map[string]*entity.AccountRequest
	approvals map[string]*entity.StrategicApproval
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:  make(map[string]*entity.Account, len(s.accounts)),
		requests:  make(map[string]*entity.AccountRequest, len(s.requests)),
		approvals: make(map[string]*entity.StrategicApproval, len(s.approvals)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	for k, v := range s.approvals {
		snap.approvals[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.requests = snap.requests
	s.approvals = snap.approvals
}

// lock toma el mutex salvo dentro de una transacción, donde ya lo tiene RunApproval.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// enter registra la llamada y devuelve el fallo inyectado, si lo hay. Requiere el mutex tomado.
func (s *Store) enter(op string) error {
	s.calls[op]++
	if err, ok := s.faults[op]; ok {
		return err
	}
	return nil
}

// ctxErr traduce la cancelación del contexto a los errores de almacenamiento del dominio.
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// page aplica offset/limit sobre una lista ya ordenada. Limit <= 0 no limita.
func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
