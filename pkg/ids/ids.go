// Package ids genera identificadores para cuentas, solicitudes y aprobaciones.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Prefijos de identificadores ordenables.
const (
	PrefixAccountRequest    = "req_"
	PrefixStrategicApproval = "approval_"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewSortable devuelve prefix + ULID (lexicográficamente ordenable por fecha de creación).
func NewSortable(prefix string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return prefix + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewAccountID identificador interno de una cuenta.
func NewAccountID() string {
	return uuid.New().String()
}
