package entity

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Account representa a una persona con acceso al sistema. Una cuenta por email.
type Account struct {
	ID          string
	Email       string // clave de identidad externa, comparación exacta
	FirstName   string
	LastName    string
	Role        Role
	Status      Status
	Department  string
	Position    string
	Phone       string
	AvatarURL   string
	RequestID   string // solicitud que originó la cuenta (vacío para cuentas sin aprobación)
	ApprovedBy  string
	ApprovedAt  *time.Time
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// ExternalID identificador opaco del proveedor de identidad. No se persiste.
	ExternalID string
}

var errActiveWithoutRole = errors.New("una cuenta activa requiere rol")

// Validate verifica los invariantes: rol y estado de conjuntos cerrados; activa implica rol.
func (a *Account) Validate() error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.Email, validation.Required, is.Email),
		validation.Field(&a.Role, validation.In(roleValues()...)),
		validation.Field(&a.Status, validation.Required, validation.In(StatusPending, StatusActive, StatusSuspended, StatusInactive)),
		validation.Field(&a.FirstName, validation.Length(0, 100)),
		validation.Field(&a.LastName, validation.Length(0, 100)),
	)
	if err == nil && a.Status == StatusActive && a.Role == "" {
		err = validation.Errors{"Role": errActiveWithoutRole}
	}
	return toValidationError(err)
}

// FullName nombre para mostrar.
func (a *Account) FullName() string {
	if a.FirstName == "" && a.LastName == "" {
		return a.Email
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

func roleValues() []interface{} {
	roles := AllRoles()
	out := make([]interface{}, 0, len(roles))
	for _, r := range roles {
		out = append(out, r)
	}
	return out
}
