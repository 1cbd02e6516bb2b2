package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RequestStatus estado de una solicitud de cuenta.
type RequestStatus string

// Estados de AccountRequest. approved y rejected son terminales.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// IsValid informa si el estado pertenece al conjunto cerrado.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// IsTerminal informa si el estado ya no admite transiciones.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// AccountRequest solicitud de acceso hecha por una persona sin cuenta.
type AccountRequest struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	Department string
	Position   string
	Phone      string
	Reason     string
	Status     RequestStatus
	ReviewedBy string
	ReviewedAt *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate verifica los campos de contacto obligatorios.
func (r *AccountRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(3, 254)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Department, validation.Length(0, 120)),
		validation.Field(&r.Position, validation.Length(0, 120)),
		validation.Field(&r.Reason, validation.Length(0, 2000)),
		validation.Field(&r.Status, validation.Required, validation.In(RequestPending, RequestApproved, RequestRejected)),
	))
}

// NewAccountFromRequest construye la cuenta activa que resulta de aprobar la solicitud.
func NewAccountFromRequest(id string, req *AccountRequest, role Role, approvedBy string, now time.Time) *Account {
	at := now
	return &Account{
		ID:         id,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       role,
		Status:     StatusActive,
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
		RequestID:  req.ID,
		ApprovedBy: approvedBy,
		ApprovedAt: &at,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
