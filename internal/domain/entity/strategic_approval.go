package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ApprovalStatus estado de una aprobación estratégica.
type ApprovalStatus string

// Estados de StrategicApproval. under_review es intermedio; approved y rejected son terminales.
const (
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalUnderReview ApprovalStatus = "under_review"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
)

// IsValid informa si el estado pertenece al conjunto cerrado.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalUnderReview, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// IsTerminal informa si el estado ya no admite transiciones.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// Priority prioridad de una aprobación estratégica.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid informa si la prioridad pertenece al conjunto cerrado.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// RecommendedCategories categorías sugeridas en la UI. No se imponen.
var RecommendedCategories = []string{
	"Financial", "Strategic", "Operational", "Technology", "Human Resources", "Marketing", "Legal",
}

// StrategicApproval solicitud de decisión de negocio revisada por ejecutivos.
type StrategicApproval struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    Priority
	Status      ApprovalStatus
	RequestedBy string
	ReviewedBy  string
	ReviewedAt  *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate exige título, descripción y categoría; prioridad y estado de conjuntos cerrados.
func (a *StrategicApproval) Validate() error {
	return toValidationError(validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&a.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.Priority, validation.Required, validation.In(PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical)),
		validation.Field(&a.Status, validation.Required, validation.In(ApprovalPending, ApprovalUnderReview, ApprovalApproved, ApprovalRejected)),
		validation.Field(&a.RequestedBy, validation.Required),
	))
}
