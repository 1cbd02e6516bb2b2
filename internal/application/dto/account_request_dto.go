package dto

import "time"

// SubmitAccountRequestRequest entrada anónima de POST /api/account-requests.
type SubmitAccountRequestRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	Reason     string `json:"reason"`
}

// AccountRequestResponse salida de una solicitud de cuenta.
type AccountRequestResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	Phone      string     `json:"phone"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AccountRequestListRequest filtros de GET /api/account-requests.
type AccountRequestListRequest struct {
	PageRequest
	Status string `query:"status"`
	Search string `query:"search"`
}

// AccountRequestListResponse página de solicitudes.
type AccountRequestListResponse struct {
	Items []AccountRequestResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// ApproveAccountRequestRequest entrada de POST /api/account-requests/:id/approve.
// Role vacío asigna member.
type ApproveAccountRequestRequest struct {
	Role  string `json:"role"`
	Notes string `json:"notes"`
}

// RejectAccountRequestRequest entrada de POST /api/account-requests/:id/reject.
type RejectAccountRequestRequest struct {
	Notes string `json:"notes"`
}

// ApprovalResultResponse resultado de aprobar: solicitud cerrada y cuenta creada.
type ApprovalResultResponse struct {
	Request AccountRequestResponse `json:"request"`
	Account AccountResponse        `json:"account"`
}
