package dto

import "time"

// CreateStrategicApprovalRequest entrada de POST /api/strategic-approvals.
type CreateStrategicApprovalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"` // low | medium | high | critical; vacío = medium
}

// StrategicApprovalResponse salida de una aprobación estratégica.
type StrategicApprovalResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	RequestedBy string     `json:"requested_by"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StrategicApprovalListRequest filtros de GET /api/strategic-approvals.
type StrategicApprovalListRequest struct {
	PageRequest
	Status   string `query:"status"`
	Category string `query:"category"`
	Priority string `query:"priority"`
	Search   string `query:"search"`
	Mine     bool   `query:"mine"` // solo las creadas por el actor
}

// StrategicApprovalListResponse página de aprobaciones.
type StrategicApprovalListResponse struct {
	Items []StrategicApprovalResponse `json:"items"`
	Page  PageResponse                `json:"page"`
}

// ReviewStrategicApprovalRequest entrada de POST /api/strategic-approvals/:id/review.
type ReviewStrategicApprovalRequest struct {
	Decision string `json:"decision"` // approved | rejected
	Notes    string `json:"notes"`
}

// MarkUnderReviewRequest entrada de POST /api/strategic-approvals/:id/under-review.
type MarkUnderReviewRequest struct {
	Notes string `json:"notes"`
}
