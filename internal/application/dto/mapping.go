package dto

import "github.com/jhoicas/Portal-api/internal/domain/entity"

// ── Conversión entidad → respuesta ────────────────────────────────────────────

// FromAccount convierte la entidad a su representación de salida.
func FromAccount(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		Role:        string(a.Role),
		RoleLevel:   a.Role.Level(),
		Status:      string(a.Status),
		Department:  a.Department,
		Position:    a.Position,
		Phone:       a.Phone,
		AvatarURL:   a.AvatarURL,
		RequestID:   a.RequestID,
		ApprovedBy:  a.ApprovedBy,
		ApprovedAt:  a.ApprovedAt,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// FromAccounts convierte una lista; nunca devuelve nil.
func FromAccounts(list []*entity.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromAccount(a))
	}
	return out
}

// FromAccountRequest convierte la solicitud a su representación de salida.
func FromAccountRequest(r *entity.AccountRequest) AccountRequestResponse {
	return AccountRequestResponse{
		ID:         r.ID,
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Department: r.Department,
		Position:   r.Position,
		Phone:      r.Phone,
		Reason:     r.Reason,
		Status:     string(r.Status),
		ReviewedBy: r.ReviewedBy,
		ReviewedAt: r.ReviewedAt,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromAccountRequests convierte una lista; nunca devuelve nil.
func FromAccountRequests(list []*entity.AccountRequest) []AccountRequestResponse {
	out := make([]AccountRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromAccountRequest(r))
	}
	return out
}

// FromStrategicApproval convierte la aprobación a su representación de salida.
func FromStrategicApproval(a *entity.StrategicApproval) StrategicApprovalResponse {
	return StrategicApprovalResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		Priority:    string(a.Priority),
		Status:      string(a.Status),
		RequestedBy: a.RequestedBy,
		ReviewedBy:  a.ReviewedBy,
		ReviewedAt:  a.ReviewedAt,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// FromStrategicApprovals convierte una lista; nunca devuelve nil.
func FromStrategicApprovals(list []*entity.StrategicApproval) []StrategicApprovalResponse {
	out := make([]StrategicApprovalResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromStrategicApproval(a))
	}
	return out
}
