package dto

import "time"

// AccountResponse salida de una cuenta.
type AccountResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	RoleLevel   int        `json:"role_level"`
	Status      string     `json:"status"`
	Department  string     `json:"department"`
	Position    string     `json:"position"`
	Phone       string     `json:"phone"`
	AvatarURL   string     `json:"avatar_url"`
	RequestID   string     `json:"request_id,omitempty"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AccountListRequest filtros de GET /api/accounts.
type AccountListRequest struct {
	PageRequest
	Role    string `query:"role"`
	Status  string `query:"status"`
	Search  string `query:"search"`
	OrderBy string `query:"order_by"` // created_at | email | last_name
	Desc    bool   `query:"desc"`
}

// AccountListResponse página de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UpdateAccountRequest cambios administrativos sobre una cuenta. Campos nil no se modifican.
type UpdateAccountRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role"`
	Status     *string `json:"status"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
	AvatarURL  *string `json:"avatar_url"`
}

// UpdateProfileRequest edición del propio perfil: solo nombre y datos de contacto.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
	AvatarURL  *string `json:"avatar_url"`
}

// NavSectionResponse sección de navegación visible para el rol.
type NavSectionResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// MeResponse salida de GET /api/me.
type MeResponse struct {
	Account      AccountResponse      `json:"account"`
	Capabilities []string             `json:"capabilities"`
	Navigation   []NavSectionResponse `json:"navigation"`
}

// StartSessionRequest entrada de POST /api/auth/session: ID token emitido por el proveedor de identidad.
type StartSessionRequest struct {
	IDToken string `json:"id_token"`
}

// SessionResponse token de sesión propio + cuenta resuelta.
type SessionResponse struct {
	Token        string          `json:"token"`
	ExpiresIn    int             `json:"expires_in"` // segundos
	Account      AccountResponse `json:"account"`
	Capabilities []string        `json:"capabilities"`
}
