package entity

// Role rol de una cuenta. Conjunto cerrado.
type Role string

// Roles válidos para Account.
const (
	RoleAdmin       Role = "admin"
	RoleExecutive   Role = "executive"
	RoleTeamLead    Role = "team_lead"
	RoleCoordinator Role = "coordinator"
	RoleMember      Role = "member"
)

// roleLevels valores de jerarquía. Solo informativos: los permisos NO se derivan de este orden.
var roleLevels = map[Role]int{
	RoleAdmin:       5,
	RoleExecutive:   4,
	RoleTeamLead:    3,
	RoleCoordinator: 2,
	RoleMember:      1,
}

// AllRoles devuelve los roles en orden jerárquico descendente.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleExecutive, RoleTeamLead, RoleCoordinator, RoleMember}
}

// IsValid informa si el rol pertenece al conjunto cerrado.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level devuelve el valor de jerarquía (0 si el rol es desconocido).
func (r Role) Level() int {
	return roleLevels[r]
}

// ParseRole convierte un string al rol correspondiente.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// Status estado de una cuenta.
type Status string

// Estados válidos para Account.
const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusInactive  Status = "inactive"
)

// IsValid informa si el estado pertenece al conjunto cerrado.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusInactive:
		return true
	}
	return false
}

// ParseStatus convierte un string al estado correspondiente.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.IsValid()
}
