// Package policy resuelve consultas de capacidades contra la tabla estática rol → capacidades.
//
// La tabla se construye una sola vez al arrancar y se inyecta; no hay herencia entre roles
// ni se deriva nada de la jerarquía numérica.
package policy

import (
	"sort"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
)

// Tokens de capacidad.
const (
	CapManageUsers            = "manage_users"
	CapManageRoles            = "manage_roles"
	CapApproveAccounts        = "approve_accounts"
	CapViewAllData            = "view_all_data"
	CapManageSystem           = "manage_system"
	CapViewAuditLogs          = "view_audit_logs"
	CapStrategicDecisions     = "strategic_decisions"
	CapCustomReporting        = "custom_reporting"
	CapBroadcastAnnouncements = "broadcast_announcements"
	CapApproveStrategic       = "approve_strategic"
	CapManageTeam             = "manage_team"
	CapApproveLeaves          = "approve_leaves"
	CapTrackAttendance        = "track_attendance"
	CapViewTeamData           = "view_team_data"
	CapAssistTeamLead         = "assist_team_lead"
	CapUpdateTaskStatus       = "update_task_status"
	CapViewTasks              = "view_tasks"
	CapSubmitLeaves           = "submit_leaves"
	CapSendMessages           = "send_messages"
)

// Table asociación rol → capacidades.
type Table map[entity.Role][]string

// DefaultTable devuelve la tabla de permisos de referencia. Cada llamada crea una copia nueva.
func DefaultTable() Table {
	return Table{
		entity.RoleAdmin: {
			CapManageUsers, CapManageRoles, CapApproveAccounts, CapViewAllData,
			CapManageSystem, CapViewAuditLogs, CapStrategicDecisions,
		},
		entity.RoleExecutive: {
			CapViewAllData, CapCustomReporting, CapBroadcastAnnouncements,
			CapStrategicDecisions, CapApproveStrategic,
		},
		entity.RoleTeamLead: {
			CapManageTeam, CapApproveLeaves, CapTrackAttendance, CapViewTeamData,
		},
		entity.RoleCoordinator: {
			CapAssistTeamLead, CapUpdateTaskStatus, CapViewTeamData,
		},
		entity.RoleMember: {
			CapViewTasks, CapSubmitLeaves, CapTrackAttendance, CapSendMessages,
		},
	}
}

// Policy consulta inmutable sobre una Table.
type Policy struct {
	perms map[entity.Role]map[string]struct{}
}

// New copia la tabla a conjuntos internos; modificar table después no afecta a la Policy.
func New(table Table) *Policy {
	perms := make(map[entity.Role]map[string]struct{}, len(table))
	for role, caps := range table {
		set := make(map[string]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		perms[role] = set
	}
	return &Policy{perms: perms}
}

// HasPermission true si capability pertenece al conjunto del rol. Rol o capacidad desconocidos → false.
func (p *Policy) HasPermission(role entity.Role, capability string) bool {
	if p == nil {
		return false
	}
	set, ok := p.perms[role]
	if !ok {
		return false
	}
	_, ok = set[capability]
	return ok
}

// HasAnyPermission true si el rol tiene al menos una de las capacidades.
func (p *Policy) HasAnyPermission(role entity.Role, capabilities ...string) bool {
	for _, c := range capabilities {
		if p.HasPermission(role, c) {
			return true
		}
	}
	return false
}

// HasAnyRole true si role ∈ allowed.
func HasAnyRole(role entity.Role, allowed ...entity.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Capabilities devuelve las capacidades del rol ordenadas (copia).
func (p *Policy) Capabilities(role entity.Role) []string {
	if p == nil {
		return nil
	}
	set := p.perms[role]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Known informa si el token aparece en la tabla para algún rol.
func (p *Policy) Known(capability string) bool {
	if p == nil {
		return false
	}
	for _, set := range p.perms {
		if _, ok := set[capability]; ok {
			return true
		}
	}
	return false
}
