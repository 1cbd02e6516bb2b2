package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
)

// Tabla literal esperada; se escribe aparte para que un cambio accidental en DefaultTable falle aquí.
var expected = map[entity.Role][]string{
	entity.RoleAdmin:       {"manage_users", "manage_roles", "approve_accounts", "view_all_data", "manage_system", "view_audit_logs", "strategic_decisions"},
	entity.RoleExecutive:   {"view_all_data", "custom_reporting", "broadcast_announcements", "strategic_decisions", "approve_strategic"},
	entity.RoleTeamLead:    {"manage_team", "approve_leaves", "track_attendance", "view_team_data"},
	entity.RoleCoordinator: {"assist_team_lead", "update_task_status", "view_team_data"},
	entity.RoleMember:      {"view_tasks", "submit_leaves", "track_attendance", "send_messages"},
}

func allTokens() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, caps := range expected {
		for _, c := range caps {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return append(out, "delete_everything", "", "MANAGE_USERS", "manage_users ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestHasPermission_CoincideConTablaLiteral(t *testing.T) {
	p := policy.New(policy.DefaultTable())
	for _, role := range entity.AllRoles() {
		for _, token := range allTokens() {
			want := contains(expected[role], token)
			assert.Equal(t, want, p.HasPermission(role, token), "role=%s token=%q", role, token)
		}
	}
}

func TestHasPermission_RolDesconocidoFallaCerrado(t *testing.T) {
	p := policy.New(policy.DefaultTable())
	for _, token := range allTokens() {
		assert.False(t, p.HasPermission("superuser", token))
		assert.False(t, p.HasPermission("", token))
	}
}

func TestHasPermission_SinDerivarJerarquia(t *testing.T) {
	p := policy.New(policy.DefaultTable())
	require.Greater(t, entity.RoleExecutive.Level(), entity.RoleTeamLead.Level())
	assert.False(t, p.HasPermission(entity.RoleExecutive, policy.CapManageUsers))
	assert.False(t, p.HasPermission(entity.RoleExecutive, policy.CapManageTeam),
		"un nivel mayor no implica las capacidades de un nivel menor")
	assert.False(t, p.HasPermission(entity.RoleAdmin, policy.CapApproveStrategic))
}

func TestNew_TablaSustituibleEInmutable(t *testing.T) {
	table := policy.Table{entity.RoleMember: {"only_this"}}
	p := policy.New(table)
	table[entity.RoleMember][0] = "changed"
	table[entity.RoleAdmin] = []string{"manage_users"}

	assert.True(t, p.HasPermission(entity.RoleMember, "only_this"))
	assert.False(t, p.HasPermission(entity.RoleMember, "changed"))
	assert.False(t, p.HasPermission(entity.RoleAdmin, "manage_users"))
}

func TestHasAnyRole(t *testing.T) {
	assert.True(t, policy.HasAnyRole(entity.RoleCoordinator, entity.RoleTeamLead, entity.RoleCoordinator))
	assert.False(t, policy.HasAnyRole(entity.RoleMember, entity.RoleAdmin, entity.RoleExecutive))
	assert.False(t, policy.HasAnyRole(entity.RoleAdmin))
}

func TestCapabilities_Ordenadas(t *testing.T) {
	p := policy.New(policy.DefaultTable())
	assert.Equal(t, []string{"assist_team_lead", "update_task_status", "view_team_data"},
		p.Capabilities(entity.RoleCoordinator))
	assert.Empty(t, p.Capabilities("ghost"))
}

func TestNavigation_PorCapacidades(t *testing.T) {
	p := policy.New(policy.DefaultTable())

	keys := func(role entity.Role) []string {
		var out []string
		for _, s := range p.Navigation(role) {
			out = append(out, s.Key)
		}
		return out
	}

	admin := keys(entity.RoleAdmin)
	assert.Contains(t, admin, "admin.approvals")
	assert.Contains(t, admin, "strategic.approvals")
	assert.NotContains(t, admin, "member.tasks")

	member := keys(entity.RoleMember)
	assert.Equal(t, []string{"member.tasks", "member.leaves", "member.messages", "profile"}, member)
}
