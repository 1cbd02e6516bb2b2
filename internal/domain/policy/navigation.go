package policy

import "github.com/jhoicas/Portal-api/internal/domain/entity"

// NavSection sección de navegación visible para un rol.
type NavSection struct {
	Key   string
	Label string
	Href  string
}

// navRules cada sección se muestra si el rol tiene la capacidad indicada ("" = siempre).
var navRules = []struct {
	capability string
	sections   []NavSection
}{
	{CapManageUsers, []NavSection{
		{Key: "admin.users", Label: "User Management", Href: "/admin/users"},
		{Key: "admin.approvals", Label: "Account Approvals", Href: "/admin/approvals"},
		{Key: "admin.settings", Label: "System Settings", Href: "/admin/settings"},
	}},
	{CapViewAllData, []NavSection{
		{Key: "executive.dashboard", Label: "Executive Dashboard", Href: "/executive/dashboard"},
		{Key: "executive.reports", Label: "Custom Reports", Href: "/executive/reports"},
		{Key: "executive.strategic", Label: "Strategic Overview", Href: "/executive/strategic"},
	}},
	{CapStrategicDecisions, []NavSection{
		{Key: "strategic.approvals", Label: "Strategic Approvals", Href: "/strategic/approvals"},
	}},
	{CapManageTeam, []NavSection{
		{Key: "team.manage", Label: "Team Management", Href: "/team/manage"},
		{Key: "team.leaves", Label: "Leave Approvals", Href: "/team/leaves"},
		{Key: "team.tasks", Label: "Task Management", Href: "/team/tasks"},
	}},
	{CapAssistTeamLead, []NavSection{
		{Key: "coordinator.tasks", Label: "Task Updates", Href: "/coordinator/tasks"},
		{Key: "coordinator.support", Label: "Team Support", Href: "/coordinator/support"},
	}},
	{CapViewTasks, []NavSection{
		{Key: "member.tasks", Label: "My Tasks", Href: "/member/tasks"},
		{Key: "member.leaves", Label: "Leave Requests", Href: "/member/leaves"},
		{Key: "member.messages", Label: "Messages", Href: "/member/messages"},
	}},
	{"", []NavSection{
		{Key: "profile", Label: "My Profile", Href: "/profile"},
	}},
}

// Navigation secciones visibles para el rol, en orden de menú.
func (p *Policy) Navigation(role entity.Role) []NavSection {
	var out []NavSection
	for _, rule := range navRules {
		if rule.capability != "" && !p.HasPermission(role, rule.capability) {
			continue
		}
		out = append(out, rule.sections...)
	}
	return out
}
