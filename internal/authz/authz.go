package authz

import "github.com/mangrovewatch/backend/internal/models"

// Action names every privileged operation in the system.
type Action string

const (
	ActionUpdateReportStatus Action = "report.update_status"
	ActionCreateArea         Action = "area.create"
	ActionExportReports      Action = "report.export"
	ActionViewStats          Action = "report.stats"
)

// Can is the single authorization policy consulted by every mutating
// operation: (acting role, action) -> allow/deny. Role checks live here
// and nowhere else.
func Can(role string, action Action) bool {
	switch action {
	case ActionUpdateReportStatus, ActionCreateArea, ActionExportReports:
		return role == models.RoleModerator || role == models.RoleAdmin
	case ActionViewStats:
		return role != ""
	}
	return false
}

// ModeratorRoles lists the roles treated as moderators for alert fan-out.
func ModeratorRoles() []string {
	return []string{models.RoleModerator, models.RoleAdmin}
}
