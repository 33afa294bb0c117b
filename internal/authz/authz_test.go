package authz

import (
	"testing"

	"github.com/mangrovewatch/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{models.RoleModerator, ActionUpdateReportStatus, true},
		{models.RoleAdmin, ActionUpdateReportStatus, true},
		{models.RoleCommunityMember, ActionUpdateReportStatus, false},
		{models.RoleResearcher, ActionUpdateReportStatus, false},

		{models.RoleModerator, ActionCreateArea, true},
		{models.RoleAdmin, ActionCreateArea, true},
		{models.RoleCommunityMember, ActionCreateArea, false},

		{models.RoleModerator, ActionExportReports, true},
		{models.RoleResearcher, ActionExportReports, false},

		{models.RoleCommunityMember, ActionViewStats, true},
		{models.RoleResearcher, ActionViewStats, true},
		{"", ActionViewStats, false},

		{"superuser", ActionUpdateReportStatus, false},
		{models.RoleAdmin, Action("unknown.action"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Can(tt.role, tt.action), "role=%q action=%q", tt.role, tt.action)
	}
}

func TestModeratorRoles(t *testing.T) {
	roles := ModeratorRoles()
	assert.ElementsMatch(t, []string{models.RoleModerator, models.RoleAdmin}, roles)
}
