// File: internal/session/guard_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skills_portfolio_backend/internal/common"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name string
		view View
		role string
		want bool
	}{
		{"admin can access admin view", ViewAdmin, common.RoleAdmin, true},
		{"resource cannot access admin view", ViewAdmin, common.RoleResource, false},
		{"resource can access skills", ViewSkills, common.RoleResource, true},
		{"admin can access skills", ViewSkills, common.RoleAdmin, true},
		{"resource can access dashboard", ViewDashboard, common.RoleResource, true},
		{"resource can access profile", ViewProfile, common.RoleResource, true},
		{"empty role denied everywhere", ViewSkills, "", false},
		{"unknown role denied", ViewAdmin, "superuser", false},
		{"unknown view denied", View("billing"), common.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.view, tt.role))
		})
	}
}
