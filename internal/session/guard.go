// File: internal/session/guard.go
package session

import (
	"skills_portfolio_backend/internal/common"
)

// View names a guarded application surface.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewProfile   View = "profile"
	ViewSkills    View = "skills"
	ViewAdmin     View = "admin"
)

// viewRoles maps each view to the roles allowed to access it. A view
// absent from the table is denied to everyone.
var viewRoles = map[View][]string{
	ViewDashboard: {common.RoleAdmin, common.RoleResource},
	ViewProfile:   {common.RoleAdmin, common.RoleResource},
	ViewSkills:    {common.RoleAdmin, common.RoleResource},
	ViewAdmin:     {common.RoleAdmin},
}

// CanAccess reports whether a role may access a view.
func CanAccess(view View, role string) bool {
	allowed, ok := viewRoles[view]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
