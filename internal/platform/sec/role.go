// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level carried in a token.
type UserRole string

const (
	// Platform operators; can act on every campaign.
	RoleSuperAdmin UserRole = "superadmin"

	// Organizers who run campaigns and manage their target lists.
	RoleCampaigner UserRole = "campaigner"

	// Signed-in supporters. Anonymous letter writers carry no token at all.
	RoleSupporter UserRole = "supporter"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleSuperAdmin:
		return 30
	case RoleCampaigner:
		return 20
	case RoleSupporter:
		return 10
	default:
		return 0
	}
}
