package legislature

import (
	"context"

	"github.com/stake-plus/congressrp/src/config"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

var _ workflow.Authorizer = (*RoleAuthorizer)(nil)

// RoleAuthorizer answers approver and membership questions from guild roles.
type RoleAuthorizer struct {
	members  shareddiscord.MemberFetcher
	guildID  string
	chambers config.Chambers
}

// NewRoleAuthorizer creates an authorizer for guildID.
func NewRoleAuthorizer(members shareddiscord.MemberFetcher, guildID string, chambers config.Chambers) *RoleAuthorizer {
	return &RoleAuthorizer{members: members, guildID: guildID, chambers: chambers}
}

// IsApprover reports whether userID holds the chamber's presiding role.
func (a *RoleAuthorizer) IsApprover(ctx context.Context, chamber congress.Chamber, userID string) bool {
	return a.hasRole(a.chambers.ApproverRole(chamber), userID)
}

// IsMember reports whether userID holds the chamber's member role.
func (a *RoleAuthorizer) IsMember(ctx context.Context, chamber congress.Chamber, userID string) bool {
	return a.hasRole(a.chambers.MemberRole(chamber), userID)
}

func (a *RoleAuthorizer) hasRole(roleID, userID string) bool {
	// An unconfigured role must deny, not allow.
	if roleID == "" || userID == "" {
		return false
	}
	return shareddiscord.HasRole(a.members, a.guildID, userID, roleID)
}
