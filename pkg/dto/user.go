package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	AvatarURL          *string   `json:"avatar_url,omitempty"`
	Provider           string    `json:"provider"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}

// EntitlementsResponse summarizes what the user's tier allows. Limits are
// pointers: nil means unlimited.
type EntitlementsResponse struct {
	Tier            string   `json:"tier"`
	MaxWorkspaces   *int     `json:"max_workspaces,omitempty"`
	MaxTeamMembers  *int     `json:"max_team_members,omitempty"`
	Features        []string `json:"features"`
	WorkspaceAddons int      `json:"workspace_addons"`
	OwnedWorkspaces int      `json:"owned_workspaces"`
	CanAddWorkspace bool     `json:"can_add_workspace"`
}
