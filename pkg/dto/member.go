package dto

import "github.com/google/uuid"

type MemberResponse struct {
	ID                uuid.UUID     `json:"id"`
	WorkspaceID       uuid.UUID     `json:"workspace_id"`
	UserID            uuid.UUID     `json:"user_id"`
	Role              string        `json:"role"`
	CanManageTeam     bool          `json:"can_manage_team"`
	CanManageSettings bool          `json:"can_manage_settings"`
	CanDeletePosts    bool          `json:"can_delete_posts"`
	CanApprovePosts   bool          `json:"can_approve_posts"`
	CanFinalApproval  bool          `json:"can_final_approval"`
	User              *UserResponse `json:"user,omitempty"`
}

// UpdateMemberRequest changes a member's role. Omitted flags fall back to
// the role's defaults; present flags override them.
type UpdateMemberRequest struct {
	Role              string `json:"role"`
	CanManageTeam     *bool  `json:"can_manage_team,omitempty"`
	CanManageSettings *bool  `json:"can_manage_settings,omitempty"`
	CanDeletePosts    *bool  `json:"can_delete_posts,omitempty"`
	CanApprovePosts   *bool  `json:"can_approve_posts,omitempty"`
	CanFinalApproval  *bool  `json:"can_final_approval,omitempty"`
}
