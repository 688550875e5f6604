package models

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceMember ties one user to one workspace. The can_* columns are
// explicit overrides persisted independently of the role: they are seeded
// from the role's defaults when the role is assigned and may diverge by
// explicit toggle afterwards.
type WorkspaceMember struct {
	ID               uuid.UUID `json:"id"`
	WorkspaceID      uuid.UUID `json:"workspace_id"`
	UserID           uuid.UUID `json:"user_id"`
	Role             string    `json:"role"`
	CanManageTeam    bool      `json:"can_manage_team"`
	CanManageSettings bool     `json:"can_manage_settings"`
	CanDeletePosts   bool      `json:"can_delete_posts"`
	CanApprovePosts  bool      `json:"can_approve_posts"`
	CanFinalApproval bool      `json:"can_final_approval"`
	CreatedAt        time.Time `json:"created_at"`
	User             *User     `json:"user,omitempty"`
}
