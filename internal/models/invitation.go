package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// InvitationTTL is how long an invitation stays acceptable. Resending an
// invitation restarts the clock.
const InvitationTTL = 7 * 24 * time.Hour

type WorkspaceInvitation struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	InviterID   uuid.UUID  `json:"inviter_id"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Workspace   *Workspace `json:"workspace,omitempty"`
	Inviter     *User      `json:"inviter,omitempty"`
}

func (i *WorkspaceInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
