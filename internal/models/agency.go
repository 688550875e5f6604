package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AgencyMemberActive   = "active"
	AgencyMemberInactive = "inactive"

	RosterStatusPending  = "pending"
	RosterStatusActive   = "active"
	RosterStatusInactive = "inactive"
)

// AgencyMember is the delegation row: the agency owner grants a member user
// the right to act on the agency's behalf when can_manage_agency is set.
type AgencyMember struct {
	ID              uuid.UUID `json:"id"`
	AgencyOwnerID   uuid.UUID `json:"agency_owner_id"`
	MemberUserID    uuid.UUID `json:"member_user_id"`
	CanManageAgency bool      `json:"can_manage_agency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Member          *User     `json:"member,omitempty"`
}

// RosterEntry is a prospective or actual team member tracked by an agency
// owner, independent of any workspace membership. MemberUserID stays nil
// until the address registers.
type RosterEntry struct {
	ID            uuid.UUID  `json:"id"`
	AgencyOwnerID uuid.UUID  `json:"agency_owner_id"`
	Email         string     `json:"email"`
	MemberUserID  *uuid.UUID `json:"member_user_id,omitempty"`
	DefaultRole   string     `json:"default_role"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
