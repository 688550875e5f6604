package dto

import "github.com/google/uuid"

type AddRosterEntryRequest struct {
	Email       string `json:"email"`
	DefaultRole string `json:"default_role"`
}

type UpdateRosterEntryRequest struct {
	DefaultRole string `json:"default_role"`
	Status      string `json:"status"`
}

type ProvisionRequest struct {
	WorkspaceIDs []uuid.UUID `json:"workspace_ids"`
}

type SetDelegationRequest struct {
	MemberUserID    uuid.UUID `json:"member_user_id"`
	CanManageAgency bool      `json:"can_manage_agency"`
}

// AgencyAccessResponse reports how the caller got into the agency surface.
type AgencyAccessResponse struct {
	IsOwner       bool      `json:"is_owner"`
	IsManager     bool      `json:"is_manager"`
	AgencyOwnerID uuid.UUID `json:"agency_owner_id"`
}
