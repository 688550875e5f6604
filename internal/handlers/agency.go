package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/services"
	"github.com/maja/schedly-api/pkg/dto"
)

type AgencyHandler struct {
	agencyService AgencyServiceInterface
	// Concrete services passed through to Provision, never called directly.
	memberService     *services.MemberService
	invitationService *services.InvitationService
	agencyResolver    AgencyResolverInterface
}

func NewAgencyHandler(
	agencyService AgencyServiceInterface,
	memberService *services.MemberService,
	invitationService *services.InvitationService,
	agencyResolver AgencyResolverInterface,
) *AgencyHandler {
	return &AgencyHandler{
		agencyService:     agencyService,
		memberService:     memberService,
		invitationService: invitationService,
		agencyResolver:    agencyResolver,
	}
}

// requireAccess gates every agency route. On success the returned access
// carries the resolved agency owner id that all reads and writes key on.
func (h *AgencyHandler) requireAccess(c *drift.Context) (authz.AgencyAccess, uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return authz.AgencyAccess{}, uuid.Nil, false
	}

	access := h.agencyResolver.GetAgencyAccess(context.Background(), userID)
	if !access.HasAccess {
		denyJSON(c, authz.CodeForbidden, "agency access required")
		return authz.AgencyAccess{}, uuid.Nil, false
	}

	return access, userID, true
}

func (h *AgencyHandler) GetAccess(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	_ = c.JSON(200, dto.AgencyAccessResponse{
		IsOwner:       access.IsOwner,
		IsManager:     access.IsManager,
		AgencyOwnerID: access.AgencyOwnerID,
	})
}

func (h *AgencyHandler) ListRoster(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	roster, err := h.agencyService.GetRoster(context.Background(), access.AgencyOwnerID)
	if err != nil {
		c.InternalServerError("failed to get roster")
		return
	}

	if roster == nil {
		roster = []models.RosterEntry{}
	}
	_ = c.JSON(200, roster)
}

func (h *AgencyHandler) AddRosterEntry(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	var req dto.AddRosterEntryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	entry, err := h.agencyService.AddRosterEntry(context.Background(), access.AgencyOwnerID, req.Email, req.DefaultRole)
	if err != nil {
		if errors.Is(err, services.ErrRosterEntryExists) {
			denyJSON(c, authz.CodeBadRequest, "roster entry for this email already exists")
			return
		}
		c.InternalServerError("failed to add roster entry")
		return
	}

	_ = c.JSON(201, entry)
}

func (h *AgencyHandler) UpdateRosterEntry(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.BadRequest("invalid entry id")
		return
	}

	var req dto.UpdateRosterEntryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	entry, err := h.agencyService.UpdateRosterEntry(context.Background(), access.AgencyOwnerID, entryID, req.DefaultRole, req.Status)
	if err != nil {
		c.NotFound("roster entry not found")
		return
	}

	_ = c.JSON(200, entry)
}

func (h *AgencyHandler) RemoveRosterEntry(c *drift.Context) {
	access, userID, ok := h.requireAccess(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.BadRequest("invalid entry id")
		return
	}

	err = h.agencyService.RemoveRosterEntry(context.Background(), access.AgencyOwnerID, entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRosterEntryNotFound):
			c.NotFound("roster entry not found")
		case errors.Is(err, services.ErrSelfRemoval):
			denyJSON(c, authz.CodeForbidden, "cannot remove your own roster entry")
		default:
			c.InternalServerError("failed to remove roster entry")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "roster entry removed"})
}

func (h *AgencyHandler) Provision(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.BadRequest("invalid entry id")
		return
	}

	var req dto.ProvisionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if len(req.WorkspaceIDs) == 0 {
		c.BadRequest("workspace_ids is required")
		return
	}

	results, err := h.agencyService.Provision(context.Background(), access.AgencyOwnerID, entryID,
		req.WorkspaceIDs, h.memberService, h.invitationService)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRosterEntryNotFound):
			c.NotFound("roster entry not found")
		case errors.Is(err, services.ErrWorkspaceNotOwned):
			denyJSON(c, authz.CodeForbidden, "workspace does not belong to this agency")
		default:
			c.InternalServerError("failed to provision roster entry")
		}
		return
	}

	_ = c.JSON(200, results)
}

// SetDelegation grants or revokes manager rights. Principal-only: a manager
// cannot mint other managers.
func (h *AgencyHandler) SetDelegation(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	if !access.IsOwner {
		denyJSON(c, authz.CodeForbidden, "only the agency owner can manage delegations")
		return
	}

	var req dto.SetDelegationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.MemberUserID == uuid.Nil {
		c.BadRequest("member_user_id is required")
		return
	}

	delegation, err := h.agencyService.SetDelegation(context.Background(), access.AgencyOwnerID, req.MemberUserID, req.CanManageAgency)
	if err != nil {
		c.InternalServerError("failed to set delegation")
		return
	}

	_ = c.JSON(200, delegation)
}

func (h *AgencyHandler) ListDelegations(c *drift.Context) {
	access, _, ok := h.requireAccess(c)
	if !ok {
		return
	}

	if !access.IsOwner {
		denyJSON(c, authz.CodeForbidden, "only the agency owner can list delegations")
		return
	}

	delegations, err := h.agencyService.GetDelegations(context.Background(), access.AgencyOwnerID)
	if err != nil {
		c.InternalServerError("failed to get delegations")
		return
	}

	if delegations == nil {
		delegations = []models.AgencyMember{}
	}
	_ = c.JSON(200, delegations)
}
