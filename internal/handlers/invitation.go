package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/config"
	"github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/services"
	"github.com/maja/schedly-api/pkg/dto"
)

type InvitationHandler struct {
	cfg               *config.Config
	invitationService InvitationServiceInterface
	memberService     MemberServiceInterface
	workspaceService  WorkspaceServiceInterface
	userService       UserServiceInterface
	emailService      EmailServiceInterface
	membership        MembershipResolverInterface
}

func NewInvitationHandler(
	cfg *config.Config,
	invitationService InvitationServiceInterface,
	memberService MemberServiceInterface,
	workspaceService WorkspaceServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	membership MembershipResolverInterface,
) *InvitationHandler {
	return &InvitationHandler{
		cfg:               cfg,
		invitationService: invitationService,
		memberService:     memberService,
		workspaceService:  workspaceService,
		userService:       userService,
		emailService:      emailService,
		membership:        membership,
	}
}

func invitationResponse(inv *models.WorkspaceInvitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:          inv.ID,
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Role:        inv.Role,
		Status:      inv.Status,
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}
}

// Create issues an invitation. The seat ceiling counts current members plus
// pending invitations plus the prospective member against the owner's tier.
func (h *InvitationHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	ctx := context.Background()

	res := h.membership.VerifyWorkspaceMembership(ctx, userID, workspaceID)
	if !res.Success {
		resultJSON(c, res)
		return
	}
	if perm := authz.CheckPermission(res.Member, authz.PermManageTeam); !perm.Success {
		resultJSON(c, perm)
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		c.NotFound("workspace not found")
		return
	}

	// Seats are charged to the workspace owner's subscription.
	owner, err := h.userService.GetByID(ctx, workspace.OwnerID)
	if err != nil {
		c.InternalServerError("failed to resolve workspace owner")
		return
	}

	memberCount, err := h.memberService.CountMembers(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to count members")
		return
	}
	pendingCount, err := h.invitationService.CountPending(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to count invitations")
		return
	}

	if !authz.CanInviteTeamMember(owner.SubscriptionTier, memberCount+pendingCount+1) {
		denyJSON(c, authz.CodePaymentRequired, "team member limit reached for this workspace's plan")
		return
	}

	inv, err := h.invitationService.Create(ctx, workspaceID, req.Email, req.Role, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyMember):
			denyJSON(c, authz.CodeBadRequest, "user is already a member")
		case errors.Is(err, services.ErrInviteExists):
			denyJSON(c, authz.CodeBadRequest, "a pending invitation already exists for this email")
		default:
			c.InternalServerError("failed to create invitation")
		}
		return
	}

	inviter, err := h.userService.GetByID(ctx, userID)
	if err == nil {
		inviteURL := fmt.Sprintf("%s/invitations/%s", h.cfg.AppURL, inv.ID)
		if err := h.emailService.SendWorkspaceInvite(inv.Email, workspace.Name, inviter.Name, inviteURL); err != nil {
			log.Printf("failed to send invitation email: %v", err)
		}
	}

	_ = c.JSON(201, invitationResponse(inv))
}

func (h *InvitationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	ctx := context.Background()

	res := h.membership.VerifyWorkspaceMembership(ctx, userID, workspaceID)
	if !res.Success {
		resultJSON(c, res)
		return
	}

	invitations, err := h.invitationService.GetPendingForWorkspace(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

// Get is invitee-facing: it looks up an invitation by id so the invited
// email can see what they were invited to before accepting.
func (h *InvitationHandler) Get(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	inv, err := h.invitationService.GetByID(context.Background(), invitationID)
	if err != nil {
		c.NotFound("invitation not found")
		return
	}

	_ = c.JSON(200, invitationResponse(inv))
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	email := middleware.GetUserEmail(c)

	err = h.invitationService.Accept(context.Background(), invitationID, userID, email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			c.NotFound("invitation not found")
		case errors.Is(err, services.ErrInvitationExpired):
			denyJSON(c, authz.CodeBadRequest, "invitation has expired")
		case errors.Is(err, services.ErrEmailMismatch):
			denyJSON(c, authz.CodeForbidden, "invitation was issued for a different email")
		default:
			c.InternalServerError("failed to accept invitation")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation accepted"})
}

func (h *InvitationHandler) Decline(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	err = h.invitationService.Decline(context.Background(), invitationID, middleware.GetUserEmail(c))
	if err != nil {
		c.NotFound("invitation not found")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation declined"})
}

func (h *InvitationHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	ctx := context.Background()

	res := h.membership.VerifyWorkspaceMembership(ctx, userID, workspaceID)
	if !res.Success {
		resultJSON(c, res)
		return
	}
	if perm := authz.CheckPermission(res.Member, authz.PermManageTeam); !perm.Success {
		resultJSON(c, perm)
		return
	}

	if err := h.invitationService.Cancel(ctx, invitationID, workspaceID); err != nil {
		c.NotFound("invitation not found")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation cancelled"})
}

func (h *InvitationHandler) Resend(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	ctx := context.Background()

	res := h.membership.VerifyWorkspaceMembership(ctx, userID, workspaceID)
	if !res.Success {
		resultJSON(c, res)
		return
	}
	if perm := authz.CheckPermission(res.Member, authz.PermManageTeam); !perm.Success {
		resultJSON(c, perm)
		return
	}

	inv, err := h.invitationService.Resend(ctx, invitationID, workspaceID)
	if err != nil {
		c.NotFound("invitation not found")
		return
	}

	workspace, wsErr := h.workspaceService.GetByID(ctx, workspaceID)
	inviter, userErr := h.userService.GetByID(ctx, userID)
	if wsErr == nil && userErr == nil {
		inviteURL := fmt.Sprintf("%s/invitations/%s", h.cfg.AppURL, inv.ID)
		if err := h.emailService.SendWorkspaceInvite(inv.Email, workspace.Name, inviter.Name, inviteURL); err != nil {
			log.Printf("failed to send invitation email: %v", err)
		}
	}

	_ = c.JSON(200, invitationResponse(inv))
}
