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

type MemberHandler struct {
	memberService MemberServiceInterface
	membership    MembershipResolverInterface
}

func NewMemberHandler(memberService MemberServiceInterface, membership MembershipResolverInterface) *MemberHandler {
	return &MemberHandler{memberService: memberService, membership: membership}
}

func memberResponse(m *models.WorkspaceMember) dto.MemberResponse {
	resp := dto.MemberResponse{
		ID:                m.ID,
		WorkspaceID:       m.WorkspaceID,
		UserID:            m.UserID,
		Role:              authz.NormalizeRole(m.Role),
		CanManageTeam:     m.CanManageTeam,
		CanManageSettings: m.CanManageSettings,
		CanDeletePosts:    m.CanDeletePosts,
		CanApprovePosts:   m.CanApprovePosts,
		CanFinalApproval:  m.CanFinalApproval,
	}
	if m.User != nil {
		resp.User = &dto.UserResponse{
			ID:                 m.User.ID,
			Email:              m.User.Email,
			Name:               m.User.Name,
			AvatarURL:          m.User.AvatarURL,
			Provider:           m.User.Provider,
			SubscriptionTier:   m.User.SubscriptionTier,
			SubscriptionStatus: m.User.SubscriptionStatus,
		}
	}
	return resp
}

// requireMember resolves the caller's membership, optionally gated on a
// permission. Returns nil after writing the error response on denial.
func (h *MemberHandler) requireMember(c *drift.Context, workspaceID uuid.UUID, permission string) *models.WorkspaceMember {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return nil
	}

	res := h.membership.VerifyWorkspaceMembership(context.Background(), userID, workspaceID)
	if !res.Success {
		resultJSON(c, res)
		return nil
	}

	if permission != "" {
		if perm := authz.CheckPermission(res.Member, permission); !perm.Success {
			resultJSON(c, perm)
			return nil
		}
	}

	return res.Member
}

func (h *MemberHandler) List(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	if h.requireMember(c, workspaceID, "") == nil {
		return
	}

	members, err := h.memberService.GetMembers(context.Background(), workspaceID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.MemberResponse, len(members))
	for i := range members {
		response[i] = memberResponse(&members[i])
	}

	_ = c.JSON(200, response)
}

func (h *MemberHandler) Update(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	memberUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if h.requireMember(c, workspaceID, authz.PermManageTeam) == nil {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	member, err := h.memberService.UpdateMember(context.Background(), workspaceID, memberUserID, services.MemberUpdate{
		Role:              req.Role,
		CanManageTeam:     req.CanManageTeam,
		CanManageSettings: req.CanManageSettings,
		CanDeletePosts:    req.CanDeletePosts,
		CanApprovePosts:   req.CanApprovePosts,
		CanFinalApproval:  req.CanFinalApproval,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("member not found")
		case errors.Is(err, services.ErrOwnerImmutable):
			denyJSON(c, authz.CodeForbidden, "owner membership cannot be modified")
		default:
			c.InternalServerError("failed to update member")
		}
		return
	}

	_ = c.JSON(200, memberResponse(member))
}

func (h *MemberHandler) Remove(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	memberUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	caller := h.requireMember(c, workspaceID, "")
	if caller == nil {
		return
	}

	// Anyone may leave; removing someone else requires manage_team.
	if caller.UserID != memberUserID {
		if perm := authz.CheckPermission(caller, authz.PermManageTeam); !perm.Success {
			resultJSON(c, perm)
			return
		}
	}

	err = h.memberService.RemoveMember(context.Background(), workspaceID, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("member not found")
		case errors.Is(err, services.ErrCannotRemoveOwner):
			denyJSON(c, authz.CodeForbidden, "workspace owner cannot be removed")
		default:
			c.InternalServerError("failed to remove member")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}
