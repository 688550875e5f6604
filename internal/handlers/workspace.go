package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/pkg/dto"
)

type WorkspaceHandler struct {
	workspaceService WorkspaceServiceInterface
	userService      UserServiceInterface
	membership       MembershipResolverInterface
}

func NewWorkspaceHandler(
	workspaceService WorkspaceServiceInterface,
	userService UserServiceInterface,
	membership MembershipResolverInterface,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		userService:      userService,
		membership:       membership,
	}
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	ctx := context.Background()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	owned, err := h.workspaceService.CountOwnedBy(ctx, userID)
	if err != nil {
		c.InternalServerError("failed to count workspaces")
		return
	}

	if !authz.CanCreateWorkspace(user.SubscriptionTier, owned, user.WorkspaceAddons) {
		denyJSON(c, authz.CodePaymentRequired, "workspace limit reached for your plan")
		return
	}

	workspace, err := h.workspaceService.Create(ctx, req.Name, userID)
	if err != nil {
		c.InternalServerError("failed to create workspace")
		return
	}

	_ = c.JSON(201, dto.WorkspaceResponse{
		ID:      workspace.ID,
		Name:    workspace.Name,
		OwnerID: workspace.OwnerID,
		Role:    authz.RoleOwner,
	})
}

func (h *WorkspaceHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	workspaces, roles, err := h.workspaceService.GetUserWorkspaces(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get workspaces")
		return
	}

	response := make([]dto.WorkspaceResponse, len(workspaces))
	for i, w := range workspaces {
		response[i] = dto.WorkspaceResponse{
			ID:      w.ID,
			Name:    w.Name,
			OwnerID: w.OwnerID,
			Role:    roles[i],
		}
	}

	_ = c.JSON(200, response)
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
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

	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		c.NotFound("workspace not found")
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponse{
		ID:      workspace.ID,
		Name:    workspace.Name,
		OwnerID: workspace.OwnerID,
		Role:    authz.NormalizeRole(res.Member.Role),
	})
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
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
	if perm := authz.CheckPermission(res.Member, authz.PermManageSettings); !perm.Success {
		resultJSON(c, perm)
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	workspace, err := h.workspaceService.Update(ctx, workspaceID, req.Name)
	if err != nil {
		c.InternalServerError("failed to update workspace")
		return
	}

	_ = c.JSON(200, dto.WorkspaceResponse{
		ID:      workspace.ID,
		Name:    workspace.Name,
		OwnerID: workspace.OwnerID,
		Role:    authz.NormalizeRole(res.Member.Role),
	})
}

func (h *WorkspaceHandler) Delete(c *drift.Context) {
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
	if perm := authz.CheckPermission(res.Member, authz.PermDeleteWorkspace); !perm.Success {
		resultJSON(c, perm)
		return
	}

	if err := h.workspaceService.Delete(ctx, workspaceID); err != nil {
		c.InternalServerError("failed to delete workspace")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "workspace deleted"})
}
