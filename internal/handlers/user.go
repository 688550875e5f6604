package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/pkg/dto"
)

type UserHandler struct {
	userService      UserServiceInterface
	workspaceService WorkspaceServiceInterface
}

func NewUserHandler(userService UserServiceInterface, workspaceService WorkspaceServiceInterface) *UserHandler {
	return &UserHandler{userService: userService, workspaceService: workspaceService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		AvatarURL:          user.AvatarURL,
		Provider:           user.Provider,
		SubscriptionTier:   user.SubscriptionTier,
		SubscriptionStatus: user.SubscriptionStatus,
	})
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	user, err := h.userService.Update(context.Background(), userID, req.Name)
	if err != nil {
		c.InternalServerError("failed to update user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		AvatarURL:          user.AvatarURL,
		Provider:           user.Provider,
		SubscriptionTier:   user.SubscriptionTier,
		SubscriptionStatus: user.SubscriptionStatus,
	})
}

// GetEntitlements reports the caller's tier limits and how much headroom
// they have left.
func (h *UserHandler) GetEntitlements(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := context.Background()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	owned, err := h.workspaceService.CountOwnedBy(ctx, userID)
	if err != nil {
		c.InternalServerError("failed to count workspaces")
		return
	}

	cfg := authz.TierConfigFor(user.SubscriptionTier)

	resp := dto.EntitlementsResponse{
		Tier:            user.SubscriptionTier,
		Features:        []string{},
		WorkspaceAddons: user.WorkspaceAddons,
		OwnedWorkspaces: owned,
		CanAddWorkspace: authz.CanCreateWorkspace(user.SubscriptionTier, owned, user.WorkspaceAddons),
	}
	if !cfg.Workspaces.IsUnlimited() {
		n := cfg.Workspaces.Value() + user.WorkspaceAddons
		resp.MaxWorkspaces = &n
	}
	if !cfg.TeamMembers.IsUnlimited() {
		n := cfg.TeamMembers.Value()
		resp.MaxTeamMembers = &n
	}
	if cfg.CanPost {
		resp.Features = append(resp.Features, authz.FeatureCanPost)
	}
	if cfg.AIFeatures {
		resp.Features = append(resp.Features, authz.FeatureAIFeatures)
	}
	if cfg.ApprovalWorkflows {
		resp.Features = append(resp.Features, authz.FeatureApprovalWorkflows)
	}

	_ = c.JSON(200, resp)
}
