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

type PostHandler struct {
	postService      PostServiceInterface
	workspaceService WorkspaceServiceInterface
	userService      UserServiceInterface
	membership       MembershipResolverInterface
}

func NewPostHandler(
	postService PostServiceInterface,
	workspaceService WorkspaceServiceInterface,
	userService UserServiceInterface,
	membership MembershipResolverInterface,
) *PostHandler {
	return &PostHandler{
		postService:      postService,
		workspaceService: workspaceService,
		userService:      userService,
		membership:       membership,
	}
}

func (h *PostHandler) resolveMember(c *drift.Context, workspaceID uuid.UUID) *models.WorkspaceMember {
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

	return res.Member
}

// ownerTier resolves the workspace owner's subscription tier, which gates
// posting features for everyone in the workspace.
func (h *PostHandler) ownerTier(ctx context.Context, workspaceID uuid.UUID) (string, error) {
	workspace, err := h.workspaceService.GetByID(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	owner, err := h.userService.GetByID(ctx, workspace.OwnerID)
	if err != nil {
		return "", err
	}
	return owner.SubscriptionTier, nil
}

func (h *PostHandler) Create(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	if !authz.CanPerformPostAction(member.Role, authz.PostActionCreate, true) {
		denyJSON(c, authz.CodeInsufficientPermissions, "")
		return
	}

	ctx := context.Background()

	tier, err := h.ownerTier(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to resolve workspace plan")
		return
	}
	if !authz.HasFeature(tier, authz.FeatureCanPost) {
		denyJSON(c, authz.CodePaymentRequired, "posting is not available on this workspace's plan")
		return
	}

	var req dto.CreatePostRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Content == "" {
		c.BadRequest("content is required")
		return
	}

	post, err := h.postService.Create(ctx, workspaceID, member.UserID, req.Content, req.ScheduledAt)
	if err != nil {
		c.InternalServerError("failed to create post")
		return
	}

	_ = c.JSON(201, post)
}

func (h *PostHandler) List(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	if h.resolveMember(c, workspaceID) == nil {
		return
	}

	posts, err := h.postService.GetWorkspacePosts(context.Background(), workspaceID)
	if err != nil {
		c.InternalServerError("failed to get posts")
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	_ = c.JSON(200, posts)
}

func (h *PostHandler) Update(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		c.BadRequest("invalid post id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	ctx := context.Background()

	post, err := h.postService.GetByID(ctx, workspaceID, postID)
	if err != nil {
		c.NotFound("post not found")
		return
	}

	if !authz.CanPerformPostAction(member.Role, authz.PostActionEdit, post.AuthorID == member.UserID) {
		denyJSON(c, authz.CodeInsufficientPermissions, "")
		return
	}

	var req dto.UpdatePostRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	updated, err := h.postService.Update(ctx, workspaceID, postID, req.Content, req.ScheduledAt)
	if err != nil {
		c.InternalServerError("failed to update post")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *PostHandler) Delete(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		c.BadRequest("invalid post id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	ctx := context.Background()

	post, err := h.postService.GetByID(ctx, workspaceID, postID)
	if err != nil {
		c.NotFound("post not found")
		return
	}

	// The stored delete override widens what the role alone allows.
	own := post.AuthorID == member.UserID
	if !authz.CanPerformPostAction(member.Role, authz.PostActionDelete, own) && !member.CanDeletePosts {
		denyJSON(c, authz.CodeInsufficientPermissions, "")
		return
	}

	if err := h.postService.Delete(ctx, workspaceID, postID); err != nil {
		c.InternalServerError("failed to delete post")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "post deleted"})
}

func (h *PostHandler) SubmitForApproval(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		c.BadRequest("invalid post id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	ctx := context.Background()

	tier, err := h.ownerTier(ctx, workspaceID)
	if err != nil {
		c.InternalServerError("failed to resolve workspace plan")
		return
	}
	if !authz.HasFeature(tier, authz.FeatureApprovalWorkflows) {
		denyJSON(c, authz.CodePaymentRequired, "approval workflows are not available on this workspace's plan")
		return
	}

	post, err := h.postService.SubmitForApproval(ctx, workspaceID, postID)
	if err != nil {
		c.NotFound("post not found or not a draft")
		return
	}

	_ = c.JSON(200, post)
}

func (h *PostHandler) Approve(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		c.BadRequest("invalid post id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	// Owner always approves; others need the stored override flag.
	if perm := authz.CheckPermission(member, authz.PermApprovePosts); !perm.Success {
		resultJSON(c, perm)
		return
	}

	post, err := h.postService.Approve(context.Background(), workspaceID, postID)
	if err != nil {
		c.NotFound("post not found or not pending approval")
		return
	}

	_ = c.JSON(200, post)
}

func (h *PostHandler) Schedule(c *drift.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspaceId"))
	if err != nil {
		c.BadRequest("invalid workspace id")
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		c.BadRequest("invalid post id")
		return
	}

	member := h.resolveMember(c, workspaceID)
	if member == nil {
		return
	}

	if !authz.CanPerformPostAction(member.Role, authz.PostActionCreate, true) {
		denyJSON(c, authz.CodeInsufficientPermissions, "")
		return
	}

	var req dto.SchedulePostRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	post, err := h.postService.Schedule(context.Background(), workspaceID, postID, req.ScheduledAt)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.NotFound("post not found or not approved")
			return
		}
		c.InternalServerError("failed to schedule post")
		return
	}

	_ = c.JSON(200, post)
}
