package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/oauth"
	"github.com/maja/schedly-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Workspace, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, []string, error)
	CountOwnedBy(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, workspaceID uuid.UUID, name string) (*models.Workspace, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) error
}

// MemberServiceInterface defines the methods used by handlers from MemberService
type MemberServiceInterface interface {
	GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	CountMembers(ctx context.Context, workspaceID uuid.UUID) (int, error)
	UpdateMember(ctx context.Context, workspaceID, userID uuid.UUID, update services.MemberUpdate) (*models.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Create(ctx context.Context, workspaceID uuid.UUID, email, role string, inviterID uuid.UUID) (*models.WorkspaceInvitation, error)
	GetByID(ctx context.Context, invitationID uuid.UUID) (*models.WorkspaceInvitation, error)
	GetPendingForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceInvitation, error)
	CountPending(ctx context.Context, workspaceID uuid.UUID) (int, error)
	Accept(ctx context.Context, invitationID, userID uuid.UUID, userEmail string) error
	Decline(ctx context.Context, invitationID uuid.UUID, userEmail string) error
	Cancel(ctx context.Context, invitationID, workspaceID uuid.UUID) error
	Resend(ctx context.Context, invitationID, workspaceID uuid.UUID) (*models.WorkspaceInvitation, error)
}

// AgencyServiceInterface defines the methods used by handlers from AgencyService
type AgencyServiceInterface interface {
	GetRoster(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.RosterEntry, error)
	AddRosterEntry(ctx context.Context, agencyOwnerID uuid.UUID, email, defaultRole string) (*models.RosterEntry, error)
	UpdateRosterEntry(ctx context.Context, agencyOwnerID, entryID uuid.UUID, defaultRole, status string) (*models.RosterEntry, error)
	RemoveRosterEntry(ctx context.Context, agencyOwnerID, entryID, actorID uuid.UUID) error
	LinkRegisteredUser(ctx context.Context, userID uuid.UUID, email string) error
	Provision(ctx context.Context, agencyOwnerID, entryID uuid.UUID, workspaceIDs []uuid.UUID, members *services.MemberService, invitations *services.InvitationService) ([]services.ProvisionResult, error)
	SetDelegation(ctx context.Context, agencyOwnerID, memberUserID uuid.UUID, canManage bool) (*models.AgencyMember, error)
	GetDelegations(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.AgencyMember, error)
}

// PostServiceInterface defines the methods used by handlers from PostService
type PostServiceInterface interface {
	Create(ctx context.Context, workspaceID, authorID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error)
	GetByID(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error)
	GetWorkspacePosts(ctx context.Context, workspaceID uuid.UUID) ([]models.Post, error)
	Update(ctx context.Context, workspaceID, postID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error)
	SubmitForApproval(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error)
	Approve(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error)
	Schedule(ctx context.Context, workspaceID, postID uuid.UUID, scheduledAt time.Time) (*models.Post, error)
	Delete(ctx context.Context, workspaceID, postID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendWorkspaceInvite(to, workspaceName, inviterName, inviteURL string) error
}

// MembershipResolverInterface defines the methods used by handlers from
// authz.MembershipResolver
type MembershipResolverInterface interface {
	VerifyWorkspaceMembership(ctx context.Context, userID, workspaceID uuid.UUID) authz.Result
}

// AgencyResolverInterface defines the methods used by handlers from
// authz.AgencyResolver
type AgencyResolverInterface interface {
	GetAgencyAccess(ctx context.Context, userID uuid.UUID) authz.AgencyAccess
}
