package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/oauth"
	"github.com/maja/schedly-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockWorkspaceService mocks the WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, name, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, []string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Workspace), args.Get(1).([]string), args.Error(2)
}

func (m *MockWorkspaceService) CountOwnedBy(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, name string) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

// MockMemberService mocks the MemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]models.WorkspaceMember), args.Error(1)
}

func (m *MockMemberService) CountMembers(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberService) UpdateMember(ctx context.Context, workspaceID, userID uuid.UUID, update services.MemberUpdate) (*models.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkspaceMember), args.Error(1)
}

func (m *MockMemberService) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) Create(ctx context.Context, workspaceID uuid.UUID, email, role string, inviterID uuid.UUID) (*models.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, email, role, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkspaceInvitation), args.Error(1)
}

func (m *MockInvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.WorkspaceInvitation, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkspaceInvitation), args.Error(1)
}

func (m *MockInvitationService) GetPendingForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]models.WorkspaceInvitation), args.Error(1)
}

func (m *MockInvitationService) CountPending(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

func (m *MockInvitationService) Accept(ctx context.Context, invitationID, userID uuid.UUID, userEmail string) error {
	args := m.Called(ctx, invitationID, userID, userEmail)
	return args.Error(0)
}

func (m *MockInvitationService) Decline(ctx context.Context, invitationID uuid.UUID, userEmail string) error {
	args := m.Called(ctx, invitationID, userEmail)
	return args.Error(0)
}

func (m *MockInvitationService) Cancel(ctx context.Context, invitationID, workspaceID uuid.UUID) error {
	args := m.Called(ctx, invitationID, workspaceID)
	return args.Error(0)
}

func (m *MockInvitationService) Resend(ctx context.Context, invitationID, workspaceID uuid.UUID) (*models.WorkspaceInvitation, error) {
	args := m.Called(ctx, invitationID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkspaceInvitation), args.Error(1)
}

// MockAgencyService mocks the AgencyService
type MockAgencyService struct {
	mock.Mock
}

func (m *MockAgencyService) GetRoster(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.RosterEntry, error) {
	args := m.Called(ctx, agencyOwnerID)
	return args.Get(0).([]models.RosterEntry), args.Error(1)
}

func (m *MockAgencyService) AddRosterEntry(ctx context.Context, agencyOwnerID uuid.UUID, email, defaultRole string) (*models.RosterEntry, error) {
	args := m.Called(ctx, agencyOwnerID, email, defaultRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RosterEntry), args.Error(1)
}

func (m *MockAgencyService) UpdateRosterEntry(ctx context.Context, agencyOwnerID, entryID uuid.UUID, defaultRole, status string) (*models.RosterEntry, error) {
	args := m.Called(ctx, agencyOwnerID, entryID, defaultRole, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RosterEntry), args.Error(1)
}

func (m *MockAgencyService) RemoveRosterEntry(ctx context.Context, agencyOwnerID, entryID, actorID uuid.UUID) error {
	args := m.Called(ctx, agencyOwnerID, entryID, actorID)
	return args.Error(0)
}

func (m *MockAgencyService) LinkRegisteredUser(ctx context.Context, userID uuid.UUID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *MockAgencyService) Provision(ctx context.Context, agencyOwnerID, entryID uuid.UUID, workspaceIDs []uuid.UUID, members *services.MemberService, invitations *services.InvitationService) ([]services.ProvisionResult, error) {
	args := m.Called(ctx, agencyOwnerID, entryID, workspaceIDs, members, invitations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.ProvisionResult), args.Error(1)
}

func (m *MockAgencyService) SetDelegation(ctx context.Context, agencyOwnerID, memberUserID uuid.UUID, canManage bool) (*models.AgencyMember, error) {
	args := m.Called(ctx, agencyOwnerID, memberUserID, canManage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgencyMember), args.Error(1)
}

func (m *MockAgencyService) GetDelegations(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.AgencyMember, error) {
	args := m.Called(ctx, agencyOwnerID)
	return args.Get(0).([]models.AgencyMember), args.Error(1)
}

// MockPostService mocks the PostService
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, workspaceID, authorID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, authorID, content, scheduledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetByID(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetWorkspacePosts(ctx context.Context, workspaceID uuid.UUID) ([]models.Post, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, workspaceID, postID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, postID, content, scheduledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) SubmitForApproval(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Approve(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Schedule(ctx context.Context, workspaceID, postID uuid.UUID, scheduledAt time.Time) (*models.Post, error) {
	args := m.Called(ctx, workspaceID, postID, scheduledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, workspaceID, postID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, postID)
	return args.Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWorkspaceInvite(to, workspaceName, inviterName, inviteURL string) error {
	args := m.Called(to, workspaceName, inviterName, inviteURL)
	return args.Error(0)
}

// MockMembershipResolver mocks the authz.MembershipResolver
type MockMembershipResolver struct {
	mock.Mock
}

func (m *MockMembershipResolver) VerifyWorkspaceMembership(ctx context.Context, userID, workspaceID uuid.UUID) authz.Result {
	args := m.Called(ctx, userID, workspaceID)
	return args.Get(0).(authz.Result)
}

// MockAgencyResolver mocks the authz.AgencyResolver
type MockAgencyResolver struct {
	mock.Mock
}

func (m *MockAgencyResolver) GetAgencyAccess(ctx context.Context, userID uuid.UUID) authz.AgencyAccess {
	args := m.Called(ctx, userID)
	return args.Get(0).(authz.AgencyAccess)
}
