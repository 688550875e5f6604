package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/services"
	"github.com/maja/schedly-api/pkg/dto"
	"github.com/maja/schedly-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupMemberTest(t *testing.T) (*testutil.MockMemberService, *testutil.MockMembershipResolver, *testutil.HTTPTestClient) {
	t.Helper()
	mockMemberService := new(testutil.MockMemberService)
	mockMembership := new(testutil.MockMembershipResolver)
	handler := NewMemberHandler(mockMemberService, mockMembership)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/workspaces/:workspaceId/members", handler.List)
	app.Patch("/workspaces/:workspaceId/members/:userId", handler.Update)
	app.Delete("/workspaces/:workspaceId/members/:userId", handler.Remove)

	return mockMemberService, mockMembership, testutil.NewHTTPTestClient(t, app)
}

func grantedMember(workspaceID, userID uuid.UUID, role string) authz.Result {
	flags := authz.RoleDefaultFlags(role)
	return authz.Granted(&models.WorkspaceMember{
		ID:                uuid.New(),
		WorkspaceID:       workspaceID,
		UserID:            userID,
		Role:              role,
		CanManageTeam:     flags.CanManageTeam,
		CanManageSettings: flags.CanManageSettings,
		CanDeletePosts:    flags.CanDeletePosts,
		CanApprovePosts:   flags.CanApprovePosts,
		CanFinalApproval:  flags.CanFinalApproval,
	})
}

func TestMemberHandler_List_Unauthorized(t *testing.T) {
	_, _, client := setupMemberTest(t)

	rec := client.GET("/workspaces/"+uuid.New().String()+"/members", nil)

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestMemberHandler_List_NotMember(t *testing.T) {
	_, mockMembership, client := setupMemberTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(authz.Denied(authz.CodeNotMember))

	token := testutil.GenerateTestToken(t, userID, "outsider@example.com")
	rec := client.GET("/workspaces/"+workspaceID.String()+"/members", map[string]string{
		"Authorization": testutil.AuthHeader(token),
	})

	testutil.AssertStatus(t, rec, http.StatusForbidden)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "NOT_MEMBER"})
	mockMembership.AssertExpectations(t)
}

func TestMemberHandler_List_Success(t *testing.T) {
	mockMemberService, mockMembership, client := setupMemberTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(grantedMember(workspaceID, userID, authz.RoleMember))
	mockMemberService.On("GetMembers", mock.Anything, workspaceID).
		Return([]models.WorkspaceMember{
			{ID: uuid.New(), WorkspaceID: workspaceID, UserID: uuid.New(), Role: "owner"},
			{ID: uuid.New(), WorkspaceID: workspaceID, UserID: userID, Role: "member"},
		}, nil)

	token := testutil.GenerateTestToken(t, userID, "member@example.com")
	rec := client.GET("/workspaces/"+workspaceID.String()+"/members", map[string]string{
		"Authorization": testutil.AuthHeader(token),
	})

	testutil.AssertStatus(t, rec, http.StatusOK)

	var response []dto.MemberResponse
	testutil.ParseJSON(t, rec, &response)
	assert.Len(t, response, 2)
	assert.Equal(t, "owner", response[0].Role)

	mockMemberService.AssertExpectations(t)
}

func TestMemberHandler_Update_InsufficientPermissions(t *testing.T) {
	_, mockMembership, client := setupMemberTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()
	targetID := uuid.New()

	// A plain member has no manage_team grant.
	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(grantedMember(workspaceID, userID, authz.RoleMember))

	token := testutil.GenerateTestToken(t, userID, "member@example.com")
	rec := client.PATCH("/workspaces/"+workspaceID.String()+"/members/"+targetID.String(),
		dto.UpdateMemberRequest{Role: authz.RoleViewer},
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusForbidden)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "INSUFFICIENT_PERMISSIONS"})
}

func TestMemberHandler_Update_OwnerImmutable(t *testing.T) {
	mockMemberService, mockMembership, client := setupMemberTest(t)

	ownerID := uuid.New()
	workspaceID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, ownerID, workspaceID).
		Return(grantedMember(workspaceID, ownerID, authz.RoleOwner))
	mockMemberService.On("UpdateMember", mock.Anything, workspaceID, ownerID, mock.Anything).
		Return(nil, services.ErrOwnerImmutable)

	token := testutil.GenerateTestToken(t, ownerID, "owner@example.com")
	rec := client.PATCH("/workspaces/"+workspaceID.String()+"/members/"+ownerID.String(),
		dto.UpdateMemberRequest{Role: authz.RoleViewer},
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusForbidden)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "FORBIDDEN"})
	mockMemberService.AssertExpectations(t)
}

func TestMemberHandler_Remove_SelfLeaveAllowed(t *testing.T) {
	mockMemberService, mockMembership, client := setupMemberTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()

	// Leaving needs no permission even for a viewer.
	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(grantedMember(workspaceID, userID, authz.RoleViewer))
	mockMemberService.On("RemoveMember", mock.Anything, workspaceID, userID).Return(nil)

	token := testutil.GenerateTestToken(t, userID, "viewer@example.com")
	rec := client.DELETE("/workspaces/"+workspaceID.String()+"/members/"+userID.String(),
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusOK)
	mockMemberService.AssertExpectations(t)
}

func TestMemberHandler_Remove_OtherRequiresManageTeam(t *testing.T) {
	mockMemberService, mockMembership, client := setupMemberTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()
	targetID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(grantedMember(workspaceID, userID, authz.RoleMember))

	token := testutil.GenerateTestToken(t, userID, "member@example.com")
	rec := client.DELETE("/workspaces/"+workspaceID.String()+"/members/"+targetID.String(),
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusForbidden)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "INSUFFICIENT_PERMISSIONS"})
	mockMemberService.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}
