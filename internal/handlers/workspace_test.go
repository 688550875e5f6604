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
	"github.com/maja/schedly-api/pkg/dto"
	"github.com/maja/schedly-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupWorkspaceTest(t *testing.T) (*testutil.MockWorkspaceService, *testutil.MockUserService, *testutil.MockMembershipResolver, *testutil.HTTPTestClient) {
	t.Helper()
	mockWorkspaceService := new(testutil.MockWorkspaceService)
	mockUserService := new(testutil.MockUserService)
	mockMembership := new(testutil.MockMembershipResolver)
	handler := NewWorkspaceHandler(mockWorkspaceService, mockUserService, mockMembership)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Post("/workspaces", handler.Create)
	app.Get("/workspaces/:workspaceId", handler.Get)
	app.Delete("/workspaces/:workspaceId", handler.Delete)

	return mockWorkspaceService, mockUserService, mockMembership, testutil.NewHTTPTestClient(t, app)
}

func TestWorkspaceHandler_Create_Success(t *testing.T) {
	mockWorkspaceService, mockUserService, _, client := setupWorkspaceTest(t)

	userID := uuid.New()
	workspace := &models.Workspace{ID: uuid.New(), Name: "My Workspace", OwnerID: userID}

	mockUserService.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, SubscriptionTier: authz.TierSolo, SubscriptionStatus: models.SubscriptionActive}, nil)
	mockWorkspaceService.On("CountOwnedBy", mock.Anything, userID).Return(0, nil)
	mockWorkspaceService.On("Create", mock.Anything, "My Workspace", userID).Return(workspace, nil)

	token := testutil.GenerateTestToken(t, userID, "solo@example.com")
	rec := client.POST("/workspaces", dto.CreateWorkspaceRequest{Name: "My Workspace"},
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusCreated)

	var response dto.WorkspaceResponse
	testutil.ParseJSON(t, rec, &response)
	assert.Equal(t, workspace.ID, response.ID)
	assert.Equal(t, "owner", response.Role)

	mockWorkspaceService.AssertExpectations(t)
}

func TestWorkspaceHandler_Create_PaymentRequired(t *testing.T) {
	mockWorkspaceService, mockUserService, _, client := setupWorkspaceTest(t)

	userID := uuid.New()

	// Solo allows a single owned workspace.
	mockUserService.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, SubscriptionTier: authz.TierSolo, SubscriptionStatus: models.SubscriptionActive}, nil)
	mockWorkspaceService.On("CountOwnedBy", mock.Anything, userID).Return(1, nil)

	token := testutil.GenerateTestToken(t, userID, "solo@example.com")
	rec := client.POST("/workspaces", dto.CreateWorkspaceRequest{Name: "Second"},
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusPaymentRequired)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "PAYMENT_REQUIRED"})
	mockWorkspaceService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkspaceHandler_Create_AddonsExtendCeiling(t *testing.T) {
	mockWorkspaceService, mockUserService, _, client := setupWorkspaceTest(t)

	userID := uuid.New()
	workspace := &models.Workspace{ID: uuid.New(), Name: "Extra", OwnerID: userID}

	// One purchased add-on lifts solo's ceiling from 1 to 2.
	mockUserService.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, SubscriptionTier: authz.TierSolo, WorkspaceAddons: 1}, nil)
	mockWorkspaceService.On("CountOwnedBy", mock.Anything, userID).Return(1, nil)
	mockWorkspaceService.On("Create", mock.Anything, "Extra", userID).Return(workspace, nil)

	token := testutil.GenerateTestToken(t, userID, "solo@example.com")
	rec := client.POST("/workspaces", dto.CreateWorkspaceRequest{Name: "Extra"},
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusCreated)
	mockWorkspaceService.AssertExpectations(t)
}

func TestWorkspaceHandler_Delete_RequiresOwner(t *testing.T) {
	mockWorkspaceService, _, mockMembership, client := setupWorkspaceTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(grantedMember(workspaceID, userID, authz.RoleMember))

	token := testutil.GenerateTestToken(t, userID, "member@example.com")
	rec := client.DELETE("/workspaces/"+workspaceID.String(),
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusForbidden)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "INSUFFICIENT_PERMISSIONS"})
	mockWorkspaceService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWorkspaceHandler_Get_DBErrorIsServerError(t *testing.T) {
	_, _, mockMembership, client := setupWorkspaceTest(t)

	userID := uuid.New()
	workspaceID := uuid.New()

	mockMembership.On("VerifyWorkspaceMembership", mock.Anything, userID, workspaceID).
		Return(authz.Result{Code: authz.CodeDBError, Details: "connection refused"})

	token := testutil.GenerateTestToken(t, userID, "member@example.com")
	rec := client.GET("/workspaces/"+workspaceID.String(),
		map[string]string{"Authorization": testutil.AuthHeader(token)})

	testutil.AssertStatus(t, rec, http.StatusInternalServerError)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "DB_ERROR"})
	// Store details never leak into the envelope.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
