package integration

import (
	"context"
	"testing"

	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipResolver_Integration_MemberAndNonMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	membership := authz.NewMembershipResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)

	ws := fixtures.CreateWorkspace(t, owner)
	fixtures.AddMember(t, ws, member, authz.RoleMember)

	res := membership.VerifyWorkspaceMembership(ctx, member.ID, ws.ID)
	require.True(t, res.Success)
	assert.Equal(t, authz.RoleMember, res.Member.Role)
	assert.False(t, res.Member.CanApprovePosts)

	res = membership.VerifyWorkspaceMembership(ctx, outsider.ID, ws.ID)
	assert.False(t, res.Success)
	assert.Equal(t, authz.CodeNotMember, res.Code)
	assert.Equal(t, 403, res.Code.HTTPStatus())
}

func TestCheckPermission_Integration_OverrideFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	membership := authz.NewMembershipResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)
	fixtures.AddMember(t, ws, member, authz.RoleMember)

	// Role member alone cannot approve.
	res := membership.VerifyWorkspaceMembership(ctx, member.ID, ws.ID)
	require.True(t, res.Success)
	perm := authz.CheckPermission(res.Member, authz.PermApprovePosts)
	assert.False(t, perm.Success)
	assert.Equal(t, authz.CodeInsufficientPermissions, perm.Code)

	// Granting the stored override flips the decision without a role change.
	_, err := tdb.DB.Pool.Exec(ctx, `
		UPDATE workspace_members SET can_approve_posts = TRUE
		WHERE workspace_id = $1 AND user_id = $2
	`, ws.ID, member.ID)
	require.NoError(t, err)

	res = membership.VerifyWorkspaceMembership(ctx, member.ID, ws.ID)
	require.True(t, res.Success)
	perm = authz.CheckPermission(res.Member, authz.PermApprovePosts)
	assert.True(t, perm.Success)

	// The owner approves regardless of flags.
	res = membership.VerifyWorkspaceMembership(ctx, owner.ID, ws.ID)
	require.True(t, res.Success)
	perm = authz.CheckPermission(res.Member, authz.PermApprovePosts)
	assert.True(t, perm.Success)
}

func TestMembershipResolver_Integration_LegacyRoleRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	membership := authz.NewMembershipResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)

	// A row written before the role-scheme migration.
	_, err := tdb.DB.Pool.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, 'admin')
	`, ws.ID, member.ID)
	require.NoError(t, err)

	res := membership.VerifyWorkspaceMembership(ctx, member.ID, ws.ID)
	require.True(t, res.Success)

	// The raw role is returned; permission checks normalize it.
	assert.Equal(t, "admin", res.Member.Role)
	perm := authz.CheckPermission(res.Member, authz.PermCreatePosts)
	assert.True(t, perm.Success)
	perm = authz.CheckPermission(res.Member, authz.PermManageTeam)
	assert.False(t, perm.Success)
}
