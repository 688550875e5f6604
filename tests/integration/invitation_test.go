package integration

import (
	"context"
	"testing"

	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/services"
	"github.com/maja/schedly-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationService_Integration_CreateAndAccept(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	membership := authz.NewMembershipResolver(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t, testutil.WithEmail("invitee@example.com"))
	ws := fixtures.CreateWorkspace(t, owner)

	inv, err := invitations.Create(ctx, ws.ID, "Invitee@Example.com", authz.RoleMember, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", inv.Email)
	assert.Equal(t, models.InvitationStatusPending, inv.Status)

	err = invitations.Accept(ctx, inv.ID, invitee.ID, invitee.Email)
	require.NoError(t, err)

	// Accepting seeds the membership from the invitation role's defaults.
	res := membership.VerifyWorkspaceMembership(ctx, invitee.ID, ws.ID)
	require.True(t, res.Success)
	assert.Equal(t, authz.RoleMember, res.Member.Role)
	assert.False(t, res.Member.CanManageTeam)
	assert.False(t, res.Member.CanApprovePosts)

	got, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusAccepted, got.Status)
}

func TestInvitationService_Integration_EmailMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	stranger := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)

	inv := fixtures.CreateInvitation(t, ws, owner, "someoneelse@example.com", authz.RoleMember)

	err := invitations.Accept(ctx, inv.ID, stranger.ID, stranger.Email)
	assert.ErrorIs(t, err, services.ErrEmailMismatch)

	// The invitation stays pending for its rightful recipient.
	got, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusPending, got.Status)
}

func TestInvitationService_Integration_LazyExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t, testutil.WithEmail("late@example.com"))
	ws := fixtures.CreateWorkspace(t, owner)

	inv := fixtures.CreateInvitation(t, ws, owner, "late@example.com", authz.RoleMember)

	_, err := tdb.DB.Pool.Exec(ctx, `
		UPDATE workspace_invitations SET expires_at = NOW() - INTERVAL '1 day' WHERE id = $1
	`, inv.ID)
	require.NoError(t, err)

	// Reading an overdue pending invitation flips it to expired.
	got, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusExpired, got.Status)

	err = invitations.Accept(ctx, inv.ID, invitee.ID, invitee.Email)
	assert.ErrorIs(t, err, services.ErrInvitationNotFound)
}

func TestInvitationService_Integration_AcceptExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	invitee := fixtures.CreateUser(t, testutil.WithEmail("slow@example.com"))
	ws := fixtures.CreateWorkspace(t, owner)

	inv := fixtures.CreateInvitation(t, ws, owner, "slow@example.com", authz.RoleMember)

	_, err := tdb.DB.Pool.Exec(ctx, `
		UPDATE workspace_invitations SET expires_at = NOW() - INTERVAL '1 hour' WHERE id = $1
	`, inv.ID)
	require.NoError(t, err)

	err = invitations.Accept(ctx, inv.ID, invitee.ID, invitee.Email)
	assert.ErrorIs(t, err, services.ErrInvitationExpired)

	// The expiry flip is persisted even though the accept failed.
	got, err := invitations.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusExpired, got.Status)
}

func TestInvitationService_Integration_DuplicatePending(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)

	_, err := invitations.Create(ctx, ws.ID, "dupe@example.com", authz.RoleMember, owner.ID)
	require.NoError(t, err)

	_, err = invitations.Create(ctx, ws.ID, "dupe@example.com", authz.RoleViewer, owner.ID)
	assert.ErrorIs(t, err, services.ErrInviteExists)

	// A declined invitation frees the slot for a fresh one.
	pending, err := invitations.GetPendingForWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, invitations.Decline(ctx, pending[0].ID, "dupe@example.com"))

	_, err = invitations.Create(ctx, ws.ID, "dupe@example.com", authz.RoleMember, owner.ID)
	assert.NoError(t, err)
}

func TestInvitationService_Integration_AlreadyMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)
	fixtures.AddMember(t, ws, member, authz.RoleMember)

	_, err := invitations.Create(ctx, ws.ID, member.Email, authz.RoleMember, owner.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyMember)
}

func TestInvitationService_Integration_CancelAndResend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)

	inv := fixtures.CreateInvitation(t, ws, owner, "parked@example.com", authz.RoleMember)

	_, err := tdb.DB.Pool.Exec(ctx, `
		UPDATE workspace_invitations SET status = $1, expires_at = NOW() - INTERVAL '1 day' WHERE id = $2
	`, models.InvitationStatusExpired, inv.ID)
	require.NoError(t, err)

	// Resend revives an expired invitation with a fresh expiry.
	revived, err := invitations.Resend(ctx, inv.ID, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusPending, revived.Status)
	assert.True(t, revived.ExpiresAt.After(inv.ExpiresAt))

	require.NoError(t, invitations.Cancel(ctx, inv.ID, ws.ID))

	err = invitations.Cancel(ctx, inv.ID, ws.ID)
	assert.ErrorIs(t, err, services.ErrInvitationNotFound)
}

func TestInvitationService_Integration_CountPending(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	invitations := services.NewInvitationService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	ws := fixtures.CreateWorkspace(t, owner)

	fixtures.CreateInvitation(t, ws, owner, "one@example.com", authz.RoleMember)
	stale := fixtures.CreateInvitation(t, ws, owner, "two@example.com", authz.RoleMember)

	_, err := tdb.DB.Pool.Exec(ctx, `
		UPDATE workspace_invitations SET expires_at = NOW() - INTERVAL '1 day' WHERE id = $1
	`, stale.ID)
	require.NoError(t, err)

	// Overdue invitations no longer hold a seat.
	count, err := invitations.CountPending(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
