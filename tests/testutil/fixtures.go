package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
	"github.com/maja/schedly-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:              fmt.Sprintf("user%d@example.com", f.counter),
		Name:               fmt.Sprintf("Test User %d", f.counter),
		Provider:           "google",
		ProviderID:         fmt.Sprintf("provider-%d", f.counter),
		SubscriptionTier:   authz.TierFree,
		SubscriptionStatus: models.SubscriptionInactive,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id,
			subscription_tier, subscription_status, is_whitelisted, workspace_addons)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID,
		user.SubscriptionTier, user.SubscriptionStatus, user.IsWhitelisted, user.WorkspaceAddons).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = providerID
	}
}

// WithTier sets the user's subscription tier and marks it active
func WithTier(tier string) UserOption {
	return func(u *models.User) {
		u.SubscriptionTier = tier
		u.SubscriptionStatus = models.SubscriptionActive
	}
}

// WithSubscriptionStatus overrides the subscription status
func WithSubscriptionStatus(status string) UserOption {
	return func(u *models.User) {
		u.SubscriptionStatus = status
	}
}

// Whitelisted marks the user as whitelisted
func Whitelisted() UserOption {
	return func(u *models.User) {
		u.IsWhitelisted = true
	}
}

// CreateWorkspace creates a test workspace owned by the given user, with
// the owner membership row the real create path writes
func (f *Fixtures) CreateWorkspace(t *testing.T, owner *models.User, opts ...WorkspaceOption) *models.Workspace {
	t.Helper()
	f.counter++

	ws := &models.Workspace{
		Name:    fmt.Sprintf("Test Workspace %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(ws)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`, ws.Name, ws.OwnerID).Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members
			(workspace_id, user_id, role, can_manage_team, can_manage_settings,
			 can_delete_posts, can_approve_posts, can_final_approval)
		VALUES ($1, $2, $3, TRUE, TRUE, TRUE, TRUE, TRUE)
	`, ws.ID, owner.ID, authz.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return ws
}

// WorkspaceOption configures a test workspace
type WorkspaceOption func(*models.Workspace)

// WithWorkspaceName sets the workspace name
func WithWorkspaceName(name string) WorkspaceOption {
	return func(w *models.Workspace) {
		w.Name = name
	}
}

// AddMember adds a member to a workspace with flags seeded from the role
func (f *Fixtures) AddMember(t *testing.T, workspace *models.Workspace, user *models.User, role string) {
	t.Helper()
	ctx := context.Background()

	role = authz.NormalizeRole(role)
	flags := authz.RoleDefaultFlags(role)
	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO workspace_members
			(workspace_id, user_id, role, can_manage_team, can_manage_settings,
			 can_delete_posts, can_approve_posts, can_final_approval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`, workspace.ID, user.ID, role,
		flags.CanManageTeam, flags.CanManageSettings,
		flags.CanDeletePosts, flags.CanApprovePosts, flags.CanFinalApproval)
	if err != nil {
		t.Fatalf("failed to add workspace member: %v", err)
	}
}

// CreateInvitation creates a pending invitation for the given email
func (f *Fixtures) CreateInvitation(t *testing.T, workspace *models.Workspace, inviter *models.User, email, role string) *models.WorkspaceInvitation {
	t.Helper()
	ctx := context.Background()

	inv := &models.WorkspaceInvitation{
		WorkspaceID: workspace.ID,
		Email:       email,
		Role:        authz.NormalizeRole(role),
		InviterID:   inviter.ID,
		Status:      models.InvitationStatusPending,
		ExpiresAt:   time.Now().Add(models.InvitationTTL),
	}

	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO workspace_invitations (workspace_id, email, role, inviter_id, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, inv.WorkspaceID, inv.Email, inv.Role, inv.InviterID, inv.Status, inv.ExpiresAt).Scan(
		&inv.ID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	return inv
}

// AddDelegation grants a user manager rights over an agency owner's roster
func (f *Fixtures) AddDelegation(t *testing.T, agencyOwner, member *models.User, canManage bool) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO agency_members (agency_owner_id, member_user_id, can_manage_agency, status)
		VALUES ($1, $2, $3, $4)
	`, agencyOwner.ID, member.ID, canManage, models.AgencyMemberActive)
	if err != nil {
		t.Fatalf("failed to add delegation: %v", err)
	}
}

// AddRosterEntry adds an agency roster entry, linked when user is non-nil
func (f *Fixtures) AddRosterEntry(t *testing.T, agencyOwner *models.User, email string, user *models.User) *models.RosterEntry {
	t.Helper()
	ctx := context.Background()

	entry := &models.RosterEntry{
		AgencyOwnerID: agencyOwner.ID,
		Email:         email,
		DefaultRole:   authz.RoleMember,
		Status:        models.RosterStatusPending,
	}
	if user != nil {
		entry.MemberUserID = &user.ID
		entry.Status = models.RosterStatusActive
	}

	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO agency_roster (agency_owner_id, email, member_user_id, default_role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, entry.AgencyOwnerID, entry.Email, entry.MemberUserID, entry.DefaultRole, entry.Status).Scan(
		&entry.ID, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to add roster entry: %v", err)
	}

	return entry
}

// CreatePost creates a test post in the given workspace
func (f *Fixtures) CreatePost(t *testing.T, workspace *models.Workspace, author *models.User, status string) *models.Post {
	t.Helper()
	f.counter++
	ctx := context.Background()

	post := &models.Post{
		WorkspaceID: workspace.ID,
		AuthorID:    author.ID,
		Content:     fmt.Sprintf("Test post %d", f.counter),
		Status:      status,
	}

	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO posts (workspace_id, author_id, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, post.WorkspaceID, post.AuthorID, post.Content, post.Status).Scan(
		&post.ID, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
