package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

const memberColumns = `wm.id, wm.workspace_id, wm.user_id, wm.role,
	wm.can_manage_team, wm.can_manage_settings, wm.can_delete_posts,
	wm.can_approve_posts, wm.can_final_approval, wm.created_at`

// MemberService mutates workspace memberships. Reads for authorization go
// through authz.MembershipResolver; this service is the write side.
type MemberService struct {
	db *database.DB
}

func NewMemberService(db *database.DB) *MemberService {
	return &MemberService{db: db}
}

// MemberUpdate is a role change plus optional explicit overrides. The role's
// defaults are applied first; any non-nil override wins over the default.
type MemberUpdate struct {
	Role              string
	CanManageTeam     *bool
	CanManageSettings *bool
	CanDeletePosts    *bool
	CanApprovePosts   *bool
	CanFinalApproval  *bool
}

func (u MemberUpdate) flags() authz.MemberFlags {
	flags := authz.RoleDefaultFlags(u.Role)
	if u.CanManageTeam != nil {
		flags.CanManageTeam = *u.CanManageTeam
	}
	if u.CanManageSettings != nil {
		flags.CanManageSettings = *u.CanManageSettings
	}
	if u.CanDeletePosts != nil {
		flags.CanDeletePosts = *u.CanDeletePosts
	}
	if u.CanApprovePosts != nil {
		flags.CanApprovePosts = *u.CanApprovePosts
	}
	if u.CanFinalApproval != nil {
		flags.CanFinalApproval = *u.CanFinalApproval
	}
	return flags
}

func (s *MemberService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+memberColumns+`,
		       u.id, u.email, u.name, u.avatar_url, u.provider,
		       u.subscription_tier, u.subscription_status, u.created_at, u.updated_at
		FROM workspace_members wm
		JOIN users u ON wm.user_id = u.id
		WHERE wm.workspace_id = $1
		ORDER BY wm.created_at
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.WorkspaceMember
	for rows.Next() {
		var m models.WorkspaceMember
		var user models.User
		if err := rows.Scan(
			&m.ID, &m.WorkspaceID, &m.UserID, &m.Role,
			&m.CanManageTeam, &m.CanManageSettings, &m.CanDeletePosts,
			&m.CanApprovePosts, &m.CanFinalApproval, &m.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Provider,
			&user.SubscriptionTier, &user.SubscriptionStatus, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.Role = authz.NormalizeRole(m.Role)
		m.User = &user
		members = append(members, m)
	}
	return members, nil
}

func (s *MemberService) CountMembers(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM workspace_members WHERE workspace_id = $1
	`, workspaceID).Scan(&count)
	return count, err
}

// AddMember inserts a membership seeded from the role's default flags.
func (s *MemberService) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	role = authz.NormalizeRole(role)
	flags := authz.RoleDefaultFlags(role)
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO workspace_members
			(workspace_id, user_id, role, can_manage_team, can_manage_settings,
			 can_delete_posts, can_approve_posts, can_final_approval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`, workspaceID, userID, role,
		flags.CanManageTeam, flags.CanManageSettings,
		flags.CanDeletePosts, flags.CanApprovePosts, flags.CanFinalApproval)
	return err
}

// UpdateMember changes a member's role and flags. The owner row is immutable
// through this path: neither its role nor its flags can be altered.
func (s *MemberService) UpdateMember(ctx context.Context, workspaceID, userID uuid.UUID, update MemberUpdate) (*models.WorkspaceMember, error) {
	var currentRole string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(&currentRole)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if authz.NormalizeRole(currentRole) == authz.RoleOwner {
		return nil, ErrOwnerImmutable
	}

	role := authz.NormalizeRole(update.Role)
	if role == authz.RoleOwner {
		// Ownership is not granted through member updates either.
		return nil, ErrOwnerImmutable
	}
	flags := update.flags()

	var m models.WorkspaceMember
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE workspace_members SET
			role = $1, can_manage_team = $2, can_manage_settings = $3,
			can_delete_posts = $4, can_approve_posts = $5, can_final_approval = $6
		WHERE workspace_id = $7 AND user_id = $8
		RETURNING id, workspace_id, user_id, role, can_manage_team,
			can_manage_settings, can_delete_posts, can_approve_posts,
			can_final_approval, created_at
	`, role, flags.CanManageTeam, flags.CanManageSettings,
		flags.CanDeletePosts, flags.CanApprovePosts, flags.CanFinalApproval,
		workspaceID, userID).Scan(
		&m.ID, &m.WorkspaceID, &m.UserID, &m.Role,
		&m.CanManageTeam, &m.CanManageSettings, &m.CanDeletePosts,
		&m.CanApprovePosts, &m.CanFinalApproval, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberService) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	var role string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(&role)
	if err != nil {
		return ErrMemberNotFound
	}

	if authz.NormalizeRole(role) == authz.RoleOwner {
		return ErrCannotRemoveOwner
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID)
	return err
}
