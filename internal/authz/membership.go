package authz

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

// MembershipResolver answers "is this user a member of this workspace, and
// with what role and override flags". It is read-only and never returns a
// raw error to callers.
type MembershipResolver struct {
	db *database.DB
}

func NewMembershipResolver(db *database.DB) *MembershipResolver {
	return &MembershipResolver{db: db}
}

// VerifyWorkspaceMembership looks up the single membership row keyed by
// (workspace, user). Three distinct outcomes: NOT_MEMBER when the store
// reports zero rows, DB_ERROR for any other store condition, success with
// the row otherwise. A panic during the lookup is downgraded to
// VERIFICATION_ERROR rather than propagated.
func (r *MembershipResolver) VerifyWorkspaceMembership(ctx context.Context, userID, workspaceID uuid.UUID) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("membership verification panic: user=%s workspace=%s: %v", userID, workspaceID, p)
			result = Result{Code: CodeVerificationError, Details: fmt.Sprint(p)}
		}
	}()

	var m models.WorkspaceMember
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, workspace_id, user_id, role,
		       can_manage_team, can_manage_settings, can_delete_posts,
		       can_approve_posts, can_final_approval, created_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, userID).Scan(
		&m.ID, &m.WorkspaceID, &m.UserID, &m.Role,
		&m.CanManageTeam, &m.CanManageSettings, &m.CanDeletePosts,
		&m.CanApprovePosts, &m.CanFinalApproval, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Denied(CodeNotMember)
	}
	if err != nil {
		// Not the same thing as "not a member": the check itself failed.
		log.Printf("membership lookup failed: user=%s workspace=%s: %v", userID, workspaceID, err)
		return Result{Code: CodeDBError, Details: err.Error()}
	}

	return Granted(&m)
}

// CheckPermission decides a permission against an already-resolved
// membership row. For approve_posts and manage_team the stored flag is an
// override for non-owners; the owner role always wins regardless of the
// flag. Every other permission falls through to the static role matrix.
func CheckPermission(member *models.WorkspaceMember, permission string) Result {
	if member == nil || member.Role == "" {
		return Denied(CodeInvalidMember)
	}

	role := NormalizeRole(member.Role)

	switch permission {
	case PermApprovePosts:
		if role == RoleOwner || member.CanApprovePosts {
			return Granted(member)
		}
	case PermManageTeam:
		if role == RoleOwner || member.CanManageTeam {
			return Granted(member)
		}
	default:
		if HasPermission(role, permission) {
			return Granted(member)
		}
	}

	return Denied(CodeInsufficientPermissions)
}
