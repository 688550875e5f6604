package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrEmailMismatch      = errors.New("invitation was issued for a different email address")
	ErrAlreadyMember      = errors.New("user is already a workspace member")
	ErrInviteExists       = errors.New("a pending invitation for this email already exists")
)

const invitationColumns = `id, workspace_id, email, role, inviter_id, status,
	expires_at, created_at, updated_at`

type InvitationService struct {
	db *database.DB
}

func NewInvitationService(db *database.DB) *InvitationService {
	return &InvitationService{db: db}
}

func scanInvitation(row interface{ Scan(...any) error }) (*models.WorkspaceInvitation, error) {
	var inv models.WorkspaceInvitation
	err := row.Scan(
		&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role, &inv.InviterID,
		&inv.Status, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create issues a pending invitation with a seven-day expiry. Duplicate
// pending invitations are rejected by the partial unique index.
func (s *InvitationService) Create(ctx context.Context, workspaceID uuid.UUID, email, role string, inviterID uuid.UUID) (*models.WorkspaceInvitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var isMember bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM workspace_members wm
			JOIN users u ON wm.user_id = u.id
			WHERE wm.workspace_id = $1 AND lower(u.email) = $2
		)
	`, workspaceID, email).Scan(&isMember)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx, `
		INSERT INTO workspace_invitations (workspace_id, email, role, inviter_id, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+invitationColumns+`
	`, workspaceID, email, authz.NormalizeRole(role), inviterID,
		models.InvitationStatusPending, time.Now().Add(models.InvitationTTL)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrInviteExists
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// GetByID fetches an invitation and lazily expires it: a pending invitation
// past its expiry is flipped to expired on access, there is no background
// sweep.
func (s *InvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.WorkspaceInvitation, error) {
	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx, `
		SELECT `+invitationColumns+` FROM workspace_invitations WHERE id = $1
	`, invitationID))
	if err != nil {
		return nil, ErrInvitationNotFound
	}

	if inv.Status == models.InvitationStatusPending && inv.IsExpired(time.Now()) {
		_, err = s.db.Pool.Exec(ctx, `
			UPDATE workspace_invitations SET status = $1, updated_at = NOW() WHERE id = $2
		`, models.InvitationStatusExpired, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to expire invitation: %w", err)
		}
		inv.Status = models.InvitationStatusExpired
	}

	return inv, nil
}

func (s *InvitationService) GetPendingForWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceInvitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+invitationColumns+`
		FROM workspace_invitations
		WHERE workspace_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, workspaceID, models.InvitationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.WorkspaceInvitation
	for rows.Next() {
		var inv models.WorkspaceInvitation
		if err := rows.Scan(
			&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role, &inv.InviterID,
			&inv.Status, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

// CountPending feeds the member-ceiling check: a parked invitation holds a
// seat until it is accepted, declined or expires.
func (s *InvitationService) CountPending(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM workspace_invitations
		WHERE workspace_id = $1 AND status = $2 AND expires_at > NOW()
	`, workspaceID, models.InvitationStatusPending).Scan(&count)
	return count, err
}

// Accept converts an invitation into a membership. The accepting user's
// email must match the invitation's, case-insensitively; the membership is
// seeded from the invitation role's defaults.
func (s *InvitationService) Accept(ctx context.Context, invitationID, userID uuid.UUID, userEmail string) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var inv models.WorkspaceInvitation
	err = tx.QueryRow(ctx, `
		SELECT id, workspace_id, email, role, status, expires_at
		FROM workspace_invitations WHERE id = $1
	`, invitationID).Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role, &inv.Status, &inv.ExpiresAt)
	if err != nil {
		return ErrInvitationNotFound
	}

	if inv.Status != models.InvitationStatusPending {
		return ErrInvitationNotFound
	}

	if inv.IsExpired(time.Now()) {
		_, _ = tx.Exec(ctx, `
			UPDATE workspace_invitations SET status = $1, updated_at = NOW() WHERE id = $2
		`, models.InvitationStatusExpired, inv.ID)
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return ErrInvitationExpired
	}

	if !strings.EqualFold(inv.Email, userEmail) {
		return ErrEmailMismatch
	}

	_, err = tx.Exec(ctx, `
		UPDATE workspace_invitations SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.InvitationStatusAccepted, invitationID)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	role := authz.NormalizeRole(inv.Role)
	flags := authz.RoleDefaultFlags(role)
	_, err = tx.Exec(ctx, `
		INSERT INTO workspace_members
			(workspace_id, user_id, role, can_manage_team, can_manage_settings,
			 can_delete_posts, can_approve_posts, can_final_approval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`, inv.WorkspaceID, userID, role,
		flags.CanManageTeam, flags.CanManageSettings,
		flags.CanDeletePosts, flags.CanApprovePosts, flags.CanFinalApproval)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *InvitationService) Decline(ctx context.Context, invitationID uuid.UUID, userEmail string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE workspace_invitations SET status = $1, updated_at = NOW()
		WHERE id = $2 AND lower(email) = lower($3) AND status = $4
	`, models.InvitationStatusDeclined, invitationID, userEmail, models.InvitationStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (s *InvitationService) Cancel(ctx context.Context, invitationID, workspaceID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM workspace_invitations
		WHERE id = $1 AND workspace_id = $2 AND status = $3
	`, invitationID, workspaceID, models.InvitationStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// Resend restarts the expiry clock on a pending or expired invitation.
func (s *InvitationService) Resend(ctx context.Context, invitationID, workspaceID uuid.UUID) (*models.WorkspaceInvitation, error) {
	inv, err := scanInvitation(s.db.Pool.QueryRow(ctx, `
		UPDATE workspace_invitations
		SET status = $1, expires_at = $2, updated_at = NOW()
		WHERE id = $3 AND workspace_id = $4 AND status IN ($1, $5)
		RETURNING `+invitationColumns+`
	`, models.InvitationStatusPending, time.Now().Add(models.InvitationTTL),
		invitationID, workspaceID, models.InvitationStatusExpired))
	if err != nil {
		return nil, ErrInvitationNotFound
	}
	return inv, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
