package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

var (
	ErrRosterEntryNotFound = errors.New("roster entry not found")
	ErrRosterEntryExists   = errors.New("roster entry for this email already exists")
	ErrSelfRemoval         = errors.New("a delegated manager cannot remove their own roster entry")
	ErrDelegationNotFound  = errors.New("delegation not found")
	ErrWorkspaceNotOwned   = errors.New("workspace does not belong to this agency")
)

const rosterColumns = `id, agency_owner_id, email, member_user_id,
	default_role, status, created_at, updated_at`

// AgencyService manages the agency roster and delegation rows. Every method
// takes the resolved agency owner id from authz.GetAgencyAccess, never the
// caller's raw id: a delegated manager's writes are attributed to the
// principal.
type AgencyService struct {
	db *database.DB
}

func NewAgencyService(db *database.DB) *AgencyService {
	return &AgencyService{db: db}
}

func scanRosterEntry(row interface{ Scan(...any) error }) (*models.RosterEntry, error) {
	var e models.RosterEntry
	err := row.Scan(
		&e.ID, &e.AgencyOwnerID, &e.Email, &e.MemberUserID,
		&e.DefaultRole, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *AgencyService) GetRoster(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.RosterEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+rosterColumns+`
		FROM agency_roster
		WHERE agency_owner_id = $1
		ORDER BY created_at
	`, agencyOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(
			&e.ID, &e.AgencyOwnerID, &e.Email, &e.MemberUserID,
			&e.DefaultRole, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *AgencyService) GetRosterEntry(ctx context.Context, agencyOwnerID, entryID uuid.UUID) (*models.RosterEntry, error) {
	entry, err := scanRosterEntry(s.db.Pool.QueryRow(ctx, `
		SELECT `+rosterColumns+`
		FROM agency_roster
		WHERE id = $1 AND agency_owner_id = $2
	`, entryID, agencyOwnerID))
	if err != nil {
		return nil, ErrRosterEntryNotFound
	}
	return entry, nil
}

// AddRosterEntry tracks a prospective team member. If the email already
// belongs to a registered user the entry is linked and active immediately;
// otherwise it stays pending until the address registers.
func (s *AgencyService) AddRosterEntry(ctx context.Context, agencyOwnerID uuid.UUID, email, defaultRole string) (*models.RosterEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var memberUserID *uuid.UUID
	status := models.RosterStatusPending
	var existingID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id FROM users WHERE lower(email) = $1
	`, email).Scan(&existingID)
	if err == nil {
		memberUserID = &existingID
		status = models.RosterStatusActive
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	entry, err := scanRosterEntry(s.db.Pool.QueryRow(ctx, `
		INSERT INTO agency_roster (agency_owner_id, email, member_user_id, default_role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+rosterColumns+`
	`, agencyOwnerID, email, memberUserID, authz.NormalizeRole(defaultRole), status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRosterEntryExists
		}
		return nil, fmt.Errorf("failed to add roster entry: %w", err)
	}
	return entry, nil
}

func (s *AgencyService) UpdateRosterEntry(ctx context.Context, agencyOwnerID, entryID uuid.UUID, defaultRole, status string) (*models.RosterEntry, error) {
	entry, err := scanRosterEntry(s.db.Pool.QueryRow(ctx, `
		UPDATE agency_roster SET default_role = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND agency_owner_id = $4
		RETURNING `+rosterColumns+`
	`, authz.NormalizeRole(defaultRole), status, entryID, agencyOwnerID))
	if err != nil {
		return nil, ErrRosterEntryNotFound
	}
	return entry, nil
}

// RemoveRosterEntry deletes a roster entry. A delegated manager removing
// the entry that names themselves would lock themselves out, so that is
// rejected; the principal can remove anyone.
func (s *AgencyService) RemoveRosterEntry(ctx context.Context, agencyOwnerID, entryID, actorID uuid.UUID) error {
	entry, err := s.GetRosterEntry(ctx, agencyOwnerID, entryID)
	if err != nil {
		return err
	}

	if actorID != agencyOwnerID && entry.MemberUserID != nil && *entry.MemberUserID == actorID {
		return ErrSelfRemoval
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM agency_roster WHERE id = $1 AND agency_owner_id = $2
	`, entryID, agencyOwnerID)
	return err
}

// LinkRegisteredUser attaches a newly registered user to any pending roster
// entries for their email address. Called after signup.
func (s *AgencyService) LinkRegisteredUser(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE agency_roster
		SET member_user_id = $1, status = $2, updated_at = NOW()
		WHERE lower(email) = lower($3) AND member_user_id IS NULL
	`, userID, models.RosterStatusActive, email)
	return err
}

// ProvisionResult reports what Provision did per workspace.
type ProvisionResult struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	// Outcome is "member_added" or "invitation_sent".
	Outcome string `json:"outcome"`
}

// Provision places a roster entry into workspaces owned by the agency. A
// registered entry becomes a direct member with flags seeded from its
// default role; an unregistered one gets a pending invitation instead.
// Every workspace must belong to the resolved agency owner.
func (s *AgencyService) Provision(ctx context.Context, agencyOwnerID, entryID uuid.UUID, workspaceIDs []uuid.UUID, members *MemberService, invitations *InvitationService) ([]ProvisionResult, error) {
	entry, err := s.GetRosterEntry(ctx, agencyOwnerID, entryID)
	if err != nil {
		return nil, err
	}

	results := make([]ProvisionResult, 0, len(workspaceIDs))
	for _, workspaceID := range workspaceIDs {
		var ownerID uuid.UUID
		err := s.db.Pool.QueryRow(ctx, `
			SELECT owner_id FROM workspaces WHERE id = $1
		`, workspaceID).Scan(&ownerID)
		if err != nil {
			return nil, ErrWorkspaceNotOwned
		}
		if ownerID != agencyOwnerID {
			return nil, ErrWorkspaceNotOwned
		}

		if entry.MemberUserID != nil {
			if err := members.AddMember(ctx, workspaceID, *entry.MemberUserID, entry.DefaultRole); err != nil {
				return nil, err
			}
			results = append(results, ProvisionResult{WorkspaceID: workspaceID, Outcome: "member_added"})
			continue
		}

		_, err = invitations.Create(ctx, workspaceID, entry.Email, entry.DefaultRole, agencyOwnerID)
		if err != nil && !errors.Is(err, ErrInviteExists) && !errors.Is(err, ErrAlreadyMember) {
			return nil, err
		}
		results = append(results, ProvisionResult{WorkspaceID: workspaceID, Outcome: "invitation_sent"})
	}
	return results, nil
}

// SetDelegation grants or revokes manager rights for a member user. Only
// the handler's owner check reaches this; the row is upserted so granting
// to a fresh user and re-toggling share one path.
func (s *AgencyService) SetDelegation(ctx context.Context, agencyOwnerID, memberUserID uuid.UUID, canManage bool) (*models.AgencyMember, error) {
	var m models.AgencyMember
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO agency_members (agency_owner_id, member_user_id, can_manage_agency, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (agency_owner_id, member_user_id) DO UPDATE SET
			can_manage_agency = EXCLUDED.can_manage_agency,
			updated_at = NOW()
		RETURNING id, agency_owner_id, member_user_id, can_manage_agency, status, created_at, updated_at
	`, agencyOwnerID, memberUserID, canManage, models.AgencyMemberActive).Scan(
		&m.ID, &m.AgencyOwnerID, &m.MemberUserID, &m.CanManageAgency,
		&m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set delegation: %w", err)
	}
	return &m, nil
}

func (s *AgencyService) GetDelegations(ctx context.Context, agencyOwnerID uuid.UUID) ([]models.AgencyMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT am.id, am.agency_owner_id, am.member_user_id, am.can_manage_agency,
		       am.status, am.created_at, am.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider,
		       u.subscription_tier, u.subscription_status, u.created_at, u.updated_at
		FROM agency_members am
		JOIN users u ON am.member_user_id = u.id
		WHERE am.agency_owner_id = $1
		ORDER BY am.created_at
	`, agencyOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var delegations []models.AgencyMember
	for rows.Next() {
		var m models.AgencyMember
		var user models.User
		if err := rows.Scan(
			&m.ID, &m.AgencyOwnerID, &m.MemberUserID, &m.CanManageAgency,
			&m.Status, &m.CreatedAt, &m.UpdatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Provider,
			&user.SubscriptionTier, &user.SubscriptionStatus, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.Member = &user
		delegations = append(delegations, m)
	}
	return delegations, nil
}
