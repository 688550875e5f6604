package authz

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

// AgencyAccess is the resolved identity for agency-scoped operations. A
// user resolves as owner or manager, never both; every agency-scoped write
// must be attributed to AgencyOwnerID, not the caller's own id.
type AgencyAccess struct {
	IsOwner       bool
	IsManager     bool
	AgencyOwnerID uuid.UUID
	HasAccess     bool
}

// AgencyResolver resolves whether a user acts as an agency principal or as
// a delegated manager.
type AgencyResolver struct {
	db *database.DB
}

func NewAgencyResolver(db *database.DB) *AgencyResolver {
	return &AgencyResolver{db: db}
}

// GetAgencyAccess resolves agency access in strict order. The principal
// path is checked first and short-circuits the delegate path, so a user
// who both owns an agency and is listed as someone else's delegate always
// resolves as owner of their own agency.
func (r *AgencyResolver) GetAgencyAccess(ctx context.Context, userID uuid.UUID) AgencyAccess {
	// Path 1: the user's own subscription qualifies them as principal.
	var tier, status string
	var whitelisted bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT subscription_tier, subscription_status, is_whitelisted
		FROM users WHERE id = $1
	`, userID).Scan(&tier, &status, &whitelisted)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("agency access lookup failed: user=%s: %v", userID, err)
		return AgencyAccess{}
	}
	if err == nil {
		tierOK := tier == TierAgency || whitelisted
		statusOK := status == models.SubscriptionActive || whitelisted
		if tierOK && statusOK {
			return AgencyAccess{IsOwner: true, AgencyOwnerID: userID, HasAccess: true}
		}
	}

	// Path 2: an active delegation row names the user a manager.
	var ownerID uuid.UUID
	err = r.db.Pool.QueryRow(ctx, `
		SELECT agency_owner_id FROM agency_members
		WHERE member_user_id = $1 AND can_manage_agency = TRUE AND status = $2
	`, userID, models.AgencyMemberActive).Scan(&ownerID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("agency delegation lookup failed: user=%s: %v", userID, err)
		}
		return AgencyAccess{}
	}

	return AgencyAccess{IsManager: true, AgencyOwnerID: ownerID, HasAccess: true}
}
