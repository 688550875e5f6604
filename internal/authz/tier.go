package authz

// Subscription tiers
const (
	TierFree        = "free"
	TierSolo        = "solo"
	TierPro         = "pro"
	TierProPlus     = "pro_plus"
	TierAgency      = "agency"
	TierDevelopment = "development"
)

// Feature flags carried by a tier
const (
	FeatureCanPost           = "canPost"
	FeatureAIFeatures        = "aiFeatures"
	FeatureApprovalWorkflows = "approvalWorkflows"
)

// Limit is a ceiling that may be unlimited. Using a tagged value instead of
// a numeric infinity sentinel keeps JSON serialization well-defined.
type Limit struct {
	n         int
	unlimited bool
}

func Limited(n int) Limit { return Limit{n: n} }
func Unlimited() Limit    { return Limit{unlimited: true} }

func (l Limit) IsUnlimited() bool { return l.unlimited }

// Value returns the finite ceiling. Meaningless when IsUnlimited.
func (l Limit) Value() int { return l.n }

// Allows reports whether a count below the ceiling is still available,
// i.e. count < n for finite limits.
func (l Limit) Allows(count int) bool {
	return l.unlimited || count < l.n
}

type TierConfig struct {
	Workspaces        Limit
	TeamMembers       Limit
	CanPost           bool
	AIFeatures        bool
	ApprovalWorkflows bool
}

// tierCatalog is immutable configuration; nothing writes to it after init.
var tierCatalog = map[string]TierConfig{
	TierFree: {
		Workspaces:  Limited(0),
		TeamMembers: Limited(1),
	},
	TierSolo: {
		Workspaces:  Limited(1),
		TeamMembers: Limited(1),
		CanPost:     true,
	},
	TierPro: {
		Workspaces:  Limited(3),
		TeamMembers: Limited(5),
		CanPost:     true,
		AIFeatures:  true,
	},
	TierProPlus: {
		Workspaces:        Limited(10),
		TeamMembers:       Limited(15),
		CanPost:           true,
		AIFeatures:        true,
		ApprovalWorkflows: true,
	},
	TierAgency: {
		Workspaces:        Unlimited(),
		TeamMembers:       Unlimited(),
		CanPost:           true,
		AIFeatures:        true,
		ApprovalWorkflows: true,
	},
	TierDevelopment: {
		Workspaces:        Unlimited(),
		TeamMembers:       Unlimited(),
		CanPost:           true,
		AIFeatures:        true,
		ApprovalWorkflows: true,
	},
}

// TierConfigFor resolves a tier name to its entitlements. Unknown or empty
// names fall back to the free tier.
func TierConfigFor(tier string) TierConfig {
	if cfg, ok := tierCatalog[tier]; ok {
		return cfg
	}
	return tierCatalog[TierFree]
}

// HasFeature reports whether the tier carries the named feature flag.
// Unknown tiers resolve to free; unknown features are false.
func HasFeature(tier, feature string) bool {
	cfg := TierConfigFor(tier)
	switch feature {
	case FeatureCanPost:
		return cfg.CanPost
	case FeatureAIFeatures:
		return cfg.AIFeatures
	case FeatureApprovalWorkflows:
		return cfg.ApprovalWorkflows
	default:
		return false
	}
}

// CanCreateWorkspace checks the workspace ceiling against the count of
// workspaces the user currently owns. Purchased add-ons raise a finite
// ceiling.
func CanCreateWorkspace(tier string, currentCount, addOns int) bool {
	cfg := TierConfigFor(tier)
	if cfg.Workspaces.IsUnlimited() {
		return true
	}
	return currentCount < cfg.Workspaces.Value()+addOns
}

// CanInviteTeamMember checks the team-member ceiling. Callers pass the
// proposed total, i.e. the current count already incremented by the
// prospective member: the check is proposedTotal < ceiling. This differs
// from CanCreateWorkspace, which takes the current count; both conventions
// are long-standing and callers depend on them.
func CanInviteTeamMember(tier string, proposedTotal int) bool {
	return TierConfigFor(tier).TeamMembers.Allows(proposedTotal)
}
