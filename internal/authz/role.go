package authz

// Workspace roles (current scheme)
const (
	RoleOwner  = "owner"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// Permissions a role can carry
const (
	PermManageTeam      = "manage_team"
	PermManageSettings  = "manage_settings"
	PermDeletePosts     = "delete_posts"
	PermApprovePosts    = "approve_posts"
	PermCreatePosts     = "create_posts"
	PermEditAllPosts    = "edit_all_posts"
	PermDeleteAllPosts  = "delete_all_posts"
	PermDeleteWorkspace = "delete_workspace"
)

// legacyRoles collapses the historical five-role scheme onto the current
// three. Normalization runs at every boundary where a raw role string
// enters the system.
var legacyRoles = map[string]string{
	"owner":     RoleOwner,
	"admin":     RoleMember,
	"editor":    RoleMember,
	"client":    RoleViewer,
	"view_only": RoleViewer,
}

// rolePermissions is immutable configuration; nothing writes to it after init.
var rolePermissions = map[string]map[string]bool{
	RoleOwner: {
		PermManageTeam:      true,
		PermManageSettings:  true,
		PermDeletePosts:     true,
		PermApprovePosts:    true,
		PermCreatePosts:     true,
		PermEditAllPosts:    true,
		PermDeleteAllPosts:  true,
		PermDeleteWorkspace: true,
	},
	RoleMember: {
		PermCreatePosts: true,
	},
	RoleViewer: {},
}

// NormalizeRole maps any stored role string onto the current scheme. An
// empty role normalizes to viewer. Strings outside both schemes pass
// through unchanged and miss the permission table, which falls back to the
// viewer set at lookup time.
func NormalizeRole(role string) string {
	if role == "" {
		return RoleViewer
	}
	if current, ok := legacyRoles[role]; ok {
		return current
	}
	return role
}

// HasPermission reports whether the role carries the permission. Roles are
// normalized first; unrecognized roles resolve to the viewer set.
func HasPermission(role, permission string) bool {
	perms, ok := rolePermissions[NormalizeRole(role)]
	if !ok {
		perms = rolePermissions[RoleViewer]
	}
	return perms[permission]
}

// Post actions
const (
	PostActionCreate  = "create"
	PostActionEdit    = "edit"
	PostActionDelete  = "delete"
	PostActionApprove = "approve"
)

// CanPerformPostAction decides a post-level action. Editing and deleting
// your own post is always allowed; touching someone else's requires the
// matching *_all permission. Approval ignores ownership entirely.
func CanPerformPostAction(role, action string, isOwnPost bool) bool {
	switch action {
	case PostActionEdit:
		return isOwnPost || HasPermission(role, PermEditAllPosts)
	case PostActionDelete:
		return isOwnPost || HasPermission(role, PermDeleteAllPosts)
	case PostActionApprove:
		return HasPermission(role, PermApprovePosts)
	case PostActionCreate:
		return HasPermission(role, PermCreatePosts)
	default:
		return false
	}
}

// RoleDefaultFlags returns the membership override flags seeded when the
// given role is assigned. Explicit overrides supplied alongside a role
// change are applied on top of these and win.
type MemberFlags struct {
	CanManageTeam     bool
	CanManageSettings bool
	CanDeletePosts    bool
	CanApprovePosts   bool
	CanFinalApproval  bool
}

func RoleDefaultFlags(role string) MemberFlags {
	r := NormalizeRole(role)
	return MemberFlags{
		CanManageTeam:     HasPermission(r, PermManageTeam),
		CanManageSettings: HasPermission(r, PermManageSettings),
		CanDeletePosts:    HasPermission(r, PermDeletePosts),
		CanApprovePosts:   HasPermission(r, PermApprovePosts),
		CanFinalApproval:  HasPermission(r, PermApprovePosts),
	}
}
