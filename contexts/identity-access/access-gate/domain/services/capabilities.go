package services

// Membership roles form a total order; every tenant-scoped permission names
// the minimum role that may exercise it.
const (
	MembershipViewer = "VIEWER"
	MembershipMember = "MEMBER"
	MembershipAdmin  = "ADMIN"
	MembershipOwner  = "OWNER"
)

// CapabilityConfig is the raw configuration a table is built from. Permission
// keys and role names are opaque strings to this package.
type CapabilityConfig struct {
	// RolePermissions maps a staff role to the permission keys it grants.
	RolePermissions map[string][]string
	// PermissionMinRole maps a permission key to the minimum tenant
	// membership role that may exercise it.
	PermissionMinRole map[string]string
	// MembershipOrder lists membership roles from lowest to highest.
	MembershipOrder []string
}

// CapabilityTable resolves role/permission questions. Built once at process
// start, read-only afterwards, safe for concurrent use.
type CapabilityTable struct {
	rolePermissions   map[string]map[string]struct{}
	permissionMinRole map[string]string
	membershipRank    map[string]int
}

func NewCapabilityTable(cfg CapabilityConfig) *CapabilityTable {
	table := &CapabilityTable{
		rolePermissions:   make(map[string]map[string]struct{}, len(cfg.RolePermissions)),
		permissionMinRole: make(map[string]string, len(cfg.PermissionMinRole)),
		membershipRank:    make(map[string]int, len(cfg.MembershipOrder)),
	}
	for role, permissions := range cfg.RolePermissions {
		set := make(map[string]struct{}, len(permissions))
		for _, permission := range permissions {
			set[permission] = struct{}{}
		}
		table.rolePermissions[role] = set
	}
	for permission, role := range cfg.PermissionMinRole {
		table.permissionMinRole[permission] = role
	}
	for rank, role := range cfg.MembershipOrder {
		table.membershipRank[role] = rank
	}
	return table
}

// GrantsPermission reports whether the staff role holds the permission key.
// Unknown roles and unknown permissions deny.
func (t *CapabilityTable) GrantsPermission(role, permission string) bool {
	set, ok := t.rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasMembershipRole reports whether role dominates atLeast in the membership
// order. Unknown roles on either side deny.
func (t *CapabilityTable) HasMembershipRole(role, atLeast string) bool {
	have, ok := t.membershipRank[role]
	if !ok {
		return false
	}
	want, ok := t.membershipRank[atLeast]
	if !ok {
		return false
	}
	return have >= want
}

// MinMembershipRole reports the minimum membership role for a permission key.
func (t *CapabilityTable) MinMembershipRole(permission string) (string, bool) {
	role, ok := t.permissionMinRole[permission]
	return role, ok
}

// DefaultCapabilityTable is the legal-practice role/permission configuration
// the process ships with. The concrete keys are configuration, not logic: the
// resolver treats them as opaque.
func DefaultCapabilityTable() *CapabilityTable {
	viewerPermissions := []string{
		"dashboard:view", "case:view", "task:view", "document:view", "billing:view",
	}
	memberPermissions := append(append([]string{}, viewerPermissions...),
		"dashboard:edit",
		"case:create", "case:edit", "case:assign", "case:archive",
		"task:create", "task:edit",
		"document:upload", "document:edit",
		"billing:create", "billing:edit",
		"team:view", "approval:create", "crm:view", "crm:edit", "ai:use",
	)
	managerPermissions := append(append([]string{}, memberPermissions...),
		"case:delete", "task:delete", "document:delete", "document:template_manage",
		"billing:approve", "timelog:approve",
		"team:manage", "user:manage", "user:view_all",
		"approval:approve", "approval:view_all",
		"tools:manage", "admin:access", "admin:settings", "admin:audit",
	)

	return NewCapabilityTable(CapabilityConfig{
		RolePermissions: map[string][]string{
			"PARTNER":         managerPermissions,
			"ADMIN":           managerPermissions,
			"SENIOR_LAWYER":   memberPermissions,
			"LAWYER":          memberPermissions,
			"TRAINEE":         viewerPermissions,
			"HR":              append(append([]string{}, viewerPermissions...), "team:view", "user:view_all", "approval:create"),
			"MARKETING":       append(append([]string{}, viewerPermissions...), "crm:view", "crm:edit"),
			"LEGAL_SECRETARY": append(append([]string{}, viewerPermissions...), "task:create", "task:edit", "document:upload", "approval:create"),
			"CLIENT":          {"dashboard:view", "case:view", "document:view"},
			// FIRM_ENTITY is the archival placeholder identity; it holds nothing.
			"FIRM_ENTITY": {},
		},
		PermissionMinRole: map[string]string{
			"dashboard:view": MembershipViewer,
			"dashboard:edit": MembershipMember,

			"case:view":    MembershipViewer,
			"case:create":  MembershipMember,
			"case:edit":    MembershipMember,
			"case:delete":  MembershipAdmin,
			"case:assign":  MembershipMember,
			"case:archive": MembershipMember,

			"task:view":   MembershipViewer,
			"task:create": MembershipMember,
			"task:edit":   MembershipMember,
			"task:delete": MembershipAdmin,

			"document:view":            MembershipViewer,
			"document:upload":          MembershipMember,
			"document:edit":            MembershipMember,
			"document:delete":          MembershipAdmin,
			"document:template_manage": MembershipAdmin,

			"billing:view":    MembershipViewer,
			"billing:create":  MembershipMember,
			"billing:edit":    MembershipMember,
			"billing:approve": MembershipAdmin,
			"timelog:approve": MembershipAdmin,

			"team:view":     MembershipMember,
			"team:manage":   MembershipAdmin,
			"user:manage":   MembershipAdmin,
			"user:view_all": MembershipAdmin,

			"approval:create":   MembershipMember,
			"approval:approve":  MembershipAdmin,
			"approval:view_all": MembershipAdmin,

			"crm:view": MembershipMember,
			"crm:edit": MembershipMember,

			"tools:manage": MembershipAdmin,
			"ai:use":       MembershipMember,

			"admin:access":   MembershipAdmin,
			"admin:settings": MembershipAdmin,
			"admin:audit":    MembershipAdmin,
		},
		MembershipOrder: []string{MembershipViewer, MembershipMember, MembershipAdmin, MembershipOwner},
	})
}
