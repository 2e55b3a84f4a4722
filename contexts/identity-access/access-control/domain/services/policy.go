package services

import "reqtrace/contexts/identity-access/access-control/domain/entities"

// Permission tokens understood by the platform. PermissionWildcard grants
// every token, including ones added later.
const (
	PermissionWildcard = "*"
	PermissionView     = "view"
	PermissionExport   = "export"
	PermissionAudit    = "audit"
	PermissionReport   = "report"
	PermissionLink     = "link"
	PermissionFlag     = "flag"
	PermissionEdit     = "edit"
)

// rolePermissions is the single source of truth for authorization decisions.
// It is data on purpose: a new role or token is a one-line change.
var rolePermissions = map[entities.Role][]string{
	entities.RoleAdmin:       {PermissionWildcard},
	entities.RoleCompliance:  {PermissionView, PermissionExport, PermissionAudit, PermissionReport},
	entities.RoleStakeholder: {PermissionView, PermissionReport},
	entities.RoleDeveloper:   {PermissionView, PermissionLink},
	entities.RoleTester:      {PermissionView, PermissionLink, PermissionFlag},
	entities.RoleViewer:      {PermissionView},
}

// PermissionsFor returns the permission set for a role. Unknown roles map to
// an empty set; ParseRole rejects them before a caller context exists.
func PermissionsFor(role entities.Role) []string {
	permissions := rolePermissions[role]
	out := make([]string, len(permissions))
	copy(out, permissions)
	return out
}

// GrantsAll reports whether the permission set contains every required token,
// honoring the wildcard.
func GrantsAll(permissions []string, required []string) (bool, []string) {
	granted := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		if p == PermissionWildcard {
			return true, nil
		}
		granted[p] = struct{}{}
	}

	var missing []string
	for _, token := range required {
		if _, ok := granted[token]; !ok {
			missing = append(missing, token)
		}
	}
	return len(missing) == 0, missing
}
