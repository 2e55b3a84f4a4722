package entities

import (
	"strings"

	domainerrors "reqtrace/contexts/identity-access/access-control/domain/errors"
)

// Role is the closed set of caller roles known to the platform.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCompliance  Role = "compliance"
	RoleStakeholder Role = "stakeholder"
	RoleDeveloper   Role = "developer"
	RoleTester      Role = "tester"
	RoleViewer      Role = "viewer"
)

// ParseRole validates a raw role value at construction time so an unknown
// role is an error instead of a silent empty-permission fallthrough.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCompliance:
		return RoleCompliance, nil
	case RoleStakeholder:
		return RoleStakeholder, nil
	case RoleDeveloper:
		return RoleDeveloper, nil
	case RoleTester:
		return RoleTester, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", domainerrors.ErrUnknownRole
	}
}

// CallerContext is the already-authenticated identity for one inbound
// operation. It is built per request and never persisted.
type CallerContext struct {
	Username      string
	Role          Role
	SourceAddress string
}

// NewCallerContext builds a caller from externally authenticated values.
func NewCallerContext(username string, rawRole string, sourceAddress string) (CallerContext, error) {
	if strings.TrimSpace(username) == "" {
		return CallerContext{}, domainerrors.ErrUnauthenticated
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return CallerContext{}, err
	}
	return CallerContext{
		Username:      username,
		Role:          role,
		SourceAddress: sourceAddress,
	}, nil
}
