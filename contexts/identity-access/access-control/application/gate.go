package application

import (
	"log/slog"

	"reqtrace/contexts/identity-access/access-control/domain/entities"
	domainerrors "reqtrace/contexts/identity-access/access-control/domain/errors"
	"reqtrace/contexts/identity-access/access-control/domain/services"
)

// Gate evaluates a caller against required permission tokens. It is total and
// side-effect free; recording the outcome belongs to the calling module, and
// no data access may happen before this check passes.
type Gate struct {
	Logger *slog.Logger
}

// Authorize returns nil when every required token is granted to the caller's
// role. A nil caller denies with ErrUnauthenticated; a role missing any token
// denies with AccessDeniedError listing the required-but-missing tokens.
func (g Gate) Authorize(caller *entities.CallerContext, required ...string) error {
	logger := ResolveLogger(g.Logger)

	if caller == nil {
		logger.Warn("authorization denied for missing caller",
			"event", "access_denied_unauthenticated",
			"module", "identity-access/access-control",
			"layer", "application",
			"required", required,
		)
		return domainerrors.ErrUnauthenticated
	}

	permissions := services.PermissionsFor(caller.Role)
	allowed, missing := services.GrantsAll(permissions, required)
	if !allowed {
		logger.Warn("authorization denied",
			"event", "access_denied_insufficient_permissions",
			"module", "identity-access/access-control",
			"layer", "application",
			"username", caller.Username,
			"role", string(caller.Role),
			"missing", missing,
		)
		return &domainerrors.AccessDeniedError{Missing: missing}
	}

	logger.Debug("authorization allowed",
		"event", "access_allowed",
		"module", "identity-access/access-control",
		"layer", "application",
		"username", caller.Username,
		"role", string(caller.Role),
		"required", required,
	)
	return nil
}
