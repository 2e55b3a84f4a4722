package accesscontrol

import (
	"log/slog"

	"reqtrace/contexts/identity-access/access-control/application"
)

// Module is the access-control composition root exposed to runtime wiring.
type Module struct {
	Gate application.Gate
}

// NewModule wires the authorization gate.
func NewModule(logger *slog.Logger) Module {
	return Module{
		Gate: application.Gate{Logger: logger},
	}
}
