// Package auditservice implements the reqtrace audit trail.
//
// Layering:
// - domain: append-only audit entry entity and action vocabulary
// - application: fail-open recorder, export, relay worker
// - ports: durable store and diagnostic stream boundaries
// - adapters: memory, postgres, event publisher, HTTP export handler
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Recording never fails the primary operation; sink errors are logged to
//   the diagnostic channel and swallowed.
// - Entries are never mutated or deleted once written.
package auditservice
