// Package accesscontrol implements role-based permission evaluation for reqtrace.
//
// Layering:
// - domain: role/permission table, caller context, denial errors
// - application: the authorization gate consumed by other modules
//
// Boundary notes:
// - The permission table is immutable data built at init; adding a role or
//   token must never require new control flow.
// - The gate performs no I/O; auditing the decision is the caller's job.
package accesscontrol
