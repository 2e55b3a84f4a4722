// Package requirementservice implements requirement traceability for reqtrace.
//
// Layering:
// - domain: requirement entity, artifact kinds, merge/normalization rules
// - application: aggregation fan-out plus matrix/report/link/flag use cases
// - ports: persistence and external artifact source boundaries
// - adapters: memory, postgres, upstream HTTP clients, HTTP handler
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Every use case authorizes first and audits both outcomes; no persistence
//   or aggregation work happens for a denied caller.
// - Aggregation failures for one artifact kind degrade to an empty list for
//   that kind only and are never surfaced to the caller.
package requirementservice
