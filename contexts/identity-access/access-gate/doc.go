// Package accessgate implements the tenant authorization gate inside Lawdesk.
//
// Every mutating and streaming operation passes through this module: it
// resolves whether a caller holds a capability in a tenant, bounds the rate of
// named actions per caller/tenant, and verifies tenant membership before any
// request-scoped context is established.
//
// Layering:
// - domain: capability table, decisions, gate errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for membership and rate-limit storage
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The capability table is loaded once at process start and never mutated.
// - Unknown roles and permissions always deny; there is no fail-open path.
// - Rate-limit counters are the only mutable state and are scoped per key.
package accessgate
