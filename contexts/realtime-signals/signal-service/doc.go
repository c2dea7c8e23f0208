// Package signalservice implements the realtime change-notification core.
//
// A touch durably bumps the per-(tenant, kind) version in the signal
// repository, then fans the committed event out on the in-process bus to
// every live stream subscribed to that exact pair. Reconnecting clients read
// the durable rows "since" a timestamp before subscribing live, so the bus
// can stay history-free.
//
// Layering:
// - domain: signal kinds, the versioned TenantSignal row, errors
// - application: touch command, catch-up and diagnostics queries
// - ports: repository, bus, and clock boundaries
// - adapters: memory and postgres repositories, HTTP DTO mapping
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The repository is the single source of truth for versions; the bus is a
//   notification optimization and the system stays correct without it.
// - Publish failures after a durable touch are logged, never propagated.
package signalservice
