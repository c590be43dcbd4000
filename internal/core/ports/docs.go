// Package ports declares what the transport core consumes from the host game
// (buildings, inventories, roads, economy, readiness) and from infrastructure
// (snapshot storage, metrics).
package ports
